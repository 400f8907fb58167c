package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-ai/internal/domain"
	"alcyxob/fitness-ai/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires userId")
	}
	plan.ID = primitive.NewObjectID()
	plan.StartDate = domain.DateOnly(plan.StartDate)
	plan.EndDate = domain.DateOnly(plan.EndDate)
	plan.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindCovering returns the plan whose inclusive range contains date.
// Tie-broken by most recent createdAt; under the overlap invariant at most
// one active plan covers any date, so the sort is defensive.
func (r *mongoPlanRepository) FindCovering(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Plan, error) {
	d := domain.DateOnly(date)
	filter := bson.M{
		"userId":    userID,
		"startDate": bson.M{"$lte": d},
		"endDate":   bson.M{"$gte": d},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var plan domain.Plan
	err := r.collection.FindOne(ctx, filter, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindActiveOverlapping returns active plans whose range overlaps [start, end].
func (r *mongoPlanRepository) FindActiveOverlapping(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.Plan, error) {
	filter := bson.M{
		"userId":    userID,
		"isActive":  true,
		"startDate": bson.M{"$lte": domain.DateOnly(end)},
		"endDate":   bson.M{"$gte": domain.DateOnly(start)},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.Plan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// FindLatestEndedBefore returns the most recent plan that ended before date.
func (r *mongoPlanRepository) FindLatestEndedBefore(ctx context.Context, userID primitive.ObjectID, date time.Time) (*domain.Plan, error) {
	filter := bson.M{
		"userId":  userID,
		"endDate": bson.M{"$lt": domain.DateOnly(date)},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "endDate", Value: -1}, {Key: "createdAt", Value: -1}})

	var plan domain.Plan
	err := r.collection.FindOne(ctx, filter, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Deactivate soft-deactivates a plan. Plans are never deleted: completion
// history keeps referencing them and superseded versions stay for audit.
func (r *mongoPlanRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isActive": false}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetMealJSON attaches a generated meal plan to the plan document.
func (r *mongoPlanRepository) SetMealJSON(ctx context.Context, id primitive.ObjectID, mealJSON string) error {
	update := bson.M{"$set": bson.M{"mealJson": mealJSON}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: plan covering a date for a user.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
