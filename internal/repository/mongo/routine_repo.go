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

const routineCollectionName = "routines"

// mongoRoutineRepository implements repository.RoutineRepository
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a new routine repository.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

// Create inserts a new routine.
func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if routine.PlanID == primitive.NilObjectID || routine.Name == "" {
		return primitive.NilObjectID, errors.New("routine requires planId and name")
	}
	routine.ID = primitive.NewObjectID()
	routine.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, routine)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single routine by its ID.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	var routine domain.Routine
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// GetByPlanID retrieves all routines owned by a plan.
func (r *mongoRoutineRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Routine, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routines []domain.Routine
	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// EnsureRoutineIndexes creates necessary indexes. Call during startup.
func EnsureRoutineIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Routine names are unique within their owning plan.
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
