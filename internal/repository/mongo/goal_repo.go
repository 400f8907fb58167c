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

const goalCollectionName = "goals"

// mongoGoalRepository implements repository.GoalRepository
type mongoGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoGoalRepository creates a new goal repository.
func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		collection: db.Collection(goalCollectionName),
	}
}

// Create inserts a new goal.
func (r *mongoGoalRepository) Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	if goal.UserID == primitive.NilObjectID || goal.GoalType == "" {
		return primitive.NilObjectID, errors.New("goal requires userId and goalType")
	}
	goal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted goal ID")
	}
	return insertedID, nil
}

// GetActiveByUserID retrieves the single active goal for a user.
func (r *mongoGoalRepository) GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Goal, error) {
	var goal domain.Goal
	filter := bson.M{"userId": userID, "active": true}
	// Newest first, defensive against a historical double-active state.
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// DeactivateActiveForUser soft-deactivates all active goals for the user.
// Superseded goals are retained for audit, never deleted.
func (r *mongoGoalRepository) DeactivateActiveForUser(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"userId": userID, "active": true}
	update := bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// EnsureGoalIndexes creates necessary indexes. Call during startup.
func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
