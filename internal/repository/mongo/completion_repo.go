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

const completionCollectionName = "daily_completion_history"

// mongoCompletionRepository implements repository.CompletionRepository.
// The collection is append-only: no update or delete methods exist.
type mongoCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionRepository creates a new completion history repository.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

// Create inserts a new completion record.
func (r *mongoCompletionRepository) Create(ctx context.Context, record *domain.CompletionRecord) (primitive.ObjectID, error) {
	if record.UserID == primitive.NilObjectID || record.ScheduleID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("completion record requires userId and scheduleId")
	}
	record.ID = primitive.NewObjectID()
	record.Date = domain.DateOnly(record.Date)
	record.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted completion ID")
	}
	return insertedID, nil
}

// HasCompletedOn reports whether a completed record exists for the user on
// the given date.
func (r *mongoCompletionRepository) HasCompletedOn(ctx context.Context, userID primitive.ObjectID, date time.Time) (bool, error) {
	filter := bson.M{
		"userId":      userID,
		"date":        domain.DateOnly(date),
		"isCompleted": true,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindCompletedInRange returns completed records with date in [from, to],
// ordered by date ascending.
func (r *mongoCompletionRepository) FindCompletedInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.CompletionRecord, error) {
	filter := bson.M{
		"userId":      userID,
		"isCompleted": true,
		"date": bson.M{
			"$gte": domain.DateOnly(from),
			"$lte": domain.DateOnly(to),
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.CompletionRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureCompletionIndexes creates necessary indexes. Call during startup.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Streak walk and weight history both query (user, date).
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
