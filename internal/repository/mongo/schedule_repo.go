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

const scheduleCollectionName = "weekly_schedule"

// mongoScheduleRepository implements repository.ScheduleRepository
type mongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a new schedule repository.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

// Create inserts a new schedule entry.
func (r *mongoScheduleRepository) Create(ctx context.Context, entry *domain.ScheduleEntry) (primitive.ObjectID, error) {
	if entry.PlanID == primitive.NilObjectID || entry.DayOfWeek == "" {
		return primitive.NilObjectID, errors.New("schedule entry requires planId and dayOfWeek")
	}
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted schedule ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single schedule entry by its ID.
func (r *mongoScheduleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduleEntry, error) {
	var entry domain.ScheduleEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByPlanID retrieves all schedule entries of a plan.
func (r *mongoScheduleRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.ScheduleEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.ScheduleEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateStatusIf transitions status from `from` to `to` as one conditional
// update: the current status is part of the filter, so a concurrent caller
// that already moved the entry makes this a no-op reported as
// ErrUpdateFailed (entry exists, guard lost) rather than a silent double
// transition.
func (r *mongoScheduleRepository) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to domain.ScheduleStatus) error {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing entry from a failed guard.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return countErr
		}
		if count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

// Update rewrites the mutable fields of an entry in place. Identity,
// planId, dayOfWeek and createdAt never change; swaps and completions
// mutate the same row so completion history references stay valid.
func (r *mongoScheduleRepository) Update(ctx context.Context, entry *domain.ScheduleEntry) error {
	if entry.ID == primitive.NilObjectID {
		return errors.New("schedule entry ID is required for update")
	}
	filter := bson.M{"_id": entry.ID}
	update := bson.M{
		"$set": bson.M{
			"routineId":    entry.RoutineID,
			"status":       entry.Status,
			"completedAt":  entry.CompletedAt,
			"userFeedback": entry.UserFeedback,
			"isRestDay":    entry.IsRestDay,
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureScheduleIndexes creates necessary indexes. Call during startup.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One entry per (plan, day) pair.
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
