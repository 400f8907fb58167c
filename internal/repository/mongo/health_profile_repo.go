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

const healthProfileCollectionName = "user_health_profiles"

// mongoHealthProfileRepository implements repository.HealthProfileRepository
type mongoHealthProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoHealthProfileRepository creates a new health profile repository.
func NewMongoHealthProfileRepository(db *mongo.Database) repository.HealthProfileRepository {
	return &mongoHealthProfileRepository{
		collection: db.Collection(healthProfileCollectionName),
	}
}

// Upsert creates the user's health profile or replaces its fields if one
// already exists. One profile per user.
func (r *mongoHealthProfileRepository) Upsert(ctx context.Context, profile *domain.HealthProfile) (*domain.HealthProfile, error) {
	if profile.UserID == primitive.NilObjectID {
		return nil, errors.New("health profile requires userId")
	}
	now := time.Now().UTC()
	filter := bson.M{"userId": profile.UserID}
	update := bson.M{
		"$set": bson.M{
			"isSmoker":            profile.IsSmoker,
			"preExistingDiseases": profile.PreExistingDiseases,
			"currentMedications":  profile.CurrentMedications,
			"healthIssues":        profile.HealthIssues,
			"physicalLimitations": profile.PhysicalLimitations,
			"updatedAt":           now,
		},
		"$setOnInsert": bson.M{
			"userId":    profile.UserID,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved domain.HealthProfile
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetByUserID retrieves the health profile for a user.
func (r *mongoHealthProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.HealthProfile, error) {
	var profile domain.HealthProfile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// EnsureHealthProfileIndexes creates necessary indexes. Call during startup.
func EnsureHealthProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
