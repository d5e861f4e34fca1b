package mongo

import (
	"context"
	"errors"
	"time"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const fitnessGoalCollectionName = "fitness_goals"

// mongoFitnessGoalRepository implements repository.FitnessGoalRepository
type mongoFitnessGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoFitnessGoalRepository creates a new FitnessGoal repository.
func NewMongoFitnessGoalRepository(db *mongo.Database) repository.FitnessGoalRepository {
	return &mongoFitnessGoalRepository{
		collection: db.Collection(fitnessGoalCollectionName),
	}
}

// GetByMemberID retrieves the standalone goal record for a member.
func (r *mongoFitnessGoalRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) (*domain.FitnessGoal, error) {
	var goal domain.FitnessGoal
	filter := bson.M{"memberId": memberID}
	err := r.collection.FindOne(ctx, filter).Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// Upsert writes the goal record keyed by memberId, creating it if absent,
// and returns the persisted record.
func (r *mongoFitnessGoalRepository) Upsert(ctx context.Context, goal *domain.FitnessGoal) (*domain.FitnessGoal, error) {
	if goal.MemberID == primitive.NilObjectID {
		return nil, errors.New("goal requires memberId")
	}

	now := time.Now().UTC()
	filter := bson.M{"memberId": goal.MemberID}
	update := bson.M{
		"$set": bson.M{
			"primaryGoal":          goal.PrimaryGoal,
			"currentWeight":        goal.CurrentWeight,
			"targetWeight":         goal.TargetWeight,
			"weeklyWorkoutTarget":  goal.WeeklyWorkoutTarget,
			"preferredWorkoutTime": goal.PreferredWorkoutTime,
			"dietaryPreferences":   goal.DietaryPreferences,
			"updatedAt":            now,
		},
		"$setOnInsert": bson.M{
			"memberId":  goal.MemberID,
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var persisted domain.FitnessGoal
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&persisted); err != nil {
		return nil, err
	}
	return &persisted, nil
}

// EnsureFitnessGoalIndexes creates necessary indexes. Call during startup.
func EnsureFitnessGoalIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One goal record per member.
			Keys:    bson.D{{Key: "memberId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
