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

const workoutProgressCollectionName = "workout_progress"

// mongoWorkoutProgressRepository implements repository.WorkoutProgressRepository
type mongoWorkoutProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutProgressRepository creates a new WorkoutProgress repository.
func NewMongoWorkoutProgressRepository(db *mongo.Database) repository.WorkoutProgressRepository {
	return &mongoWorkoutProgressRepository{
		collection: db.Collection(workoutProgressCollectionName),
	}
}

func progressKeyFilter(memberID, planID primitive.ObjectID, date time.Time) bson.M {
	return bson.M{
		"memberId": memberID,
		"planId":   planID,
		"date":     domain.DateOnly(date),
	}
}

// GetByKey retrieves the progress record for (memberId, planId, date).
func (r *mongoWorkoutProgressRepository) GetByKey(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time) (*domain.WorkoutProgress, error) {
	var progress domain.WorkoutProgress
	err := r.collection.FindOne(ctx, progressKeyFilter(memberID, planID, date)).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// Insert creates a brand-new progress record. The unique index on
// (memberId, planId, date) turns a creation race into ErrDuplicateKey,
// which the service resolves by retrying the toggle.
func (r *mongoWorkoutProgressRepository) Insert(ctx context.Context, progress *domain.WorkoutProgress) (primitive.ObjectID, error) {
	if progress.MemberID == primitive.NilObjectID || progress.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("progress requires memberId and planId")
	}
	if len(progress.Exercises) == 0 {
		// A record is never created with zero entries.
		return primitive.NilObjectID, errors.New("progress requires at least one exercise entry")
	}

	progress.ID = primitive.NewObjectID()
	progress.Date = domain.DateOnly(progress.Date)
	now := time.Now().UTC()
	progress.CreatedAt = now
	progress.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, progress)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted progress ID")
	}
	return insertedID, nil
}

// ToggleExercise flips the completed flag of the named entry and recomputes
// the record-level completed flag, all server-side in one conditional update.
// Two concurrent toggles of different exercises on the same record therefore
// both survive; there is no client-side read-modify-write to lose.
func (r *mongoWorkoutProgressRepository) ToggleExercise(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time, exerciseName string) (*domain.WorkoutProgress, error) {
	filter := progressKeyFilter(memberID, planID, date)
	// Only match records that actually contain the exercise, so a toggle for an
	// unknown name reports ErrNotFound instead of silently doing nothing.
	filter["exercises.name"] = exerciseName

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"exercises": bson.M{"$map": bson.M{
				"input": "$exercises",
				"as":    "ex",
				"in": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$$ex.name", exerciseName}},
					bson.M{"$mergeObjects": bson.A{
						"$$ex",
						bson.M{"completed": bson.M{"$not": "$$ex.completed"}},
					}},
					"$$ex",
				}},
			}},
			"updatedAt": time.Now().UTC(),
		}}},
		{{Key: "$set", Value: bson.M{
			"completed": bson.M{"$allElementsTrue": bson.A{"$exercises.completed"}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.WorkoutProgress
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Reset removes the record for the key, clearing the day's progress.
func (r *mongoWorkoutProgressRepository) Reset(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time) error {
	result, err := r.collection.DeleteOne(ctx, progressKeyFilter(memberID, planID, date))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutProgressIndexes creates necessary indexes. Call during startup.
// The unique compound index is what makes lazy creation safe under concurrency.
func EnsureWorkoutProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "memberId", Value: 1},
				{Key: "planId", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			// Member history screens read by member and date.
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
