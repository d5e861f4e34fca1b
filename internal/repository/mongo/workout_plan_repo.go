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

const workoutPlanCollectionName = "workout_plans"

// mongoWorkoutPlanRepository implements repository.WorkoutPlanRepository
type mongoWorkoutPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates a new WorkoutPlan repository.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoWorkoutPlanRepository{
		collection: db.Collection(workoutPlanCollectionName),
	}
}

// Create inserts a new workout plan.
func (r *mongoWorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.MemberID == primitive.NilObjectID || plan.TrainerID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("workout plan requires memberId, trainerId, and name")
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

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

// GetByID retrieves a single workout plan by its ID.
func (r *mongoWorkoutPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByMemberID retrieves all workout plans assigned to a member, newest first.
func (r *mongoWorkoutPlanRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	filter := bson.M{"memberId": memberID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findPlans(ctx, filter, findOptions)
}

// GetActiveForDate retrieves the member's plans whose inclusive date range
// contains the given calendar date.
func (r *mongoWorkoutPlanRepository) GetActiveForDate(ctx context.Context, memberID primitive.ObjectID, date time.Time) ([]domain.WorkoutPlan, error) {
	day := domain.DateOnly(date)
	// startDate/endDate are stored at midnight UTC, so inclusive bounds compare directly.
	filter := bson.M{
		"memberId":  memberID,
		"startDate": bson.M{"$lte": day},
		"endDate":   bson.M{"$gte": day},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findPlans(ctx, filter, findOptions)
}

func (r *mongoWorkoutPlanRepository) findPlans(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	return plans, nil
}

// Update overwrites the mutable fields of a plan. MemberID and TrainerID are
// not changed via this update; reassignment is a different operation.
func (r *mongoWorkoutPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	filter := bson.M{"_id": plan.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":      plan.Name,
			"startDate": plan.StartDate,
			"endDate":   plan.EndDate,
			"days":      plan.Days,
			"notes":     plan.Notes,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan, but only when it belongs to the given trainer.
func (r *mongoWorkoutPlanRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	if id == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return errors.New("plan ID and trainer ID are required for deletion")
	}

	filter := bson.M{
		"_id":       id,
		"trainerId": trainerID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Plan not found OR not owned by this trainer.
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutPlanIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The active-plan query filters by member and date range.
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
