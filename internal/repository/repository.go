package repository

import (
	"context"
	"time"

	"gympulse/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddMemberToTrainer(ctx context.Context, trainerID, memberID primitive.ObjectID) error
	GetMembersByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetTrainerForMember(ctx context.Context, memberID, trainerID primitive.ObjectID) error
	// UpdateFitnessGoals overwrites the goal mirror embedded in the member document.
	UpdateFitnessGoals(ctx context.Context, memberID primitive.ObjectID, goals domain.GoalProfile) error
}

// WorkoutPlanRepository defines the interface for interacting with workout plan data.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	// GetActiveForDate returns the member's plans whose inclusive [startDate, endDate]
	// range contains the given date. Callers must not rely on the returned order.
	GetActiveForDate(ctx context.Context, memberID primitive.ObjectID, date time.Time) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error
}

// WorkoutProgressRepository defines the interface for the daily completion log.
// Records are keyed by (memberId, planId, date) with a unique index.
type WorkoutProgressRepository interface {
	GetByKey(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time) (*domain.WorkoutProgress, error)
	// Insert creates a brand-new record; returns ErrDuplicateKey when a concurrent
	// writer created one for the same key first.
	Insert(ctx context.Context, progress *domain.WorkoutProgress) (primitive.ObjectID, error)
	// ToggleExercise atomically flips the named entry's completed flag and
	// recomputes the record-level completed flag in a single conditional update.
	// Returns ErrNotFound when no record exists for the key, or when the record
	// has no entry with that exercise name.
	ToggleExercise(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time, exerciseName string) (*domain.WorkoutProgress, error)
	// Reset removes the record for the key, clearing the day's progress.
	Reset(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time) error
}

// FitnessGoalRepository defines the interface for the standalone goal records.
type FitnessGoalRepository interface {
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) (*domain.FitnessGoal, error)
	// Upsert writes the goal record for the member, creating it if absent,
	// and returns the persisted record.
	Upsert(ctx context.Context, goal *domain.FitnessGoal) (*domain.FitnessGoal, error)
}

// ProgressPhotoRepository defines the interface for progress photo metadata.
type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.ProgressPhoto, error)
	Delete(ctx context.Context, id primitive.ObjectID, memberID primitive.ObjectID) error
}
