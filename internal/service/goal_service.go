package service

import (
	"context"
	"errors"
	"log"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMemberNotFound = errors.New("member not found")
)

// GoalInput carries a partial goal update. Nil fields keep their previous
// value; present fields are sanitized before persisting.
type GoalInput struct {
	PrimaryGoal          *string   `json:"primaryGoal,omitempty"`
	CurrentWeight        *float64  `json:"currentWeight,omitempty"`
	TargetWeight         *float64  `json:"targetWeight,omitempty"`
	WeeklyWorkoutTarget  *int      `json:"weeklyWorkoutTarget,omitempty"`
	PreferredWorkoutTime *string   `json:"preferredWorkoutTime,omitempty"`
	DietaryPreferences   *[]string `json:"dietaryPreferences,omitempty"`
}

// GoalService keeps the standalone FitnessGoal record and the mirror embedded
// in the member document consistent. The standalone record is the source of
// truth; the mirror is a read cache that gets overwritten whenever the two
// diverge.
type GoalService interface {
	// GetGoals returns the member's goals, repairing whichever side of the
	// standalone/mirror pair is missing or stale along the way.
	GetGoals(ctx context.Context, memberID primitive.ObjectID) (*domain.FitnessGoal, error)
	// UpsertGoals merges the input over the existing goals, persists the
	// standalone record, and best-effort refreshes the mirror.
	UpsertGoals(ctx context.Context, memberID primitive.ObjectID, input GoalInput) (*domain.FitnessGoal, error)
}

// goalService implements the GoalService interface.
type goalService struct {
	goalRepo repository.FitnessGoalRepository
	userRepo repository.UserRepository
}

// NewGoalService creates a new instance of goalService.
func NewGoalService(goalRepo repository.FitnessGoalRepository, userRepo repository.UserRepository) GoalService {
	return &goalService{
		goalRepo: goalRepo,
		userRepo: userRepo,
	}
}

func (s *goalService) GetGoals(ctx context.Context, memberID primitive.ObjectID) (*domain.FitnessGoal, error) {
	member, err := s.userRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	standalone, err := s.goalRepo.GetByMemberID(ctx, memberID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	switch {
	case standalone == nil && member.FitnessGoals != nil:
		// Only the mirror exists: promote it into the standalone record.
		goal := &domain.FitnessGoal{
			MemberID:    memberID,
			GoalProfile: member.FitnessGoals.Sanitize(),
		}
		persisted, err := s.goalRepo.Upsert(ctx, goal)
		if err != nil {
			return nil, err
		}
		// Sanitization may have changed values the mirror still carries raw.
		if !member.FitnessGoals.Equal(persisted.GoalProfile) {
			s.refreshMirror(ctx, memberID, persisted.GoalProfile)
		}
		return persisted, nil

	case standalone != nil:
		// Standalone wins: push its values onto a missing or divergent mirror.
		if member.FitnessGoals == nil || !member.FitnessGoals.Equal(standalone.GoalProfile) {
			s.refreshMirror(ctx, memberID, standalone.GoalProfile)
		}
		return standalone, nil

	default:
		// Neither side exists. Hand back defaults without persisting; the
		// record is only materialized once the member saves something.
		return &domain.FitnessGoal{
			MemberID:    memberID,
			GoalProfile: domain.DefaultGoalProfile(),
		}, nil
	}
}

func (s *goalService) UpsertGoals(ctx context.Context, memberID primitive.ObjectID, input GoalInput) (*domain.FitnessGoal, error) {
	if _, err := s.userRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	existing, err := s.goalRepo.GetByMemberID(ctx, memberID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	profile := domain.DefaultGoalProfile()
	if existing != nil {
		profile = existing.GoalProfile
	}
	profile = mergeGoalInput(profile, input).Sanitize()

	persisted, err := s.goalRepo.Upsert(ctx, &domain.FitnessGoal{
		MemberID:    memberID,
		GoalProfile: profile,
	})
	if err != nil {
		return nil, err
	}

	// The standalone write is authoritative and has already succeeded, so a
	// mirror failure is logged and not propagated; the next GetGoals call
	// repairs the divergence.
	s.refreshMirror(ctx, memberID, persisted.GoalProfile)
	return persisted, nil
}

// refreshMirror overwrites the embedded goal copy on the member document.
// Best-effort: failures are logged, never returned.
func (s *goalService) refreshMirror(ctx context.Context, memberID primitive.ObjectID, profile domain.GoalProfile) {
	if err := s.userRepo.UpdateFitnessGoals(ctx, memberID, profile); err != nil {
		log.Printf("WARN: failed to refresh fitness goal mirror for member %s: %v", memberID.Hex(), err)
	}
}

func mergeGoalInput(base domain.GoalProfile, input GoalInput) domain.GoalProfile {
	if input.PrimaryGoal != nil {
		base.PrimaryGoal = *input.PrimaryGoal
	}
	if input.CurrentWeight != nil {
		base.CurrentWeight = *input.CurrentWeight
	}
	if input.TargetWeight != nil {
		base.TargetWeight = *input.TargetWeight
	}
	if input.WeeklyWorkoutTarget != nil {
		base.WeeklyWorkoutTarget = *input.WeeklyWorkoutTarget
	}
	if input.PreferredWorkoutTime != nil {
		base.PreferredWorkoutTime = *input.PreferredWorkoutTime
	}
	if input.DietaryPreferences != nil {
		base.DietaryPreferences = *input.DietaryPreferences
	}
	return base
}
