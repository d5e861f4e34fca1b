package service

import (
	"context"
	"errors"
	"time"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMemberNotRole         = errors.New("user found but is not a member")
	ErrMemberAlreadyAssigned = errors.New("member is already assigned to a trainer")
	ErrMemberNotManaged      = errors.New("member is not coached by this trainer")
	ErrPlanAccessDenied      = errors.New("access denied to modify this plan")
	ErrInvalidDateRange      = errors.New("plan start date must not be after end date")
	ErrEmptySchedule         = errors.New("plan must schedule at least one exercise")
)

// PlanInput carries the trainer-authored plan fields. Days is keyed by the
// raw weekday name as submitted; the service parses it into the enum.
type PlanInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Days      map[string][]domain.Exercise
	Notes     string
}

type TrainerService interface {
	// Roster Management
	AddMemberByEmail(ctx context.Context, trainerID primitive.ObjectID, memberEmail string) (*domain.User, error)
	GetManagedMembers(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)

	// Workout Plan Authoring
	CreateWorkoutPlan(ctx context.Context, trainerID, memberID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	GetPlansForMember(ctx context.Context, trainerID, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	UpdateWorkoutPlan(ctx context.Context, trainerID, planID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	DeleteWorkoutPlan(ctx context.Context, trainerID, planID primitive.ObjectID) error
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo repository.UserRepository
	planRepo repository.WorkoutPlanRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	planRepo repository.WorkoutPlanRepository,
) TrainerService {
	return &trainerService{
		userRepo: userRepo,
		planRepo: planRepo,
	}
}

// === Roster Management ===

// AddMemberByEmail finds a member by email and assigns them to the trainer.
func (s *trainerService) AddMemberByEmail(ctx context.Context, trainerID primitive.ObjectID, memberEmail string) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || memberEmail == "" {
		return nil, errors.New("trainer ID and member email are required")
	}

	member, err := s.userRepo.GetByEmail(ctx, memberEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if member.Role != domain.RoleMember {
		return nil, ErrMemberNotRole
	}

	if member.TrainerID != nil && *member.TrainerID != primitive.NilObjectID {
		if *member.TrainerID == trainerID {
			// Already coached by this trainer; nothing to do.
			return member, nil
		}
		return nil, ErrMemberAlreadyAssigned
	}

	// Two single-document updates, no cross-record transaction: a crash in
	// between leaves a roster entry without the back-reference, repaired the
	// next time the pair is written.
	if err := s.userRepo.AddMemberToTrainer(ctx, trainerID, member.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTrainerForMember(ctx, member.ID, trainerID); err != nil {
		return nil, err
	}

	member.TrainerID = &trainerID
	return member, nil
}

// GetManagedMembers retrieves the list of members coached by the trainer.
func (s *trainerService) GetManagedMembers(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	members, err := s.userRepo.GetMembersByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].PasswordHash = ""
	}
	return members, nil
}

// === Workout Plan Authoring ===

// CreateWorkoutPlan validates and stores a new weekly plan for a coached member.
func (s *trainerService) CreateWorkoutPlan(ctx context.Context, trainerID, memberID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	if trainerID == primitive.NilObjectID || memberID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and member ID are required")
	}

	if err := s.verifyManagedMember(ctx, trainerID, memberID); err != nil {
		return nil, err
	}

	days, err := buildPlanDays(input)
	if err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		MemberID:  memberID,
		TrainerID: trainerID,
		Name:      input.Name,
		StartDate: domain.DateOnly(input.StartDate),
		EndDate:   domain.DateOnly(input.EndDate),
		Days:      days,
		Notes:     input.Notes,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// GetPlansForMember returns all plans the trainer has authored for a coached member.
func (s *trainerService) GetPlansForMember(ctx context.Context, trainerID, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if err := s.verifyManagedMember(ctx, trainerID, memberID); err != nil {
		return nil, err
	}
	return s.planRepo.GetByMemberID(ctx, memberID)
}

// UpdateWorkoutPlan replaces the mutable fields of an existing plan.
func (s *trainerService) UpdateWorkoutPlan(ctx context.Context, trainerID, planID primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}

	days, err := buildPlanDays(input)
	if err != nil {
		return nil, err
	}

	plan.Name = input.Name
	plan.StartDate = domain.DateOnly(input.StartDate)
	plan.EndDate = domain.DateOnly(input.EndDate)
	plan.Days = days
	plan.Notes = input.Notes

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeleteWorkoutPlan removes a plan owned by the trainer.
func (s *trainerService) DeleteWorkoutPlan(ctx context.Context, trainerID, planID primitive.ObjectID) error {
	err := s.planRepo.Delete(ctx, planID, trainerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// verifyManagedMember checks the member exists and is coached by the trainer.
func (s *trainerService) verifyManagedMember(ctx context.Context, trainerID, memberID primitive.ObjectID) error {
	member, err := s.userRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if !member.IsMember() {
		return ErrMemberNotRole
	}
	if member.TrainerID == nil || *member.TrainerID != trainerID {
		return ErrMemberNotManaged
	}
	return nil
}

// buildPlanDays validates the date range and parses weekday keys into the
// closed enum, dropping days submitted with empty exercise lists.
func buildPlanDays(input PlanInput) (map[domain.Weekday][]domain.Exercise, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, errors.New("plan start and end dates are required")
	}
	if domain.DateOnly(input.StartDate).After(domain.DateOnly(input.EndDate)) {
		return nil, ErrInvalidDateRange
	}

	days := make(map[domain.Weekday][]domain.Exercise, len(input.Days))
	for rawDay, exercises := range input.Days {
		if len(exercises) == 0 {
			continue // Empty list means "no workout that weekday".
		}
		day, err := domain.ParseWeekday(rawDay)
		if err != nil {
			return nil, err
		}
		for _, ex := range exercises {
			if ex.Name == "" {
				return nil, ErrExerciseNameRequired
			}
		}
		days[day] = exercises
	}
	if len(days) == 0 {
		return nil, ErrEmptySchedule
	}
	return days, nil
}
