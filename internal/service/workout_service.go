package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound           = errors.New("workout plan not found")
	ErrPlanNotBelongToMember  = errors.New("workout plan does not belong to this member")
	ErrExerciseNotScheduled   = errors.New("exercise is not scheduled for this date")
	ErrExerciseNameRequired   = errors.New("exercise name cannot be empty")
	ErrConflictRetryExhausted = errors.New("concurrent progress updates: retry budget exhausted")
)

// toggleRetryBudget bounds the insert/update race loop during lazy creation
// of a progress record. One insert conflict normally resolves on the first retry.
const toggleRetryBudget = 3

// ScheduledWorkout is the scheduler's answer to "what should this member do":
// the winning plan, the weekday in effect, and that weekday's exercise list.
// Date is nil when the workout came from the any-weekday fallback and is not
// tied to a concrete calendar date.
type ScheduledWorkout struct {
	Plan      *domain.WorkoutPlan `json:"plan"`
	Day       domain.Weekday      `json:"day"`
	Date      *time.Time          `json:"date,omitempty"`
	Exercises []domain.Exercise   `json:"exercises"`
}

// WorkoutService bundles the plan scheduler and the daily progress reconciler.
type WorkoutService interface {
	// ActiveWorkoutForDate returns the workout in effect on the given date,
	// or nil when no plan schedules anything that day.
	ActiveWorkoutForDate(ctx context.Context, memberID primitive.ObjectID, date time.Time) (*ScheduledWorkout, error)
	// NextScheduledWorkout scans fromDate+1 through fromDate+6 for the next
	// workout, then falls back to the first plan with any scheduled weekday.
	NextScheduledWorkout(ctx context.Context, memberID primitive.ObjectID, fromDate time.Time) (*ScheduledWorkout, error)
	// TodayOrNextWorkout combines the two: today's workout when there is one,
	// otherwise the next. The bool reports whether the workout is for today.
	TodayOrNextWorkout(ctx context.Context, memberID primitive.ObjectID, today time.Time) (*ScheduledWorkout, bool, error)

	// DailyProgress returns the stored progress record for the key, or nil
	// when the member has not toggled anything that day.
	DailyProgress(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time) (*domain.WorkoutProgress, error)
	// ToggleExercise flips one exercise's completion for the day, creating
	// the record lazily on first use, and returns the persisted record.
	ToggleExercise(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time, exerciseName string) (*domain.WorkoutProgress, error)
	// ResetDay clears the day's progress record. Resetting a day with no
	// record is a no-op.
	ResetDay(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	planRepo     repository.WorkoutPlanRepository
	progressRepo repository.WorkoutProgressRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	planRepo repository.WorkoutPlanRepository,
	progressRepo repository.WorkoutProgressRepository,
) WorkoutService {
	return &workoutService{
		planRepo:     planRepo,
		progressRepo: progressRepo,
	}
}

// === Scheduler ===

// sortPlansDeterministic orders candidate plans newest-created first, with the
// ObjectID hex as the final tiebreak. The store's return order is not part of
// the contract, so overlapping plans must not win by iteration accident.
func sortPlansDeterministic(plans []domain.WorkoutPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
		return plans[i].ID.Hex() > plans[j].ID.Hex()
	})
}

func (s *workoutService) ActiveWorkoutForDate(ctx context.Context, memberID primitive.ObjectID, date time.Time) (*ScheduledWorkout, error) {
	plans, err := s.planRepo.GetActiveForDate(ctx, memberID, date)
	if err != nil {
		return nil, err
	}
	sortPlansDeterministic(plans)

	day := domain.WeekdayOf(date)
	for i := range plans {
		plan := &plans[i]
		if exercises := plan.ExercisesOn(day); exercises != nil {
			d := domain.DateOnly(date)
			return &ScheduledWorkout{Plan: plan, Day: day, Date: &d, Exercises: exercises}, nil
		}
	}
	return nil, nil
}

func (s *workoutService) NextScheduledWorkout(ctx context.Context, memberID primitive.ObjectID, fromDate time.Time) (*ScheduledWorkout, error) {
	// Walk the remainder of the 7-day cycle one date at a time, so plans that
	// only become active mid-week are picked up on the day they start.
	for offset := 1; offset <= 6; offset++ {
		candidate := domain.DateOnly(fromDate).AddDate(0, 0, offset)
		workout, err := s.ActiveWorkoutForDate(ctx, memberID, candidate)
		if err != nil {
			return nil, err
		}
		if workout != nil {
			return workout, nil
		}
	}

	// Nothing in the coming week. Fall back to the first plan with any
	// scheduled weekday, regardless of its date range, so the member always
	// sees something actionable.
	plans, err := s.planRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	sortPlansDeterministic(plans)

	for i := range plans {
		plan := &plans[i]
		if day, ok := plan.FirstScheduledDay(); ok {
			return &ScheduledWorkout{Plan: plan, Day: day, Exercises: plan.ExercisesOn(day)}, nil
		}
	}
	return nil, nil
}

func (s *workoutService) TodayOrNextWorkout(ctx context.Context, memberID primitive.ObjectID, today time.Time) (*ScheduledWorkout, bool, error) {
	workout, err := s.ActiveWorkoutForDate(ctx, memberID, today)
	if err != nil {
		return nil, false, err
	}
	if workout != nil {
		return workout, true, nil
	}
	workout, err = s.NextScheduledWorkout(ctx, memberID, today)
	if err != nil {
		return nil, false, err
	}
	return workout, false, nil
}

// === Reconciler ===

func (s *workoutService) DailyProgress(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time) (*domain.WorkoutProgress, error) {
	progress, err := s.progressRepo.GetByKey(ctx, memberID, planID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Callers treat nil as "0% complete, nothing marked".
			return nil, nil
		}
		return nil, err
	}
	return progress, nil
}

func (s *workoutService) ToggleExercise(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time, exerciseName string) (*domain.WorkoutProgress, error) {
	if exerciseName == "" {
		return nil, ErrExerciseNameRequired
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.MemberID != memberID {
		return nil, ErrPlanNotBelongToMember
	}

	day := domain.WeekdayOf(date)
	scheduled := plan.ExercisesOn(day)
	if !plan.CoversDate(date) || !exerciseScheduled(scheduled, exerciseName) {
		return nil, ErrExerciseNotScheduled
	}

	// The update path is a single atomic flip in the store. The only race is
	// lazy creation: two first-ever toggles for the same key both miss the
	// record and both try to insert; the unique key index rejects the loser,
	// which then retries the atomic update against the winner's record.
	for attempt := 0; attempt < toggleRetryBudget; attempt++ {
		updated, err := s.progressRepo.ToggleExercise(ctx, memberID, planID, date, exerciseName)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		existing, err := s.progressRepo.GetByKey(ctx, memberID, planID, date)
		if err == nil && existing != nil {
			// Record exists but carries no entry for this name: the plan's
			// schedule changed after the record was created.
			return nil, ErrExerciseNotScheduled
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		progress := newProgressRecord(memberID, planID, date, day, scheduled, exerciseName)
		if _, err := s.progressRepo.Insert(ctx, progress); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				continue // Lost the creation race; toggle the winner's record.
			}
			return nil, err
		}
		return progress, nil
	}
	return nil, ErrConflictRetryExhausted
}

func (s *workoutService) ResetDay(ctx context.Context, memberID, planID primitive.ObjectID, date time.Time) error {
	err := s.progressRepo.Reset(ctx, memberID, planID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// newProgressRecord synthesizes the first record for a day: one entry per
// scheduled exercise, all incomplete except the toggled one.
func newProgressRecord(memberID, planID primitive.ObjectID, date time.Time, day domain.Weekday, scheduled []domain.Exercise, toggledName string) *domain.WorkoutProgress {
	entries := make([]domain.ExerciseStatus, len(scheduled))
	for i, ex := range scheduled {
		entries[i] = domain.ExerciseStatus{
			Name:      ex.Name,
			Completed: ex.Name == toggledName,
		}
	}
	progress := &domain.WorkoutProgress{
		MemberID:  memberID,
		PlanID:    planID,
		Date:      domain.DateOnly(date),
		Day:       day,
		Exercises: entries,
	}
	progress.Completed = progress.CompletedCount() == len(entries)
	return progress
}

func exerciseScheduled(scheduled []domain.Exercise, name string) bool {
	for _, ex := range scheduled {
		if ex.Name == name {
			return true
		}
	}
	return false
}

// CompletionPercentage reports how much of the day's workout is done,
// rounded to the nearest whole percent. A nil or empty record is 0.
func CompletionPercentage(progress *domain.WorkoutProgress) int {
	if progress == nil || len(progress.Exercises) == 0 {
		return 0
	}
	done := progress.CompletedCount()
	return int(math.Round(100 * float64(done) / float64(len(progress.Exercises))))
}
