package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Fakes ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
	// goalMirrorErr makes UpdateFitnessGoals fail, to verify the best-effort contract.
	goalMirrorErr    error
	mirrorWriteCount int
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) AddMemberToTrainer(_ context.Context, _, _ primitive.ObjectID) error {
	return nil
}

func (r *fakeUserRepo) GetMembersByTrainerID(_ context.Context, _ primitive.ObjectID) ([]domain.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) SetTrainerForMember(_ context.Context, _, _ primitive.ObjectID) error {
	return nil
}

func (r *fakeUserRepo) UpdateFitnessGoals(_ context.Context, memberID primitive.ObjectID, goals domain.GoalProfile) error {
	if r.goalMirrorErr != nil {
		return r.goalMirrorErr
	}
	u, ok := r.users[memberID]
	if !ok {
		return repository.ErrNotFound
	}
	u.FitnessGoals = &goals
	r.mirrorWriteCount++
	return nil
}

type fakeGoalRepo struct {
	goals       map[primitive.ObjectID]*domain.FitnessGoal
	upsertCount int
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[primitive.ObjectID]*domain.FitnessGoal)}
}

func (r *fakeGoalRepo) GetByMemberID(_ context.Context, memberID primitive.ObjectID) (*domain.FitnessGoal, error) {
	g, ok := r.goals[memberID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGoalRepo) Upsert(_ context.Context, goal *domain.FitnessGoal) (*domain.FitnessGoal, error) {
	r.upsertCount++
	existing, ok := r.goals[goal.MemberID]
	if !ok {
		goal.ID = primitive.NewObjectID()
		goal.CreatedAt = time.Now().UTC()
	} else {
		goal.ID = existing.ID
		goal.CreatedAt = existing.CreatedAt
	}
	goal.UpdatedAt = time.Now().UTC()
	cp := *goal
	r.goals[goal.MemberID] = &cp
	return goal, nil
}

// --- Tests ---

func memberWithMirror(profile *domain.GoalProfile) *domain.User {
	return &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         "Jamie",
		Email:        "jamie@example.com",
		Role:         domain.RoleMember,
		FitnessGoals: profile,
	}
}

func TestGetGoals_PromotesMirrorToStandalone(t *testing.T) {
	mirror := domain.GoalProfile{
		PrimaryGoal:          "Weight Loss",
		CurrentWeight:        82.5,
		TargetWeight:         75,
		WeeklyWorkoutTarget:  4,
		PreferredWorkoutTime: "Morning",
		DietaryPreferences:   []string{"vegetarian"},
	}
	member := memberWithMirror(&mirror)
	userRepo := newFakeUserRepo(member)
	goalRepo := newFakeGoalRepo()
	svc := NewGoalService(goalRepo, userRepo)

	goal, err := svc.GetGoals(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, goal.GoalProfile.Equal(mirror))
	assert.Equal(t, 1, goalRepo.upsertCount)

	// A second read converges to a no-op: no further writes on either side.
	mirrorWrites := userRepo.mirrorWriteCount
	again, err := svc.GetGoals(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, again.GoalProfile.Equal(mirror))
	assert.Equal(t, 1, goalRepo.upsertCount)
	assert.Equal(t, mirrorWrites, userRepo.mirrorWriteCount)
}

func TestGetGoals_SanitizesMirrorOnPromotion(t *testing.T) {
	member := memberWithMirror(&domain.GoalProfile{
		CurrentWeight:       math.NaN(),
		TargetWeight:        -10,
		WeeklyWorkoutTarget: 0,
	})
	userRepo := newFakeUserRepo(member)
	svc := NewGoalService(newFakeGoalRepo(), userRepo)

	goal, err := svc.GetGoals(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), goal.CurrentWeight)
	assert.Equal(t, float64(0), goal.TargetWeight)
	assert.Equal(t, domain.DefaultWeeklyWorkoutTarget, goal.WeeklyWorkoutTarget)
	assert.Equal(t, domain.DefaultPrimaryGoal, goal.PrimaryGoal)
	assert.Equal(t, domain.DefaultPreferredWorkoutTime, goal.PreferredWorkoutTime)
	assert.NotNil(t, goal.DietaryPreferences)

	// The raw mirror differed from the sanitized record, so it was refreshed.
	assert.True(t, member.FitnessGoals.Equal(goal.GoalProfile))
}

func TestGetGoals_StandaloneWinsOverDivergentMirror(t *testing.T) {
	member := memberWithMirror(&domain.GoalProfile{PrimaryGoal: "Stale Goal", WeeklyWorkoutTarget: 2, DietaryPreferences: []string{}})
	userRepo := newFakeUserRepo(member)
	goalRepo := newFakeGoalRepo()
	stored := domain.GoalProfile{
		PrimaryGoal:          "Muscle Gain",
		CurrentWeight:        70,
		TargetWeight:         78,
		WeeklyWorkoutTarget:  5,
		PreferredWorkoutTime: "Evening",
		DietaryPreferences:   []string{},
	}
	goalRepo.goals[member.ID] = &domain.FitnessGoal{
		ID:          primitive.NewObjectID(),
		MemberID:    member.ID,
		GoalProfile: stored,
	}
	svc := NewGoalService(goalRepo, userRepo)

	goal, err := svc.GetGoals(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, goal.GoalProfile.Equal(stored))
	// Mirror was overwritten with the standalone values.
	assert.True(t, member.FitnessGoals.Equal(stored))
}

func TestGetGoals_NeitherExistsReturnsUnpersistedDefaults(t *testing.T) {
	member := memberWithMirror(nil)
	userRepo := newFakeUserRepo(member)
	goalRepo := newFakeGoalRepo()
	svc := NewGoalService(goalRepo, userRepo)

	goal, err := svc.GetGoals(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, goal.GoalProfile.Equal(domain.DefaultGoalProfile()))
	assert.Equal(t, 0, goalRepo.upsertCount)
	assert.Nil(t, member.FitnessGoals)
}

func TestGetGoals_UnknownMember(t *testing.T) {
	svc := NewGoalService(newFakeGoalRepo(), newFakeUserRepo())

	_, err := svc.GetGoals(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestUpsertGoals_PartialMergeKeepsExistingFields(t *testing.T) {
	member := memberWithMirror(nil)
	userRepo := newFakeUserRepo(member)
	goalRepo := newFakeGoalRepo()
	goalRepo.goals[member.ID] = &domain.FitnessGoal{
		ID:       primitive.NewObjectID(),
		MemberID: member.ID,
		GoalProfile: domain.GoalProfile{
			PrimaryGoal:          "Muscle Gain",
			CurrentWeight:        70,
			TargetWeight:         78,
			WeeklyWorkoutTarget:  5,
			PreferredWorkoutTime: "Evening",
			DietaryPreferences:   []string{"high-protein"},
		},
	}
	svc := NewGoalService(goalRepo, userRepo)

	newWeight := 71.5
	goal, err := svc.UpsertGoals(context.Background(), member.ID, GoalInput{CurrentWeight: &newWeight})
	require.NoError(t, err)
	assert.Equal(t, 71.5, goal.CurrentWeight)
	assert.Equal(t, "Muscle Gain", goal.PrimaryGoal)
	assert.Equal(t, float64(78), goal.TargetWeight)
	assert.Equal(t, 5, goal.WeeklyWorkoutTarget)
	assert.Equal(t, []string{"high-protein"}, goal.DietaryPreferences)

	// Mirror was refreshed with the merged values.
	require.NotNil(t, member.FitnessGoals)
	assert.True(t, member.FitnessGoals.Equal(goal.GoalProfile))
}

func TestUpsertGoals_FirstWriteStartsFromDefaults(t *testing.T) {
	member := memberWithMirror(nil)
	userRepo := newFakeUserRepo(member)
	goalRepo := newFakeGoalRepo()
	svc := NewGoalService(goalRepo, userRepo)

	goalName := "Endurance"
	goal, err := svc.UpsertGoals(context.Background(), member.ID, GoalInput{PrimaryGoal: &goalName})
	require.NoError(t, err)
	assert.Equal(t, "Endurance", goal.PrimaryGoal)
	assert.Equal(t, domain.DefaultWeeklyWorkoutTarget, goal.WeeklyWorkoutTarget)
	assert.Equal(t, domain.DefaultPreferredWorkoutTime, goal.PreferredWorkoutTime)
	assert.Equal(t, 1, goalRepo.upsertCount)
}

func TestUpsertGoals_SanitizesNumericInput(t *testing.T) {
	member := memberWithMirror(nil)
	userRepo := newFakeUserRepo(member)
	svc := NewGoalService(newFakeGoalRepo(), userRepo)

	nan := math.NaN()
	badTarget := -2
	goal, err := svc.UpsertGoals(context.Background(), member.ID, GoalInput{
		CurrentWeight:       &nan,
		WeeklyWorkoutTarget: &badTarget,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), goal.CurrentWeight)
	assert.Equal(t, domain.DefaultWeeklyWorkoutTarget, goal.WeeklyWorkoutTarget)
}

func TestUpsertGoals_MirrorFailureIsNotPropagated(t *testing.T) {
	member := memberWithMirror(nil)
	userRepo := newFakeUserRepo(member)
	userRepo.goalMirrorErr = errors.New("mirror write refused")
	goalRepo := newFakeGoalRepo()
	svc := NewGoalService(goalRepo, userRepo)

	goalName := "Weight Loss"
	goal, err := svc.UpsertGoals(context.Background(), member.ID, GoalInput{PrimaryGoal: &goalName})
	// The standalone write succeeded and is authoritative; the mirror failure
	// is logged, not returned.
	require.NoError(t, err)
	assert.Equal(t, "Weight Loss", goal.PrimaryGoal)
	assert.Equal(t, 1, goalRepo.upsertCount)
	assert.Nil(t, member.FitnessGoals)
}
