package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubWorkoutService returns canned values so handler tests exercise only the
// HTTP mapping, not the scheduling logic.
type stubWorkoutService struct {
	todayWorkout *service.ScheduledWorkout
	todayIsToday bool
	todayErr     error

	progress    *domain.WorkoutProgress
	progressErr error

	toggleProgress *domain.WorkoutProgress
	toggleErr      error

	resetErr error
}

func (s *stubWorkoutService) ActiveWorkoutForDate(_ context.Context, _ primitive.ObjectID, _ time.Time) (*service.ScheduledWorkout, error) {
	return s.todayWorkout, s.todayErr
}

func (s *stubWorkoutService) NextScheduledWorkout(_ context.Context, _ primitive.ObjectID, _ time.Time) (*service.ScheduledWorkout, error) {
	return s.todayWorkout, s.todayErr
}

func (s *stubWorkoutService) TodayOrNextWorkout(_ context.Context, _ primitive.ObjectID, _ time.Time) (*service.ScheduledWorkout, bool, error) {
	return s.todayWorkout, s.todayIsToday, s.todayErr
}

func (s *stubWorkoutService) DailyProgress(_ context.Context, _, _ primitive.ObjectID, _ time.Time) (*domain.WorkoutProgress, error) {
	return s.progress, s.progressErr
}

func (s *stubWorkoutService) ToggleExercise(_ context.Context, _, _ primitive.ObjectID, _ time.Time, _ string) (*domain.WorkoutProgress, error) {
	return s.toggleProgress, s.toggleErr
}

func (s *stubWorkoutService) ResetDay(_ context.Context, _, _ primitive.ObjectID, _ time.Time) error {
	return s.resetErr
}

// setUserContext mimics AuthMiddleware for a member, so handlers under test
// find the user ID and role where they expect them.
func setUserContext(userID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserIDKey, userID.Hex())
		c.Set(ContextUserRoleKey, domain.RoleMember)
		c.Next()
	}
}

func newWorkoutTestRouter(svc service.WorkoutService, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewWorkoutHandler(svc)
	group := router.Group("", setUserContext(userID))
	group.GET("/workouts/today", handler.GetTodayWorkout)
	group.GET("/workouts/progress", handler.GetDailyProgress)
	group.POST("/workouts/progress/toggle", handler.ToggleExercise)
	group.DELETE("/workouts/progress", handler.ResetDailyProgress)
	return router
}

func toggleBody(t *testing.T, planID primitive.ObjectID, date, exercise string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(ToggleExerciseRequest{
		PlanID:       planID.Hex(),
		Date:         date,
		ExerciseName: exercise,
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestGetTodayWorkout_ReturnsWorkoutAndFlag(t *testing.T) {
	plan := &domain.WorkoutPlan{ID: primitive.NewObjectID(), Name: "Strength Block"}
	svc := &stubWorkoutService{
		todayWorkout: &service.ScheduledWorkout{
			Plan:      plan,
			Day:       domain.Wednesday,
			Exercises: []domain.Exercise{{Name: "Bench Press", Sets: 3, Reps: 8}},
		},
		todayIsToday: true,
	}
	router := newWorkoutTestRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/workouts/today", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp TodayWorkoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsToday)
	require.NotNil(t, resp.Workout)
	assert.Equal(t, domain.Wednesday, resp.Workout.Day)
	assert.Len(t, resp.Workout.Exercises, 1)
}

func TestGetTodayWorkout_NoPlansReturnsNull(t *testing.T) {
	router := newWorkoutTestRouter(&stubWorkoutService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/workouts/today", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp TodayWorkoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Workout)
	assert.False(t, resp.IsToday)
}

func TestToggleExercise_HappyPath(t *testing.T) {
	memberID := primitive.NewObjectID()
	planID := primitive.NewObjectID()
	svc := &stubWorkoutService{
		toggleProgress: &domain.WorkoutProgress{
			MemberID: memberID,
			PlanID:   planID,
			Day:      domain.Wednesday,
			Exercises: []domain.ExerciseStatus{
				{Name: "Bench Press", Completed: true},
				{Name: "Squats", Completed: false},
			},
		},
	}
	router := newWorkoutTestRouter(svc, memberID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/workouts/progress/toggle",
		toggleBody(t, planID, "2025-05-14", "Bench Press"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.CompletionPercentage)
	assert.NotNil(t, resp.Progress)
}

func TestToggleExercise_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"plan not found", service.ErrPlanNotFound, http.StatusNotFound},
		{"wrong member", service.ErrPlanNotBelongToMember, http.StatusForbidden},
		{"not scheduled", service.ErrExerciseNotScheduled, http.StatusUnprocessableEntity},
		{"name required", service.ErrExerciseNameRequired, http.StatusBadRequest},
		{"retries exhausted", service.ErrConflictRetryExhausted, http.StatusConflict},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newWorkoutTestRouter(&stubWorkoutService{toggleErr: tc.err}, primitive.NewObjectID())

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/workouts/progress/toggle",
				toggleBody(t, primitive.NewObjectID(), "2025-05-14", "Bench Press"))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestToggleExercise_RejectsMalformedDate(t *testing.T) {
	router := newWorkoutTestRouter(&stubWorkoutService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/workouts/progress/toggle",
		toggleBody(t, primitive.NewObjectID(), "14/05/2025", "Bench Press"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDailyProgress_MissingRecord(t *testing.T) {
	router := newWorkoutTestRouter(&stubWorkoutService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/workouts/progress?planId="+primitive.NewObjectID().Hex()+"&date=2025-05-14", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Progress)
	assert.Equal(t, 0, resp.CompletionPercentage)
}

func TestGetDailyProgress_RequiresPlanID(t *testing.T) {
	router := newWorkoutTestRouter(&stubWorkoutService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/workouts/progress?date=2025-05-14", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetDailyProgress_NoContent(t *testing.T) {
	router := newWorkoutTestRouter(&stubWorkoutService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete,
		"/workouts/progress?planId="+primitive.NewObjectID().Hex()+"&date=2025-05-14", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
