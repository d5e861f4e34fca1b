package api

import (
	"errors"
	"net/http"
	"time"

	"gympulse/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler exposes the member-facing scheduling and progress endpoints.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// TodayWorkoutResponse is the answer to "what should I do today". Workout is
// null when the member has no plan with any scheduled weekday at all.
type TodayWorkoutResponse struct {
	Workout *service.ScheduledWorkout `json:"workout"`
	IsToday bool                      `json:"isToday"`
}

type ToggleExerciseRequest struct {
	PlanID       string `json:"planId" binding:"required"`
	Date         string `json:"date" binding:"required"` // "2006-01-02"
	ExerciseName string `json:"exerciseName" binding:"required"`
}

// ProgressResponse pairs the stored record (null when nothing is marked yet)
// with the recomputed completion percentage.
type ProgressResponse struct {
	Progress             interface{} `json:"progress"`
	CompletionPercentage int         `json:"completionPercentage"`
}

// --- Handler Methods ---

// GetTodayWorkout returns today's workout, or the next scheduled one when
// today has none.
func (h *WorkoutHandler) GetTodayWorkout(c *gin.Context) {
	memberID, ok := requireUserID(c)
	if !ok {
		return
	}

	workout, isToday, err := h.workoutService.TodayOrNextWorkout(c.Request.Context(), memberID, time.Now().UTC())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to look up today's workout.")
		return
	}

	c.JSON(http.StatusOK, TodayWorkoutResponse{Workout: workout, IsToday: isToday})
}

// GetDailyProgress returns the progress record for a plan and date.
func (h *WorkoutHandler) GetDailyProgress(c *gin.Context) {
	memberID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, date, ok := h.progressKeyFromQuery(c)
	if !ok {
		return
	}

	progress, err := h.workoutService.DailyProgress(c.Request.Context(), memberID, planID, date)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load progress.")
		return
	}

	resp := ProgressResponse{CompletionPercentage: service.CompletionPercentage(progress)}
	if progress != nil {
		resp.Progress = progress
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleExercise flips one exercise's completion for the day.
func (h *WorkoutHandler) ToggleExercise(c *gin.Context) {
	var req ToggleExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	memberID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	progress, err := h.workoutService.ToggleExercise(c.Request.Context(), memberID, planID, date, req.ExerciseName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPlanNotBelongToMember):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrExerciseNotScheduled):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrExerciseNameRequired):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConflictRetryExhausted):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update progress.")
		}
		return
	}

	c.JSON(http.StatusOK, ProgressResponse{
		Progress:             progress,
		CompletionPercentage: service.CompletionPercentage(progress),
	})
}

// ResetDailyProgress clears the day's record entirely.
func (h *WorkoutHandler) ResetDailyProgress(c *gin.Context) {
	memberID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, date, ok := h.progressKeyFromQuery(c)
	if !ok {
		return
	}

	if err := h.workoutService.ResetDay(c.Request.Context(), memberID, planID, date); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to reset progress.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) progressKeyFromQuery(c *gin.Context) (primitive.ObjectID, time.Time, bool) {
	planID, err := primitive.ObjectIDFromHex(c.Query("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing planId query parameter.")
		return primitive.NilObjectID, time.Time{}, false
	}
	date, err := time.Parse(time.DateOnly, c.Query("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date query parameter must be formatted as YYYY-MM-DD")
		return primitive.NilObjectID, time.Time{}, false
	}
	return planID, date, true
}
