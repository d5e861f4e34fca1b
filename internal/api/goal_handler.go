package api

import (
	"errors"
	"net/http"

	"gympulse/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// GoalHandler exposes the member's fitness goal endpoints.
type GoalHandler struct {
	goalService service.GoalService
}

func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// UpsertGoalsRequest carries a partial goal update; omitted fields keep
// their previous value.
type UpsertGoalsRequest struct {
	PrimaryGoal          *string   `json:"primaryGoal"`
	CurrentWeight        *float64  `json:"currentWeight"`
	TargetWeight         *float64  `json:"targetWeight"`
	WeeklyWorkoutTarget  *int      `json:"weeklyWorkoutTarget"`
	PreferredWorkoutTime *string   `json:"preferredWorkoutTime"`
	DietaryPreferences   *[]string `json:"dietaryPreferences"`
}

// GetGoals returns the member's goals, reconciling the standalone record
// and the mirror embedded in the member document on the way.
func (h *GoalHandler) GetGoals(c *gin.Context) {
	memberID, ok := requireUserID(c)
	if !ok {
		return
	}

	goal, err := h.goalService.GetGoals(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load fitness goals.")
		}
		return
	}

	c.JSON(http.StatusOK, goal)
}

// UpsertGoals merges the submitted fields over the member's existing goals.
func (h *GoalHandler) UpsertGoals(c *gin.Context) {
	var req UpsertGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	memberID, ok := requireUserID(c)
	if !ok {
		return
	}

	goal, err := h.goalService.UpsertGoals(c.Request.Context(), memberID, service.GoalInput{
		PrimaryGoal:          req.PrimaryGoal,
		CurrentWeight:        req.CurrentWeight,
		TargetWeight:         req.TargetWeight,
		WeeklyWorkoutTarget:  req.WeeklyWorkoutTarget,
		PreferredWorkoutTime: req.PreferredWorkoutTime,
		DietaryPreferences:   req.DietaryPreferences,
	})
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save fitness goals.")
		}
		return
	}

	c.JSON(http.StatusOK, goal)
}
