package api

import (
	"errors"
	"net/http"
	"time"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type AddMemberRequest struct {
	MemberEmail string `json:"memberEmail" binding:"required,email"`
}

type WorkoutPlanRequest struct {
	Name      string                       `json:"name" binding:"required"`
	StartDate string                       `json:"startDate" binding:"required"` // "2006-01-02"
	EndDate   string                       `json:"endDate" binding:"required"`   // "2006-01-02"
	Days      map[string][]domain.Exercise `json:"days" binding:"required"`
	Notes     string                       `json:"notes"`
}

func (r *WorkoutPlanRequest) toPlanInput() (service.PlanInput, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return service.PlanInput{}, errors.New("startDate must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return service.PlanInput{}, errors.New("endDate must be formatted as YYYY-MM-DD")
	}
	return service.PlanInput{
		Name:      r.Name,
		StartDate: start,
		EndDate:   end,
		Days:      r.Days,
		Notes:     r.Notes,
	}, nil
}

// --- Roster Management ---

// AddMemberByEmail associates an existing member with the authenticated trainer.
func (h *TrainerHandler) AddMemberByEmail(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}

	member, err := h.trainerService.AddMemberByEmail(c.Request.Context(), trainerID, req.MemberEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrMemberNotRole), errors.Is(err, service.ErrMemberAlreadyAssigned):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add member.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(member))
}

// GetManagedMembers lists the members coached by the authenticated trainer.
func (h *TrainerHandler) GetManagedMembers(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}

	members, err := h.trainerService.GetManagedMembers(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve members.")
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(members))
}

// --- Workout Plan Management ---

// CreateWorkoutPlan creates a weekly plan for a coached member.
func (h *TrainerHandler) CreateWorkoutPlan(c *gin.Context) {
	var req WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := req.toPlanInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	plan, err := h.trainerService.CreateWorkoutPlan(c.Request.Context(), trainerID, memberID, input)
	if err != nil {
		h.mapPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetPlansForMember lists the plans authored for a coached member.
func (h *TrainerHandler) GetPlansForMember(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("memberId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	plans, err := h.trainerService.GetPlansForMember(c.Request.Context(), trainerID, memberID)
	if err != nil {
		h.mapPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// UpdateWorkoutPlan replaces the mutable fields of an existing plan.
func (h *TrainerHandler) UpdateWorkoutPlan(c *gin.Context) {
	var req WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := req.toPlanInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	plan, err := h.trainerService.UpdateWorkoutPlan(c.Request.Context(), trainerID, planID, input)
	if err != nil {
		h.mapPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeleteWorkoutPlan removes a plan owned by the trainer.
func (h *TrainerHandler) DeleteWorkoutPlan(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	if err := h.trainerService.DeleteWorkoutPlan(c.Request.Context(), trainerID, planID); err != nil {
		h.mapPlanError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TrainerHandler) mapPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound), errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMemberNotManaged), errors.Is(err, service.ErrMemberNotRole), errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange), errors.Is(err, service.ErrEmptySchedule), errors.Is(err, service.ErrExerciseNameRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process workout plan.")
	}
}

// requireUserID resolves the authenticated user's ObjectID or aborts.
func requireUserID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}
