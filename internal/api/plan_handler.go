package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler exposes the workout plan lifecycle over HTTP.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type PlanExerciseRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" binding:"required"`
	Sets  int    `json:"sets" binding:"required,min=1"`
	Reps  int    `json:"reps" binding:"required,min=1"`
	Notes string `json:"notes"`
}

type DayScheduleRequest struct {
	DayOfWeek   string                `json:"dayOfWeek" binding:"required"`
	WorkoutType string                `json:"workoutType" binding:"required"`
	WorkoutName string                `json:"workoutName"`
	Exercises   []PlanExerciseRequest `json:"exercises"`
}

type CreatePlanRequest struct {
	Name       string               `json:"name" binding:"required"`
	Schedule   []DayScheduleRequest `json:"schedule" binding:"required,len=7"`
	ValidWeeks int                  `json:"validWeeks" binding:"omitempty,min=1,max=52"`
}

type UpdateDayRequest struct {
	WorkoutType string                `json:"workoutType" binding:"required"`
	WorkoutName string                `json:"workoutName"`
	Exercises   []PlanExerciseRequest `json:"exercises"`
}

type UpdateExerciseRequest struct {
	Name  *string `json:"name"`
	Sets  *int    `json:"sets" binding:"omitempty,min=1"`
	Reps  *int    `json:"reps" binding:"omitempty,min=1"`
	Notes *string `json:"notes"`
}

type ExtendPlanRequest struct {
	Weeks int `json:"weeks" binding:"required,min=1,max=52"`
}

type RenamePlanRequest struct {
	Name string `json:"name" binding:"required"`
}

// PlanResponse carries the stored plan plus the derived display status, so
// clients never re-implement the expiry predicate.
type PlanResponse struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	GeneratedBy        string               `json:"generatedBy,omitempty"`
	Status             domain.PlanStatus    `json:"status"`
	EffectiveStatus    domain.PlanStatus    `json:"effectiveStatus"`
	IsActive           bool                 `json:"isActive"`
	IsExpired          bool                 `json:"isExpired"`
	Schedule           []domain.DaySchedule `json:"schedule"`
	ValidUntil         time.Time            `json:"validUntil"`
	OriginalValidUntil *time.Time           `json:"originalValidUntil,omitempty"`
	StartedAt          time.Time            `json:"startedAt"`
	PausedAt           *time.Time           `json:"pausedAt,omitempty"`
	ResumedAt          *time.Time           `json:"resumedAt,omitempty"`
	ArchivedAt         *time.Time           `json:"archivedAt,omitempty"`
	ExtendedAt         *time.Time           `json:"extendedAt,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
}

// MapPlanToResponse converts a domain plan to its API representation.
func MapPlanToResponse(plan *domain.WorkoutPlan, now time.Time) PlanResponse {
	return PlanResponse{
		ID:                 plan.ID.Hex(),
		Name:               plan.Name,
		GeneratedBy:        plan.GeneratedBy,
		Status:             plan.Status,
		EffectiveStatus:    plan.EffectiveStatus(now),
		IsActive:           plan.IsActive,
		IsExpired:          plan.IsExpired(now),
		Schedule:           plan.Schedule,
		ValidUntil:         plan.ValidUntil,
		OriginalValidUntil: plan.OriginalValidUntil,
		StartedAt:          plan.StartedAt,
		PausedAt:           plan.PausedAt,
		ResumedAt:          plan.ResumedAt,
		ArchivedAt:         plan.ArchivedAt,
		ExtendedAt:         plan.ExtendedAt,
		CreatedAt:          plan.CreatedAt,
	}
}

// --- Handler Methods ---

// CreatePlan creates and activates a new plan, pausing any current one.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, req.Name, mapScheduleRequest(req.Schedule), req.ValidWeeks, "manual")
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapPlanToResponse(plan, time.Now()))
}

// GetPlans lists every plan the user owns, newest first.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	plans, err := h.planService.GetPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}

	now := time.Now()
	resp := make([]PlanResponse, len(plans))
	for i := range plans {
		resp[i] = MapPlanToResponse(&plans[i], now)
	}
	c.JSON(http.StatusOK, resp)
}

// GetActivePlan returns the user's single active plan, or 404.
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), userID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, time.Now()))
}

// GetPlan returns one plan by id.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, time.Now()))
}

// Pause suspends the plan.
func (h *PlanHandler) Pause(c *gin.Context) {
	h.lifecycle(c, h.planService.Pause)
}

// Resume reactivates a paused plan, extending it by a week when expired.
func (h *PlanHandler) Resume(c *gin.Context) {
	h.lifecycle(c, h.planService.Resume)
}

// Archive moves the plan out of the working set.
func (h *PlanHandler) Archive(c *gin.Context) {
	h.lifecycle(c, h.planService.Archive)
}

// Restore brings an archived plan back as the active one.
func (h *PlanHandler) Restore(c *gin.Context) {
	h.lifecycle(c, h.planService.Restore)
}

// lifecycle factors the shared shape of the status transition endpoints.
func (h *PlanHandler) lifecycle(c *gin.Context, op func(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	plan, err := op(c.Request.Context(), userID, planID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, time.Now()))
}

// Extend pushes the validity date forward by N weeks.
func (h *PlanHandler) Extend(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	var req ExtendPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Extend(c.Request.Context(), userID, planID, req.Weeks)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, time.Now()))
}

// Rename changes the plan's display name.
func (h *PlanHandler) Rename(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	var req RenamePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Rename(c.Request.Context(), userID, planID, req.Name)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, time.Now()))
}

// Delete removes the plan permanently.
func (h *PlanHandler) Delete(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), userID, planID); err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateDay replaces one day's workout, leaving the other six untouched.
func (h *PlanHandler) UpdateDay(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	var req UpdateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.UpdateDay(c.Request.Context(), userID, planID, c.Param("day"), service.DayUpdate{
		WorkoutType: domain.WorkoutType(req.WorkoutType),
		WorkoutName: req.WorkoutName,
		Exercises:   mapExercisesRequest(req.Exercises),
	})
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, time.Now()))
}

// UpdateExercise merges partial field updates into one scheduled exercise.
func (h *PlanHandler) UpdateExercise(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	planID, ok := parsePathID(c, "planId")
	if !ok {
		return
	}

	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.UpdateExercise(c.Request.Context(), userID, planID, c.Param("day"), c.Param("exerciseId"), service.ExerciseUpdate{
		Name:  req.Name,
		Sets:  req.Sets,
		Reps:  req.Reps,
		Notes: req.Notes,
	})
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan, time.Now()))
}

// handlePlanError maps service errors to HTTP statuses.
func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDayNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanArchived):
		abortWithError(c, http.StatusConflict, "Plan is archived, restore it first")
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrConcurrencyConflict):
		abortWithError(c, http.StatusConflict, "Plan was modified concurrently, please retry")
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func mapScheduleRequest(days []DayScheduleRequest) []domain.DaySchedule {
	out := make([]domain.DaySchedule, len(days))
	for i, d := range days {
		out[i] = domain.DaySchedule{
			DayOfWeek:   domain.DayOfWeek(d.DayOfWeek),
			WorkoutType: domain.WorkoutType(d.WorkoutType),
			WorkoutName: d.WorkoutName,
			Exercises:   mapExercisesRequest(d.Exercises),
		}
	}
	return out
}

func mapExercisesRequest(exercises []PlanExerciseRequest) []domain.PlanExercise {
	out := make([]domain.PlanExercise, len(exercises))
	for i, ex := range exercises {
		out[i] = domain.PlanExercise{
			ID:    ex.ID,
			Name:  ex.Name,
			Sets:  ex.Sets,
			Reps:  ex.Reps,
			Notes: ex.Notes,
		}
	}
	return out
}
