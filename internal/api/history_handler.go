package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultHistoryLimit bounds an unqualified history listing.
const defaultHistoryLimit = 50

// HistoryHandler exposes the workout history and the dashboard summary.
type HistoryHandler struct {
	history     service.HistoryService
	planService service.PlanService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history service.HistoryService, planService service.PlanService) *HistoryHandler {
	return &HistoryHandler{history: history, planService: planService}
}

// --- Request/Response Structs ---

type LoggedExerciseRequest struct {
	Name  string `json:"name" binding:"required"`
	Sets  int    `json:"sets" binding:"required,min=1"`
	Reps  int    `json:"reps" binding:"required,min=1"`
	Notes string `json:"notes"`
}

type LogWorkoutRequest struct {
	PlanID      string                  `json:"planId"`
	DayOfWeek   string                  `json:"dayOfWeek"`
	WorkoutName string                  `json:"workoutName" binding:"required"`
	Exercises   []LoggedExerciseRequest `json:"exercises"`
	Duration    int                     `json:"durationMinutes" binding:"omitempty,min=1"`
	Notes       string                  `json:"notes"`
	PerformedAt *time.Time              `json:"performedAt"`
}

type DashboardResponse struct {
	ActivePlan     *PlanResponse       `json:"activePlan,omitempty"`
	RecentWorkouts []domain.WorkoutLog `json:"recentWorkouts"`
	WorkoutsLogged int                 `json:"workoutsLogged"`
}

// --- Handler Methods ---

// LogWorkout records a completed workout session.
func (h *HistoryHandler) LogWorkout(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry := domain.WorkoutLog{
		DayOfWeek:   domain.DayOfWeek(req.DayOfWeek),
		WorkoutName: req.WorkoutName,
		Duration:    req.Duration,
		Notes:       req.Notes,
		PerformedAt: time.Now(),
	}
	if req.PerformedAt != nil {
		entry.PerformedAt = *req.PerformedAt
	}
	if req.PlanID != "" {
		planID, err := primitive.ObjectIDFromHex(req.PlanID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid planId format")
			return
		}
		entry.PlanID = planID
	}
	for _, ex := range req.Exercises {
		entry.Exercises = append(entry.Exercises, domain.LoggedExercise{
			Name:  ex.Name,
			Sets:  ex.Sets,
			Reps:  ex.Reps,
			Notes: ex.Notes,
		})
	}

	logged, err := h.history.LogWorkout(c.Request.Context(), userID, entry)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to log workout")
		return
	}

	c.JSON(http.StatusCreated, logged)
}

// GetHistory lists logged workouts, newest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	limit := int64(defaultHistoryLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			abortWithError(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	logs, err := h.history.GetHistory(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	c.JSON(http.StatusOK, logs)
}

// DeleteEntry removes one history entry.
func (h *HistoryHandler) DeleteEntry(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "logId")
	if !ok {
		return
	}

	if err := h.history.DeleteEntry(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrWorkoutLogNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetDashboard returns the active plan (with derived status) and the most
// recent workouts in one response.
func (h *HistoryHandler) GetDashboard(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	resp := DashboardResponse{RecentWorkouts: []domain.WorkoutLog{}}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, service.ErrPlanNotFound) {
		abortWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	if plan != nil {
		mapped := MapPlanToResponse(plan, time.Now())
		resp.ActivePlan = &mapped
	}

	logs, err := h.history.GetHistory(c.Request.Context(), userID, 5)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	resp.RecentWorkouts = logs
	resp.WorkoutsLogged = len(logs)

	c.JSON(http.StatusOK, resp)
}
