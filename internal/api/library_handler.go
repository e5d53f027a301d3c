package api

import (
	"errors"
	"fmt"
	"net/http"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"
	"alcyxob/fitness-coach/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LibraryHandler exposes the exercise library over HTTP.
type LibraryHandler struct {
	library service.LibraryService
	files   storage.FileStorage
}

// NewLibraryHandler creates a new LibraryHandler. files may be nil when no
// object storage is configured; the media endpoints then return 501.
func NewLibraryHandler(library service.LibraryService, files storage.FileStorage) *LibraryHandler {
	return &LibraryHandler{library: library, files: files}
}

// --- Request/Response Structs ---

type ExerciseRequest struct {
	Name              string   `json:"name" binding:"required"`
	PrimaryMuscles    []string `json:"primaryMuscles" binding:"required,min=1"`
	SecondaryMuscles  []string `json:"secondaryMuscles"`
	EquipmentRequired []string `json:"equipmentRequired"`
	Difficulty        string   `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Instructions      []string `json:"instructions"`
	Tips              []string `json:"tips"`
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type MediaUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Handler Methods ---

// GetExercises lists the library, applying any query-string filters. The
// library is seeded with the default catalog on first access.
func (h *LibraryHandler) GetExercises(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	if err := h.library.EnsureSeeded(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to initialize exercise library")
		return
	}

	filter := domain.ExerciseFilter{
		MuscleGroup: domain.MuscleGroup(c.Query("muscleGroup")),
		Equipment:   domain.Equipment(c.Query("equipment")),
		Difficulty:  domain.Difficulty(c.Query("difficulty")),
		Name:        c.Query("name"),
	}

	exercises, err := h.library.Search(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises")
		return
	}

	c.JSON(http.StatusOK, exercises)
}

// GetExercise returns one exercise by id.
func (h *LibraryHandler) GetExercise(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.library.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.handleLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// CreateExercise adds a custom exercise to the library.
func (h *LibraryHandler) CreateExercise(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.library.Create(c.Request.Context(), userID, mapExerciseRequest(req))
	if err != nil {
		h.handleLibraryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exercise)
}

// UpdateExercise replaces the mutable fields of an exercise.
func (h *LibraryHandler) UpdateExercise(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "exerciseId")
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.library.Update(c.Request.Context(), userID, id, mapExerciseRequest(req))
	if err != nil {
		h.handleLibraryError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise removes a custom exercise. Default catalog entries are
// protected server-side.
func (h *LibraryHandler) DeleteExercise(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.library.Delete(c.Request.Context(), userID, id); err != nil {
		h.handleLibraryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMediaUploadURL issues a presigned PUT URL for the exercise's demo media
// and records the resulting object key on the exercise.
func (h *LibraryHandler) GetMediaUploadURL(c *gin.Context) {
	if h.files == nil {
		abortWithError(c, http.StatusNotImplemented, "Media storage is not configured")
		return
	}

	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "exerciseId")
	if !ok {
		return
	}

	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if _, err := h.library.GetByID(c.Request.Context(), userID, id); err != nil {
		h.handleLibraryError(c, err)
		return
	}

	objectKey := fmt.Sprintf("exercises/%s/%s/%s", userID.Hex(), id.Hex(), uuid.NewString())
	uploadURL, err := h.files.GeneratePresignedUploadURL(c.Request.Context(), objectKey, req.ContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedMediaType) || errors.Is(err, storage.ErrInvalidMediaKey) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	if err := h.library.SetMediaKey(c.Request.Context(), userID, id, objectKey); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to record media key")
		return
	}

	c.JSON(http.StatusOK, MediaUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// GetMediaDownloadURL issues a presigned GET URL for the exercise's media.
func (h *LibraryHandler) GetMediaDownloadURL(c *gin.Context) {
	if h.files == nil {
		abortWithError(c, http.StatusNotImplemented, "Media storage is not configured")
		return
	}

	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.library.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.handleLibraryError(c, err)
		return
	}
	if exercise.MediaKey == "" {
		abortWithError(c, http.StatusNotFound, "Exercise has no media")
		return
	}

	downloadURL, err := h.files.GeneratePresignedDownloadURL(c.Request.Context(), exercise.MediaKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": downloadURL})
}

func (h *LibraryHandler) handleLibraryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDefaultExerciseProtected):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func mapExerciseRequest(req ExerciseRequest) domain.LibraryExercise {
	exercise := domain.LibraryExercise{
		Name:         req.Name,
		Difficulty:   domain.Difficulty(req.Difficulty),
		Instructions: req.Instructions,
		Tips:         req.Tips,
	}
	for _, m := range req.PrimaryMuscles {
		exercise.PrimaryMuscles = append(exercise.PrimaryMuscles, domain.MuscleGroup(m))
	}
	for _, m := range req.SecondaryMuscles {
		exercise.SecondaryMuscles = append(exercise.SecondaryMuscles, domain.MuscleGroup(m))
	}
	for _, e := range req.EquipmentRequired {
		exercise.EquipmentRequired = append(exercise.EquipmentRequired, domain.Equipment(e))
	}
	return exercise
}
