package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	FitnessGoal      string    `json:"fitnessGoal,omitempty"`
	ExperienceLevel  string    `json:"experienceLevel,omitempty"`
	TrainingDaysGoal int       `json:"trainingDaysGoal,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UpdateProfileRequest struct {
	FitnessGoal      string `json:"fitnessGoal"`
	ExperienceLevel  string `json:"experienceLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	TrainingDaysGoal int    `json:"trainingDaysGoal" binding:"omitempty,min=1,max=7"`
}

// --- Handler Methods ---

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// UpdateProfile stores the coaching profile fields surfaced to the AI prompt.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.authService.UpdateProfile(c.Request.Context(), userIDStr, req.FitnessGoal, req.ExperienceLevel, req.TrainingDaysGoal); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.Status(http.StatusNoContent)
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Crucially excludes PasswordHash.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:               user.ID.Hex(),
		Name:             user.Name,
		Email:            user.Email,
		FitnessGoal:      user.FitnessGoal,
		ExperienceLevel:  user.ExperienceLevel,
		TrainingDaysGoal: user.TrainingDaysGoal,
		CreatedAt:        user.CreatedAt,
	}
}
