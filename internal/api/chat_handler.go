package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"alcyxob/fitness-coach/internal/ai"
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/executor"
	"alcyxob/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// maxTranscriptMessages bounds the transcript a single request may carry.
const maxTranscriptMessages = 50

// ChatHandler exposes the conversational coach: one endpoint runs a model
// turn, the other applies the write-tool actions the turn produced once the
// user has seen (and, for plan replacement, confirmed) them.
type ChatHandler struct {
	coach    service.CoachService
	executor *executor.Executor
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(coach service.CoachService, exec *executor.Executor) *ChatHandler {
	return &ChatHandler{coach: coach, executor: exec}
}

// --- Request/Response Structs ---

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1"`
	// ExerciseLibraryHash is the fingerprint the client got on its previous
	// turn. When it still matches, the server notes the library is unchanged.
	ExerciseLibraryHash string `json:"exerciseLibraryHash"`
}

type ChatActionResponse struct {
	ID    string          `json:"id"`
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input"`
}

type ChatResponse struct {
	Message             string               `json:"message"`
	Actions             []ChatActionResponse `json:"actions,omitempty"`
	ExerciseLibraryHash string               `json:"exerciseLibraryHash"`
	LibraryFromCache    bool                 `json:"libraryFromCache"`
}

type ApplyActionRequest struct {
	ID    string          `json:"id"`
	Tool  string          `json:"tool" binding:"required"`
	Input json.RawMessage `json:"input" binding:"required"`
}

type ApplyActionsRequest struct {
	Actions []ApplyActionRequest `json:"actions" binding:"required,min=1"`
	// ConfirmReplace records that the user agreed to pause and replace their
	// currently active plan. Without it, a save against an existing active
	// plan is skipped, never silently applied.
	ConfirmReplace bool `json:"confirmReplace"`
}

// --- Handler Methods ---

// Converse runs one coaching turn and returns the assistant message plus any
// deferred write-tool actions for the client to apply.
func (h *ChatHandler) Converse(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if len(req.Messages) > maxTranscriptMessages {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Transcript exceeds %d messages", maxTranscriptMessages))
		return
	}

	transcript := make([]ai.Message, len(req.Messages))
	for i, m := range req.Messages {
		transcript[i] = ai.Message{Role: m.Role, Content: []ai.ContentBlock{ai.TextBlock(m.Content)}}
	}

	turn, err := h.coach.Converse(c.Request.Context(), userID, transcript, req.ExerciseLibraryHash)
	if err != nil {
		if errors.Is(err, ai.ErrProvider) {
			abortWithError(c, http.StatusBadGateway, "The coach is unavailable right now, please try again")
			return
		}
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	resp := ChatResponse{
		Message:             turn.Message,
		ExerciseLibraryHash: turn.LibraryHash,
		LibraryFromCache:    turn.FromCache,
	}
	for _, action := range turn.Actions {
		resp.Actions = append(resp.Actions, ChatActionResponse{
			ID:    action.ID,
			Tool:  action.Name,
			Input: action.Raw,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// ApplyActions executes deferred write-tool actions in order, reporting the
// per-action outcome.
func (h *ChatHandler) ApplyActions(c *gin.Context) {
	userID, ok := getUserObjectID(c)
	if !ok {
		return
	}

	var req ApplyActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	actions := make([]ai.ToolAction, 0, len(req.Actions))
	for _, a := range req.Actions {
		input, err := ai.ParseToolInput(a.Tool, a.Input)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid input for tool %q: %v", a.Tool, err))
			return
		}
		actions = append(actions, ai.ToolAction{ID: a.ID, Name: a.Tool, Input: input, Raw: a.Input})
	}

	confirm := executor.ConfirmerFunc(func(ctx context.Context, existing *domain.WorkoutPlan) (bool, error) {
		return req.ConfirmReplace, nil
	})

	results := h.executor.Apply(c.Request.Context(), userID, actions, confirm)
	c.JSON(http.StatusOK, gin.H{"results": results})
}
