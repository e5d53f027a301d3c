package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns canned responses in order and records every request.
type scriptedClient struct {
	responses []*MessagesResponse
	errs      []error
	requests  []MessagesRequest
}

func (s *scriptedClient) CreateMessage(ctx context.Context, req MessagesRequest) (*MessagesResponse, error) {
	s.requests = append(s.requests, req)
	i := len(s.requests) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.responses) {
		return &MessagesResponse{Content: []ContentBlock{TextBlock("unexpected call")}}, nil
	}
	return s.responses[i], nil
}

func textResponse(text string) *MessagesResponse {
	return &MessagesResponse{
		Role:       "assistant",
		Content:    []ContentBlock{TextBlock(text)},
		StopReason: "end_turn",
	}
}

func toolUse(id, name, input string) ContentBlock {
	return ContentBlock{Type: BlockToolUse, ID: id, Name: name, Input: json.RawMessage(input)}
}

func saveInput() string {
	schedule := `[`
	for i, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		if i > 0 {
			schedule += ","
		}
		schedule += `{"dayOfWeek":"` + d + `","workoutType":"rest","workoutName":"Rest","exercises":[]}`
	}
	schedule += `]`
	return `{"planName":"Test Plan","workoutSchedule":` + schedule + `}`
}

func TestRunTurnTextOnly(t *testing.T) {
	client := &scriptedClient{responses: []*MessagesResponse{textResponse("Let's talk goals first.")}}
	o := NewOrchestrator(client, nil)

	result, err := o.RunTurn(context.Background(), "system", []Message{UserText("hi")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Let's talk goals first.", result.AssistantMessage)
	assert.Empty(t, result.Actions)
	assert.Len(t, client.requests, 1, "a text-only response must not trigger a continuation")
}

func TestRunTurnContinuationAfterToolOnlyResponse(t *testing.T) {
	first := &MessagesResponse{
		Role:       "assistant",
		Content:    []ContentBlock{toolUse("tu_1", ToolQueryExerciseLibrary, `{"muscleGroup":"chest"}`)},
		StopReason: "tool_use",
	}
	client := &scriptedClient{responses: []*MessagesResponse{first, textResponse("Here is what I found.")}}
	o := NewOrchestrator(client, nil)

	result, err := o.RunTurn(context.Background(), "system", []Message{UserText("what chest exercises do I have?")}, testLibrary())
	require.NoError(t, err)
	assert.Equal(t, "Here is what I found.", result.AssistantMessage)
	require.Len(t, client.requests, 2)

	// The continuation request carries the assistant turn plus tool results.
	cont := client.requests[1]
	require.Len(t, cont.Messages, 3)
	assert.Equal(t, "assistant", cont.Messages[1].Role)
	require.Len(t, cont.Messages[2].Content, 1)
	resultBlock := cont.Messages[2].Content[0]
	assert.Equal(t, BlockToolResult, resultBlock.Type)
	assert.Equal(t, "tu_1", resultBlock.ToolUseID)
	assert.Contains(t, resultBlock.Content, "Push-up")
}

func TestRunTurnExactlyOneContinuation(t *testing.T) {
	// Both hops answer with tool calls and no text. The second response's tool
	// calls are surfaced but never earn a third request.
	first := &MessagesResponse{
		Role:    "assistant",
		Content: []ContentBlock{toolUse("tu_1", ToolSaveWorkoutPlan, saveInput())},
	}
	second := &MessagesResponse{
		Role:    "assistant",
		Content: []ContentBlock{toolUse("tu_2", ToolQueryExerciseLibrary, `{}`)},
	}
	client := &scriptedClient{responses: []*MessagesResponse{first, second}}
	o := NewOrchestrator(client, nil)

	result, err := o.RunTurn(context.Background(), "system", []Message{UserText("make me a plan")}, testLibrary())
	require.NoError(t, err)
	assert.Len(t, client.requests, 2, "the turn is bounded to one continuation")
	assert.Equal(t, FallbackMessage, result.AssistantMessage)
}

func TestRunTurnWriteToolsAreDeferred(t *testing.T) {
	first := &MessagesResponse{
		Role: "assistant",
		Content: []ContentBlock{
			toolUse("tu_1", ToolSaveWorkoutPlan, saveInput()),
			toolUse("tu_2", ToolUpdateExercise, `{"dayOfWeek":"monday","exerciseId":"ex-1","updates":{"sets":4}}`),
		},
	}
	client := &scriptedClient{responses: []*MessagesResponse{first, textResponse("Done!")}}
	o := NewOrchestrator(client, nil)

	result, err := o.RunTurn(context.Background(), "system", []Message{UserText("save it")}, nil)
	require.NoError(t, err)

	// Ordered as emitted.
	require.Len(t, result.Actions, 2)
	assert.Equal(t, ToolSaveWorkoutPlan, result.Actions[0].Name)
	assert.Equal(t, ToolUpdateExercise, result.Actions[1].Name)
	assert.IsType(t, &SaveWorkoutPlanInput{}, result.Actions[0].Input)

	// Write tools get the placeholder acknowledgement, not execution.
	cont := client.requests[1]
	for _, block := range cont.Messages[2].Content {
		assert.Equal(t, writeToolAck, block.Content)
	}
}

func TestRunTurnToolsWithTextSkipContinuation(t *testing.T) {
	resp := &MessagesResponse{
		Role: "assistant",
		Content: []ContentBlock{
			TextBlock("Saving your new plan now."),
			toolUse("tu_1", ToolSaveWorkoutPlan, saveInput()),
		},
	}
	client := &scriptedClient{responses: []*MessagesResponse{resp}}
	o := NewOrchestrator(client, nil)

	result, err := o.RunTurn(context.Background(), "system", []Message{UserText("save it")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Saving your new plan now.", result.AssistantMessage)
	assert.Len(t, result.Actions, 1)
	assert.Len(t, client.requests, 1, "text alongside tools means the model already narrated")
}

func TestRunTurnInvalidWriteInputIsDropped(t *testing.T) {
	resp := &MessagesResponse{
		Role: "assistant",
		Content: []ContentBlock{
			TextBlock("Updating."),
			toolUse("tu_1", ToolUpdateExercise, `{"dayOfWeek":"blursday","exerciseId":"x","updates":{}}`),
			toolUse("tu_2", ToolUpdateExercise, `{"dayOfWeek":"friday","exerciseId":"ex-9","updates":{"reps":12}}`),
		},
	}
	client := &scriptedClient{responses: []*MessagesResponse{resp}}
	o := NewOrchestrator(client, nil)

	result, err := o.RunTurn(context.Background(), "system", []Message{UserText("bump reps")}, nil)
	require.NoError(t, err)
	require.Len(t, result.Actions, 1, "the malformed call is dropped, the valid one survives")
	assert.Equal(t, "tu_2", result.Actions[0].ID)
}

func TestRunTurnProviderErrorAbortsTurn(t *testing.T) {
	client := &scriptedClient{errs: []error{ErrProvider}}
	o := NewOrchestrator(client, nil)

	_, err := o.RunTurn(context.Background(), "system", []Message{UserText("hi")}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestRunTurnContinuationErrorAbortsTurn(t *testing.T) {
	first := &MessagesResponse{
		Role:    "assistant",
		Content: []ContentBlock{toolUse("tu_1", ToolQueryExerciseLibrary, `{}`)},
	}
	client := &scriptedClient{
		responses: []*MessagesResponse{first, nil},
		errs:      []error{nil, errors.New("boom")},
	}
	o := NewOrchestrator(client, nil)

	_, err := o.RunTurn(context.Background(), "system", []Message{UserText("hi")}, nil)
	require.Error(t, err)
}

func TestRunTurnOffersFullCatalogEveryHop(t *testing.T) {
	first := &MessagesResponse{
		Role:    "assistant",
		Content: []ContentBlock{toolUse("tu_1", ToolGetExerciseDetails, `{"exerciseName":"Deadlift"}`)},
	}
	client := &scriptedClient{responses: []*MessagesResponse{first, textResponse("ok")}}
	o := NewOrchestrator(client, nil)

	_, err := o.RunTurn(context.Background(), "system", []Message{UserText("hi")}, testLibrary())
	require.NoError(t, err)
	for _, req := range client.requests {
		assert.Len(t, req.Tools, 6)
	}
}
