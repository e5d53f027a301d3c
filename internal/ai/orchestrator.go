package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"alcyxob/fitness-coach/internal/domain"
)

// FallbackMessage is substituted when a turn produces tool calls but no text.
const FallbackMessage = "I've updated your workout plan!"

// turnState is the explicit state of one conversational turn. Modeling the
// protocol as a state machine keeps the "exactly one continuation, never
// more" bound structural instead of conventional.
type turnState int

const (
	stateAwaitingModel turnState = iota
	stateExecutingTools
	stateAwaitingContinuation
	stateDone
)

// ToolAction is one write-tool invocation surfaced to the caller for
// client-side execution, in the order the model emitted it.
type ToolAction struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input ToolInput       `json:"-"`
	Raw   json.RawMessage `json:"input"`
}

// TurnResult is the outcome of one orchestrated turn.
type TurnResult struct {
	AssistantMessage string
	Actions          []ToolAction
}

// Orchestrator drives one request/continuation cycle with the model per user
// turn. Read tools are executed server-side against the supplied library
// snapshot; write tools are acknowledged with a placeholder result and
// surfaced in the TurnResult for client-side execution.
type Orchestrator struct {
	client MessageCreator
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator on top of a message client.
func NewOrchestrator(client MessageCreator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{client: client, logger: logger}
}

// RunTurn executes the bounded two-hop protocol:
//
//  1. send the transcript plus the full tool catalog;
//  2. if the model requested tools without producing any text, resolve read
//     tools, acknowledge write tools, and issue exactly one continuation;
//  3. return the assembled assistant message and the ordered write-tool
//     actions.
//
// A provider failure at either hop aborts the whole turn. There is no
// partial-write state to roll back: read tools are side-effect free and
// write tools are never executed here.
func (o *Orchestrator) RunTurn(ctx context.Context, system string, transcript []Message, library []domain.LibraryExercise) (*TurnResult, error) {
	result := &TurnResult{}
	messages := transcript
	state := stateAwaitingModel

	var pending []ContentBlock // tool_use blocks awaiting results

	for state != stateDone {
		switch state {
		case stateAwaitingModel:
			resp, err := o.client.CreateMessage(ctx, MessagesRequest{
				System:   system,
				Messages: messages,
				Tools:    Catalog(),
			})
			if err != nil {
				return nil, err
			}
			result.AssistantMessage = resp.Text()
			pending = resp.ToolUses()
			o.collectWriteActions(result, pending)

			if len(pending) > 0 && result.AssistantMessage == "" {
				// The model expects to narrate only after seeing results.
				messages = append(messages, Message{Role: resp.Role, Content: resp.Content})
				state = stateExecutingTools
			} else {
				state = stateDone
			}

		case stateExecutingTools:
			results := make([]ContentBlock, 0, len(pending))
			for _, use := range pending {
				results = append(results, ToolResultBlock(use.ID, o.resolveTool(use, library)))
			}
			messages = append(messages, Message{Role: "user", Content: results})
			state = stateAwaitingContinuation

		case stateAwaitingContinuation:
			resp, err := o.client.CreateMessage(ctx, MessagesRequest{
				System:   system,
				Messages: messages,
				Tools:    Catalog(),
			})
			if err != nil {
				return nil, err
			}
			result.AssistantMessage = resp.Text()
			// Tool calls in the continuation are still surfaced to the
			// client, but never earn another continuation round.
			o.collectWriteActions(result, resp.ToolUses())
			state = stateDone
		}
	}

	if result.AssistantMessage == "" {
		result.AssistantMessage = FallbackMessage
	}
	return result, nil
}

// resolveTool produces the tool_result content for one tool_use block. Read
// tools run here; write tools get the placeholder acknowledgement. A
// malformed input yields an error string back to the model rather than
// failing the turn.
func (o *Orchestrator) resolveTool(use ContentBlock, library []domain.LibraryExercise) string {
	if IsWriteTool(use.Name) {
		return writeToolAck
	}

	input, err := ParseToolInput(use.Name, use.Input)
	if err != nil {
		o.logger.Warn("rejected tool input", "tool", use.Name, "error", err)
		return fmt.Sprintf("Invalid input: %v", err)
	}

	switch in := input.(type) {
	case *QueryExerciseLibraryInput:
		return QueryExerciseLibrary(*in, library)
	case *GetExerciseDetailsInput:
		return GetExerciseDetails(*in, library)
	default:
		return fmt.Sprintf("Tool %q is not executable server-side.", use.Name)
	}
}

// collectWriteActions appends the write-tool calls of a response to the
// result, preserving emission order. Invalid inputs are dropped with a
// diagnostic; one bad call must not abort the turn.
func (o *Orchestrator) collectWriteActions(result *TurnResult, uses []ContentBlock) {
	for _, use := range uses {
		if !IsWriteTool(use.Name) {
			continue
		}
		input, err := ParseToolInput(use.Name, use.Input)
		if err != nil {
			o.logger.Warn("dropping invalid write tool call", "tool", use.Name, "error", err)
			continue
		}
		result.Actions = append(result.Actions, ToolAction{
			ID:    use.ID,
			Name:  use.Name,
			Input: input,
			Raw:   use.Input,
		})
	}
}
