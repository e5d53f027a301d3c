// Package executor applies the write-tool actions a conversational turn
// produced. It is the server-side counterpart of the browser's tool handler:
// actions run in model-emission order, each failure is isolated, and
// replacing an active plan requires an explicit confirmation.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"alcyxob/fitness-coach/internal/ai"
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultPlanName names AI-generated plans that arrive without one.
const defaultPlanName = "My Workout Plan"

// generatorTag marks plans created through the coach conversation.
const generatorTag = "coach-ai"

// Confirmer decides whether an existing active plan may be paused and
// replaced. The real decision belongs to the user; HTTP callers carry it as
// a flag on the request.
type Confirmer interface {
	ConfirmReplace(ctx context.Context, existing *domain.WorkoutPlan) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, existing *domain.WorkoutPlan) (bool, error)

// ConfirmReplace implements Confirmer.
func (f ConfirmerFunc) ConfirmReplace(ctx context.Context, existing *domain.WorkoutPlan) (bool, error) {
	return f(ctx, existing)
}

// ActionResult reports the outcome of one applied tool action.
type ActionResult struct {
	Tool    string `json:"tool"`
	Applied bool   `json:"applied"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
	PlanID  string `json:"planId,omitempty"`
}

// Executor applies ordered tool actions against the plan and library
// services.
type Executor struct {
	plans   service.PlanService
	library service.LibraryService
	logger  *slog.Logger
}

// New creates an executor.
func New(plans service.PlanService, library service.LibraryService, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{plans: plans, library: library, logger: logger}
}

// Apply runs the actions in order. One action's failure is recorded and does
// not abort its siblings: later actions may be independent of the failed one.
func (e *Executor) Apply(ctx context.Context, userID primitive.ObjectID, actions []ai.ToolAction, confirm Confirmer) []ActionResult {
	results := make([]ActionResult, 0, len(actions))
	for _, action := range actions {
		result := e.applyOne(ctx, userID, action, confirm)
		if result.Reason != "" && !result.Applied && !result.Skipped {
			e.logger.Warn("tool action failed", "tool", action.Name, "reason", result.Reason)
		}
		results = append(results, result)
	}
	return results
}

func (e *Executor) applyOne(ctx context.Context, userID primitive.ObjectID, action ai.ToolAction, confirm Confirmer) ActionResult {
	result := ActionResult{Tool: action.Name}

	switch in := action.Input.(type) {
	case *ai.SaveWorkoutPlanInput:
		plan, skipped, err := e.savePlan(ctx, userID, in, confirm)
		if err != nil {
			result.Reason = err.Error()
			return result
		}
		if skipped {
			result.Skipped = true
			result.Reason = "user declined to replace the active plan"
			return result
		}
		result.Applied = true
		result.PlanID = plan.ID.Hex()

	case *ai.UpdateDayScheduleInput:
		plan, err := e.requireActivePlan(ctx, userID)
		if err != nil {
			result.Skipped = true
			result.Reason = err.Error()
			e.logger.Info("skipping day update without an active plan", "day", in.DayOfWeek)
			return result
		}
		_, err = e.plans.UpdateDay(ctx, userID, plan.ID, in.DayOfWeek, service.DayUpdate{
			WorkoutType: domain.WorkoutType(in.WorkoutType),
			WorkoutName: in.WorkoutName,
			Exercises:   toPlanExercises(in.Exercises),
		})
		if err != nil {
			result.Reason = err.Error()
			return result
		}
		result.Applied = true
		result.PlanID = plan.ID.Hex()

	case *ai.UpdateExerciseInput:
		plan, err := e.requireActivePlan(ctx, userID)
		if err != nil {
			result.Skipped = true
			result.Reason = err.Error()
			e.logger.Info("skipping exercise update without an active plan", "exerciseId", in.ExerciseID)
			return result
		}
		_, err = e.plans.UpdateExercise(ctx, userID, plan.ID, in.DayOfWeek, in.ExerciseID, service.ExerciseUpdate{
			Name:  in.Updates.Name,
			Sets:  in.Updates.Sets,
			Reps:  in.Updates.Reps,
			Notes: in.Updates.Notes,
		})
		if err != nil {
			result.Reason = err.Error()
			return result
		}
		result.Applied = true
		result.PlanID = plan.ID.Hex()

	case *ai.AddExerciseToLibraryInput:
		// LibraryService.Create invalidates the exercise cache, so the next
		// conversational turn resends the full catalog.
		_, err := e.library.Create(ctx, userID, domain.LibraryExercise{
			Name:              in.Name,
			PrimaryMuscles:    toMuscles(in.PrimaryMuscles),
			SecondaryMuscles:  toMuscles(in.SecondaryMuscles),
			EquipmentRequired: toEquipment(in.EquipmentRequired),
			Difficulty:        domain.Difficulty(in.Difficulty),
			Instructions:      in.Instructions,
			Tips:              in.Tips,
		})
		if err != nil {
			result.Reason = err.Error()
			return result
		}
		result.Applied = true

	default:
		// Read tools never reach the executor; they were resolved during the
		// orchestrated turn.
		result.Skipped = true
		result.Reason = fmt.Sprintf("tool %q is not client-executable", action.Name)
	}

	return result
}

// savePlan creates the plan, asking for confirmation first when it would
// replace an active one. skipped=true means the user declined.
func (e *Executor) savePlan(ctx context.Context, userID primitive.ObjectID, in *ai.SaveWorkoutPlanInput, confirm Confirmer) (*domain.WorkoutPlan, bool, error) {
	existing, err := e.plans.GetActivePlan(ctx, userID)
	if err != nil && !errors.Is(err, service.ErrPlanNotFound) {
		return nil, false, err
	}
	if existing != nil {
		if confirm == nil {
			return nil, true, nil
		}
		ok, err := confirm.ConfirmReplace(ctx, existing)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, true, nil
		}
	}

	name := in.PlanName
	if name == "" {
		name = defaultPlanName
	}
	plan, err := e.plans.CreatePlan(ctx, userID, name, toSchedule(in.WorkoutSchedule), 0, generatorTag)
	if err != nil {
		return nil, false, err
	}
	return plan, false, nil
}

func (e *Executor) requireActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := e.plans.GetActivePlan(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			return nil, errors.New("no active plan to update")
		}
		return nil, err
	}
	return plan, nil
}

func toSchedule(days []ai.ToolDaySchedule) []domain.DaySchedule {
	out := make([]domain.DaySchedule, len(days))
	for i, d := range days {
		day, _ := domain.ParseDayOfWeek(d.DayOfWeek)
		out[i] = domain.DaySchedule{
			DayOfWeek:   day,
			WorkoutType: domain.WorkoutType(d.WorkoutType),
			WorkoutName: d.WorkoutName,
			Exercises:   toPlanExercises(d.Exercises),
		}
	}
	return out
}

func toPlanExercises(exercises []ai.ToolPlanExercise) []domain.PlanExercise {
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

func toMuscles(values []string) []domain.MuscleGroup {
	out := make([]domain.MuscleGroup, len(values))
	for i, v := range values {
		out[i] = domain.MuscleGroup(v)
	}
	return out
}

func toEquipment(values []string) []domain.Equipment {
	out := make([]domain.Equipment, len(values))
	for i, v := range values {
		out[i] = domain.Equipment(v)
	}
	return out
}
