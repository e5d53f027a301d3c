package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"alcyxob/fitness-coach/internal/domain"
)

// Tool names. The catalog is fixed; the model is never offered anything else.
const (
	ToolSaveWorkoutPlan      = "save_workout_plan"
	ToolUpdateDaySchedule    = "update_day_schedule"
	ToolUpdateExercise       = "update_exercise"
	ToolQueryExerciseLibrary = "query_exercise_library"
	ToolAddExerciseToLibrary = "add_exercise_to_library"
	ToolGetExerciseDetails   = "get_exercise_details"
)

// IsWriteTool reports whether the named tool mutates state. Write tools are
// never executed server-side: the orchestrator acknowledges them with a
// placeholder result and surfaces the call to the client, because the
// decision to replace an active plan is a user-confirmable client action.
func IsWriteTool(name string) bool {
	switch name {
	case ToolSaveWorkoutPlan, ToolUpdateDaySchedule, ToolUpdateExercise, ToolAddExerciseToLibrary:
		return true
	}
	return false
}

// writeToolAck is the placeholder result returned to the model for write
// tools, satisfying the protocol's expectation of a tool result.
const writeToolAck = "saved successfully"

// noResultsMessage is returned for an empty library query match.
const noResultsMessage = "No exercises found matching those criteria."

// queryResultCap caps how many matches a library query reports back.
const queryResultCap = 10

// ToolPlanExercise is the wire shape of one exercise inside a tool call.
type ToolPlanExercise struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Sets  int    `json:"sets"`
	Reps  int    `json:"reps"`
	Notes string `json:"notes,omitempty"`
}

// ToolDaySchedule is the wire shape of one day inside a tool call.
type ToolDaySchedule struct {
	DayOfWeek   string             `json:"dayOfWeek"`
	WorkoutType string             `json:"workoutType"`
	WorkoutName string             `json:"workoutName"`
	Exercises   []ToolPlanExercise `json:"exercises"`
}

func (d ToolDaySchedule) validate() error {
	if _, ok := domain.ParseDayOfWeek(d.DayOfWeek); !ok {
		return fmt.Errorf("invalid dayOfWeek %q", d.DayOfWeek)
	}
	if !domain.IsValidWorkoutType(domain.WorkoutType(d.WorkoutType)) {
		return fmt.Errorf("invalid workoutType %q", d.WorkoutType)
	}
	return nil
}

// ToolInput is the tagged union of per-tool input shapes. Each tool carries
// its own statically typed input; dispatch is an exhaustive type switch.
type ToolInput interface {
	// Validate re-checks enum-constrained fields. Schema validation is the
	// provider's job at the protocol boundary, but inputs are re-validated
	// defensively before reaching application logic.
	Validate() error
	isToolInput()
}

// SaveWorkoutPlanInput replaces the user's plan with a new 7-day schedule.
type SaveWorkoutPlanInput struct {
	WorkoutSchedule []ToolDaySchedule `json:"workoutSchedule"`
	PlanName        string            `json:"planName,omitempty"`
}

func (SaveWorkoutPlanInput) isToolInput() {}

func (in SaveWorkoutPlanInput) Validate() error {
	if len(in.WorkoutSchedule) != 7 {
		return fmt.Errorf("workoutSchedule must have 7 days, got %d", len(in.WorkoutSchedule))
	}
	seen := make(map[domain.DayOfWeek]bool, 7)
	for _, day := range in.WorkoutSchedule {
		if err := day.validate(); err != nil {
			return err
		}
		key, _ := domain.ParseDayOfWeek(day.DayOfWeek)
		if seen[key] {
			return fmt.Errorf("duplicate day %q in schedule", day.DayOfWeek)
		}
		seen[key] = true
	}
	return nil
}

// UpdateDayScheduleInput replaces a single day of the active plan.
type UpdateDayScheduleInput struct {
	DayOfWeek   string             `json:"dayOfWeek"`
	WorkoutType string             `json:"workoutType"`
	WorkoutName string             `json:"workoutName"`
	Exercises   []ToolPlanExercise `json:"exercises"`
}

func (UpdateDayScheduleInput) isToolInput() {}

func (in UpdateDayScheduleInput) Validate() error {
	return ToolDaySchedule{
		DayOfWeek:   in.DayOfWeek,
		WorkoutType: in.WorkoutType,
		WorkoutName: in.WorkoutName,
	}.validate()
}

// ExerciseUpdates carries the partial field updates of update_exercise.
// Nil pointers mean "leave unchanged".
type ExerciseUpdates struct {
	Name  *string `json:"name,omitempty"`
	Sets  *int    `json:"sets,omitempty"`
	Reps  *int    `json:"reps,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// UpdateExerciseInput edits one exercise of one day by id.
type UpdateExerciseInput struct {
	DayOfWeek  string          `json:"dayOfWeek"`
	ExerciseID string          `json:"exerciseId"`
	Updates    ExerciseUpdates `json:"updates"`
}

func (UpdateExerciseInput) isToolInput() {}

func (in UpdateExerciseInput) Validate() error {
	if _, ok := domain.ParseDayOfWeek(in.DayOfWeek); !ok {
		return fmt.Errorf("invalid dayOfWeek %q", in.DayOfWeek)
	}
	if in.ExerciseID == "" {
		return fmt.Errorf("exerciseId is required")
	}
	return nil
}

// QueryExerciseLibraryInput filters the user's library. All fields optional,
// combined with logical AND.
type QueryExerciseLibraryInput struct {
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	SearchTerm  string `json:"searchTerm,omitempty"`
}

func (QueryExerciseLibraryInput) isToolInput() {}

func (in QueryExerciseLibraryInput) Validate() error {
	if in.MuscleGroup != "" && !domain.IsValidMuscleGroup(domain.MuscleGroup(in.MuscleGroup)) {
		return fmt.Errorf("invalid muscleGroup %q", in.MuscleGroup)
	}
	if in.Equipment != "" && !domain.IsValidEquipment(domain.Equipment(in.Equipment)) {
		return fmt.Errorf("invalid equipment %q", in.Equipment)
	}
	if in.Difficulty != "" && !domain.IsValidDifficulty(domain.Difficulty(in.Difficulty)) {
		return fmt.Errorf("invalid difficulty %q", in.Difficulty)
	}
	return nil
}

// AddExerciseToLibraryInput creates a custom library exercise.
type AddExerciseToLibraryInput struct {
	Name              string   `json:"name"`
	PrimaryMuscles    []string `json:"primaryMuscles"`
	SecondaryMuscles  []string `json:"secondaryMuscles,omitempty"`
	EquipmentRequired []string `json:"equipmentRequired"`
	Difficulty        string   `json:"difficulty"`
	Instructions      []string `json:"instructions"`
	Tips              []string `json:"tips,omitempty"`
}

func (AddExerciseToLibraryInput) isToolInput() {}

func (in AddExerciseToLibraryInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(in.PrimaryMuscles) == 0 {
		return fmt.Errorf("primaryMuscles is required")
	}
	for _, m := range append(append([]string{}, in.PrimaryMuscles...), in.SecondaryMuscles...) {
		if !domain.IsValidMuscleGroup(domain.MuscleGroup(m)) {
			return fmt.Errorf("invalid muscle group %q", m)
		}
	}
	for _, e := range in.EquipmentRequired {
		if !domain.IsValidEquipment(domain.Equipment(e)) {
			return fmt.Errorf("invalid equipment %q", e)
		}
	}
	if !domain.IsValidDifficulty(domain.Difficulty(in.Difficulty)) {
		return fmt.Errorf("invalid difficulty %q", in.Difficulty)
	}
	return nil
}

// GetExerciseDetailsInput looks up one exercise by name.
type GetExerciseDetailsInput struct {
	ExerciseName string `json:"exerciseName"`
}

func (GetExerciseDetailsInput) isToolInput() {}

func (in GetExerciseDetailsInput) Validate() error {
	if in.ExerciseName == "" {
		return fmt.Errorf("exerciseName is required")
	}
	return nil
}

// ParseToolInput decodes and validates a raw tool input for the named tool.
func ParseToolInput(name string, raw json.RawMessage) (ToolInput, error) {
	var in ToolInput
	switch name {
	case ToolSaveWorkoutPlan:
		in = &SaveWorkoutPlanInput{}
	case ToolUpdateDaySchedule:
		in = &UpdateDayScheduleInput{}
	case ToolUpdateExercise:
		in = &UpdateExerciseInput{}
	case ToolQueryExerciseLibrary:
		in = &QueryExerciseLibraryInput{}
	case ToolAddExerciseToLibrary:
		in = &AddExerciseToLibraryInput{}
	case ToolGetExerciseDetails:
		in = &GetExerciseDetailsInput{}
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	if err := json.Unmarshal(raw, in); err != nil {
		return nil, fmt.Errorf("decode %s input: %w", name, err)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s input: %w", name, err)
	}
	return in, nil
}

// Catalog returns the fixed tool set offered to the model on every turn.
func Catalog() []Tool {
	return []Tool{
		{
			Name:        ToolSaveWorkoutPlan,
			Description: "Save a complete 7-day workout plan for the user, replacing any existing plan after the user confirms.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"planName": map[string]any{"type": "string", "description": "Display name for the plan"},
					"workoutSchedule": map[string]any{
						"type":     "array",
						"minItems": 7,
						"maxItems": 7,
						"items":    daySchema(),
					},
				},
				"required": []string{"workoutSchedule"},
			},
		},
		{
			Name:        ToolUpdateDaySchedule,
			Description: "Replace a single day of the user's active plan.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"dayOfWeek":   enumSchema(dayValues()),
					"workoutType": enumSchema(workoutTypeValues()),
					"workoutName": map[string]any{"type": "string"},
					"exercises":   map[string]any{"type": "array", "items": exerciseSchema()},
				},
				"required": []string{"dayOfWeek", "workoutType", "workoutName", "exercises"},
			},
		},
		{
			Name:        ToolUpdateExercise,
			Description: "Update fields of one exercise in the active plan, located by day and exercise id.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"dayOfWeek":  enumSchema(dayValues()),
					"exerciseId": map[string]any{"type": "string"},
					"updates": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":  map[string]any{"type": "string"},
							"sets":  map[string]any{"type": "number"},
							"reps":  map[string]any{"type": "number"},
							"notes": map[string]any{"type": "string"},
						},
					},
				},
				"required": []string{"dayOfWeek", "exerciseId", "updates"},
			},
		},
		{
			Name:        ToolQueryExerciseLibrary,
			Description: "Search the user's exercise library. All filters optional and combined with AND.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"muscleGroup": enumSchema(muscleValues()),
					"equipment":   enumSchema(equipmentValues()),
					"difficulty":  enumSchema(difficultyValues()),
					"searchTerm":  map[string]any{"type": "string", "description": "Substring match on exercise name"},
				},
			},
		},
		{
			Name:        ToolAddExerciseToLibrary,
			Description: "Add a custom exercise to the user's library.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":              map[string]any{"type": "string"},
					"primaryMuscles":    map[string]any{"type": "array", "items": enumSchema(muscleValues())},
					"secondaryMuscles":  map[string]any{"type": "array", "items": enumSchema(muscleValues())},
					"equipmentRequired": map[string]any{"type": "array", "items": enumSchema(equipmentValues())},
					"difficulty":        enumSchema(difficultyValues()),
					"instructions":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"tips":              map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required": []string{"name", "primaryMuscles", "equipmentRequired", "difficulty", "instructions"},
			},
		},
		{
			Name:        ToolGetExerciseDetails,
			Description: "Get full details of one library exercise by name.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"exerciseName": map[string]any{"type": "string"},
				},
				"required": []string{"exerciseName"},
			},
		},
	}
}

func daySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dayOfWeek":   enumSchema(dayValues()),
			"workoutType": enumSchema(workoutTypeValues()),
			"workoutName": map[string]any{"type": "string"},
			"exercises":   map[string]any{"type": "array", "items": exerciseSchema()},
		},
		"required": []string{"dayOfWeek", "workoutType", "workoutName", "exercises"},
	}
}

func exerciseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":    map[string]any{"type": "string"},
			"name":  map[string]any{"type": "string"},
			"sets":  map[string]any{"type": "number"},
			"reps":  map[string]any{"type": "number"},
			"notes": map[string]any{"type": "string"},
		},
		"required": []string{"id", "name", "sets", "reps"},
	}
}

func enumSchema(values []string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func dayValues() []string {
	out := make([]string, len(domain.WeekDays))
	for i, d := range domain.WeekDays {
		out[i] = string(d)
	}
	return out
}

func workoutTypeValues() []string {
	out := make([]string, len(domain.WorkoutTypes))
	for i, t := range domain.WorkoutTypes {
		out[i] = string(t)
	}
	return out
}

func muscleValues() []string {
	out := make([]string, len(domain.MuscleGroups))
	for i, m := range domain.MuscleGroups {
		out[i] = string(m)
	}
	return out
}

func equipmentValues() []string {
	out := make([]string, len(domain.EquipmentTypes))
	for i, e := range domain.EquipmentTypes {
		out[i] = string(e)
	}
	return out
}

func difficultyValues() []string {
	out := make([]string, len(domain.Difficulties))
	for i, d := range domain.Difficulties {
		out[i] = string(d)
	}
	return out
}

// QueryExerciseLibrary executes the query_exercise_library read tool against
// the supplied library snapshot. Pure function of (filters, library).
func QueryExerciseLibrary(in QueryExerciseLibraryInput, library []domain.LibraryExercise) string {
	var matches []domain.LibraryExercise
	for _, ex := range library {
		if in.MuscleGroup != "" && !hasMuscle(ex, domain.MuscleGroup(in.MuscleGroup)) {
			continue
		}
		if in.Equipment != "" && !hasEquipment(ex, domain.Equipment(in.Equipment)) {
			continue
		}
		if in.Difficulty != "" && ex.Difficulty != domain.Difficulty(in.Difficulty) {
			continue
		}
		if in.SearchTerm != "" && !strings.Contains(strings.ToLower(ex.Name), strings.ToLower(in.SearchTerm)) {
			continue
		}
		matches = append(matches, ex)
	}

	if len(matches) == 0 {
		return noResultsMessage
	}

	shown := matches
	var b strings.Builder
	if len(matches) > queryResultCap {
		shown = matches[:queryResultCap]
		fmt.Fprintf(&b, "Showing first %d of %d matching exercises:\n", queryResultCap, len(matches))
	} else {
		fmt.Fprintf(&b, "Found %d matching exercises:\n", len(matches))
	}
	for _, ex := range shown {
		fmt.Fprintf(&b, "- %s (%s, %s, equipment: %s)\n",
			ex.Name, joinMuscles(ex.PrimaryMuscles), ex.Difficulty, joinEquipment(ex.EquipmentRequired))
	}
	return strings.TrimRight(b.String(), "\n")
}

// GetExerciseDetails executes the get_exercise_details read tool: exact
// case-insensitive name match first, then substring fallback.
func GetExerciseDetails(in GetExerciseDetailsInput, library []domain.LibraryExercise) string {
	want := strings.ToLower(strings.TrimSpace(in.ExerciseName))

	var found *domain.LibraryExercise
	for i := range library {
		if strings.ToLower(library[i].Name) == want {
			found = &library[i]
			break
		}
	}
	if found == nil {
		for i := range library {
			if strings.Contains(strings.ToLower(library[i].Name), want) {
				found = &library[i]
				break
			}
		}
	}
	if found == nil {
		return fmt.Sprintf("Exercise %q not found in the library.", in.ExerciseName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", found.Name)
	fmt.Fprintf(&b, "Primary muscles: %s\n", joinMuscles(found.PrimaryMuscles))
	if len(found.SecondaryMuscles) > 0 {
		fmt.Fprintf(&b, "Secondary muscles: %s\n", joinMuscles(found.SecondaryMuscles))
	}
	fmt.Fprintf(&b, "Equipment: %s\n", joinEquipment(found.EquipmentRequired))
	fmt.Fprintf(&b, "Difficulty: %s\n", found.Difficulty)
	if len(found.Instructions) > 0 {
		b.WriteString("Instructions:\n")
		for i, step := range found.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	if len(found.Tips) > 0 {
		b.WriteString("Tips:\n")
		for _, tip := range found.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func hasMuscle(ex domain.LibraryExercise, m domain.MuscleGroup) bool {
	for _, mg := range ex.PrimaryMuscles {
		if mg == m {
			return true
		}
	}
	for _, mg := range ex.SecondaryMuscles {
		if mg == m {
			return true
		}
	}
	return false
}

func hasEquipment(ex domain.LibraryExercise, e domain.Equipment) bool {
	for _, eq := range ex.EquipmentRequired {
		if eq == e {
			return true
		}
	}
	return false
}

func joinMuscles(ms []domain.MuscleGroup) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

func joinEquipment(es []domain.Equipment) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = string(e)
	}
	return strings.Join(parts, ", ")
}
