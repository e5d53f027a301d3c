package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"alcyxob/fitness-coach/internal/domain"
)

const systemPromptHeader = `You are an experienced, encouraging personal fitness coach. You help the user manage their weekly workout plan and personal exercise library through the tools available to you.

Guidelines:
- Prefer exercises from the user's library. Use query_exercise_library before inventing new ones.
- When the user asks for a new plan, produce a complete 7-day schedule with save_workout_plan, including rest days.
- Rest days use workoutType "rest" and an empty exercise list.
- For small adjustments use update_day_schedule or update_exercise instead of regenerating the whole plan.
- Keep answers short and practical.`

// BuildSystemPrompt assembles the per-turn system prompt from the user's
// profile, their current plan (verbatim JSON, or an explicit no-plan marker)
// and a summary of the exercise library.
func BuildSystemPrompt(user *domain.User, plan *domain.WorkoutPlan, library []domain.LibraryExercise, now time.Time) string {
	var b strings.Builder
	b.WriteString(systemPromptHeader)

	b.WriteString("\n\n## User profile\n")
	if user != nil {
		fmt.Fprintf(&b, "Name: %s\n", user.Name)
		if user.FitnessGoal != "" {
			fmt.Fprintf(&b, "Goal: %s\n", user.FitnessGoal)
		}
		if user.ExperienceLevel != "" {
			fmt.Fprintf(&b, "Experience: %s\n", user.ExperienceLevel)
		}
		if user.TrainingDaysGoal > 0 {
			fmt.Fprintf(&b, "Preferred training days per week: %d\n", user.TrainingDaysGoal)
		}
	} else {
		b.WriteString("(no profile on file)\n")
	}

	b.WriteString("\n## Current workout plan\n")
	if plan == nil {
		b.WriteString("The user has no workout plan yet.\n")
	} else {
		fmt.Fprintf(&b, "Name: %s (status: %s, valid until %s)\n",
			plan.Name, plan.EffectiveStatus(now), plan.ValidUntil.Format("2006-01-02"))
		if scheduleJSON, err := json.Marshal(plan.Schedule); err == nil {
			b.WriteString("Schedule JSON:\n")
			b.Write(scheduleJSON)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Exercise library\n")
	b.WriteString(summarizeLibrary(library))

	return b.String()
}

// summarizeLibrary renders counts plus muscle/equipment coverage rather than
// the full catalog, keeping the prompt small. The model drills in through
// query_exercise_library / get_exercise_details.
func summarizeLibrary(library []domain.LibraryExercise) string {
	if len(library) == 0 {
		return "The exercise library has not been initialized yet.\n"
	}

	muscles := make(map[domain.MuscleGroup]int)
	equipment := make(map[domain.Equipment]int)
	custom := 0
	for _, ex := range library {
		for _, m := range ex.PrimaryMuscles {
			muscles[m]++
		}
		for _, e := range ex.EquipmentRequired {
			equipment[e]++
		}
		if ex.IsCustom {
			custom++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d exercises (%d custom).\n", len(library), custom)
	fmt.Fprintf(&b, "Muscle coverage: %s\n", countsLine(muscles))
	fmt.Fprintf(&b, "Equipment coverage: %s\n", countsLine(equipment))
	return b.String()
}

func countsLine[K ~string](counts map[K]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s (%d)", k, counts[K(k)])
	}
	return strings.Join(parts, ", ")
}
