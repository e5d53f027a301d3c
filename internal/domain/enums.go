package domain

import "strings"

// DayOfWeek keys the seven entries of a plan's weekly schedule.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// WeekDays lists all day keys in schedule order.
var WeekDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDayOfWeek resolves a day key case-insensitively.
func ParseDayOfWeek(s string) (DayOfWeek, bool) {
	d := DayOfWeek(strings.ToLower(strings.TrimSpace(s)))
	for _, day := range WeekDays {
		if day == d {
			return day, true
		}
	}
	return "", false
}

// WorkoutType classifies a day's training focus.
type WorkoutType string

const (
	WorkoutUpperBody WorkoutType = "upper_body"
	WorkoutLowerBody WorkoutType = "lower_body"
	WorkoutFullBody  WorkoutType = "full_body"
	WorkoutCardio    WorkoutType = "cardio"
	WorkoutRest      WorkoutType = "rest"
)

// WorkoutTypes lists all valid workout types.
var WorkoutTypes = []WorkoutType{WorkoutUpperBody, WorkoutLowerBody, WorkoutFullBody, WorkoutCardio, WorkoutRest}

// IsValidWorkoutType reports whether t is one of the known workout types.
func IsValidWorkoutType(t WorkoutType) bool {
	for _, wt := range WorkoutTypes {
		if wt == t {
			return true
		}
	}
	return false
}

// MuscleGroup identifies a primary or secondary muscle target.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "chest"
	MuscleBack      MuscleGroup = "back"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleBiceps    MuscleGroup = "biceps"
	MuscleTriceps   MuscleGroup = "triceps"
	MuscleLegs      MuscleGroup = "legs"
	MuscleGlutes    MuscleGroup = "glutes"
	MuscleCore      MuscleGroup = "core"
	MuscleFullBody  MuscleGroup = "full_body"
)

// MuscleGroups lists all valid muscle groups.
var MuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleLegs, MuscleGlutes, MuscleCore, MuscleFullBody,
}

// IsValidMuscleGroup reports whether m is one of the known muscle groups.
func IsValidMuscleGroup(m MuscleGroup) bool {
	for _, mg := range MuscleGroups {
		if mg == m {
			return true
		}
	}
	return false
}

// Equipment identifies a piece of equipment an exercise requires.
type Equipment string

const (
	EquipBodyweight      Equipment = "bodyweight"
	EquipDumbbells       Equipment = "dumbbells"
	EquipBarbell         Equipment = "barbell"
	EquipKettlebell      Equipment = "kettlebell"
	EquipResistanceBands Equipment = "resistance_bands"
	EquipPullUpBar       Equipment = "pull_up_bar"
	EquipBench           Equipment = "bench"
	EquipMachine         Equipment = "machine"
	EquipCables          Equipment = "cables"
)

// EquipmentTypes lists all valid equipment values.
var EquipmentTypes = []Equipment{
	EquipBodyweight, EquipDumbbells, EquipBarbell, EquipKettlebell,
	EquipResistanceBands, EquipPullUpBar, EquipBench, EquipMachine, EquipCables,
}

// IsValidEquipment reports whether e is one of the known equipment values.
func IsValidEquipment(e Equipment) bool {
	for _, eq := range EquipmentTypes {
		if eq == e {
			return true
		}
	}
	return false
}

// Difficulty grades an exercise for the user-facing library.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists all valid difficulty grades.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// IsValidDifficulty reports whether d is one of the known difficulty grades.
func IsValidDifficulty(d Difficulty) bool {
	for _, diff := range Difficulties {
		if diff == d {
			return true
		}
	}
	return false
}
