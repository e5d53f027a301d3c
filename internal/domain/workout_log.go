package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoggedExercise records one exercise actually performed during a session.
type LoggedExercise struct {
	Name  string `bson:"name" json:"name"`
	Sets  int    `bson:"sets" json:"sets"`
	Reps  int    `bson:"reps" json:"reps"`
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutLog is a completed-workout entry in the user's history.
type WorkoutLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID    primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	DayOfWeek DayOfWeek          `bson:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"`

	WorkoutName string           `bson:"workoutName" json:"workoutName"`
	Exercises   []LoggedExercise `bson:"exercises" json:"exercises"`
	Duration    int              `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Notes       string           `bson:"notes,omitempty" json:"notes,omitempty"`

	PerformedAt time.Time `bson:"performedAt" json:"performedAt"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
