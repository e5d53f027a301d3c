package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LibraryExercise is a single entry in a user's personal exercise catalog.
// Default entries are seeded once when a user's library is first accessed and
// found empty; custom entries are user- or AI-authored.
type LibraryExercise struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Name   string             `bson:"name" json:"name"`

	PrimaryMuscles    []MuscleGroup `bson:"primaryMuscles" json:"primaryMuscles"`
	SecondaryMuscles  []MuscleGroup `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	EquipmentRequired []Equipment   `bson:"equipmentRequired" json:"equipmentRequired"`
	Difficulty        Difficulty    `bson:"difficulty" json:"difficulty"`
	Instructions      []string      `bson:"instructions" json:"instructions"`
	Tips              []string      `bson:"tips,omitempty" json:"tips,omitempty"`

	// MediaKey is the object key of an optional demo video/image uploaded for
	// this exercise. Presigned URLs are issued from it on demand.
	MediaKey string `bson:"mediaKey,omitempty" json:"mediaKey,omitempty"`

	IsDefault bool `bson:"isDefault" json:"isDefault"`
	IsCustom  bool `bson:"isCustom" json:"isCustom"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseFilter narrows a library search. Zero-valued fields are ignored;
// provided fields are combined with logical AND. Name matching is a
// case-insensitive substring match.
type ExerciseFilter struct {
	MuscleGroup MuscleGroup
	Equipment   Equipment
	Difficulty  Difficulty
	Name        string
}

// IsZero reports whether no filter fields are set.
func (f ExerciseFilter) IsZero() bool {
	return f.MuscleGroup == "" && f.Equipment == "" && f.Difficulty == "" && f.Name == ""
}
