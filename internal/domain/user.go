package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an authenticated account. The coaching core trusts the user id the
// auth layer puts on the request and performs no further identity checks.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`

	// Profile fields surfaced to the coach prompt.
	FitnessGoal      string `bson:"fitnessGoal,omitempty" json:"fitnessGoal,omitempty"`
	ExperienceLevel  string `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`
	TrainingDaysGoal int    `bson:"trainingDaysGoal,omitempty" json:"trainingDaysGoal,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
