package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus is the stored lifecycle state of a workout plan.
// Expiry is deliberately NOT a stored status: a plan whose validity date has
// passed keeps its stored status until something acts on it (soft expiry).
// Use IsExpired / EffectiveStatus for the derived view.
type PlanStatus string

const (
	PlanActive   PlanStatus = "active"
	PlanPaused   PlanStatus = "paused"
	PlanArchived PlanStatus = "archived"

	// PlanExpired is a derived, display-only status. It never appears in the
	// status field of a stored document.
	PlanExpired PlanStatus = "expired"
)

// PlanExercise is a single prescribed exercise within a day's schedule.
// IDs are unique within a plan day only, not globally.
type PlanExercise struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Sets  int    `bson:"sets" json:"sets"`
	Reps  int    `bson:"reps" json:"reps"`
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// DaySchedule is one weekday's entry in a plan. A plan always carries seven,
// one per day. Rest days should carry an empty exercise list (soft convention).
type DaySchedule struct {
	DayOfWeek   DayOfWeek      `bson:"dayOfWeek" json:"dayOfWeek"`
	WorkoutType WorkoutType    `bson:"workoutType" json:"workoutType"`
	WorkoutName string         `bson:"workoutName" json:"workoutName"`
	Exercises   []PlanExercise `bson:"exercises" json:"exercises"`
}

// WorkoutPlan is an AI-generated weekly training plan owned by one user.
//
// Invariant: at most one plan per user has Status == PlanActive at any time.
// The repository enforces this transactionally; services must go through
// CreateActive / Activate rather than flipping IsActive by hand.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	GeneratedBy string             `bson:"generatedBy,omitempty" json:"generatedBy,omitempty"` // generator tag, e.g. model name
	Status      PlanStatus         `bson:"status" json:"status"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Schedule    []DaySchedule      `bson:"schedule" json:"schedule"` // always 7 entries

	ValidUntil time.Time `bson:"validUntil" json:"validUntil"`
	// OriginalValidUntil preserves the pre-extension validity date. Set once,
	// on the first extension, never overwritten by later ones.
	OriginalValidUntil *time.Time `bson:"originalValidUntil,omitempty" json:"originalValidUntil,omitempty"`

	StartedAt  time.Time  `bson:"startedAt" json:"startedAt"`
	PausedAt   *time.Time `bson:"pausedAt,omitempty" json:"pausedAt,omitempty"`
	ResumedAt  *time.Time `bson:"resumedAt,omitempty" json:"resumedAt,omitempty"`
	ArchivedAt *time.Time `bson:"archivedAt,omitempty" json:"archivedAt,omitempty"`
	ExtendedAt *time.Time `bson:"extendedAt,omitempty" json:"extendedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsExpired reports whether the plan's validity window has passed.
// All call sites must use this helper so "expired" means the same thing
// on the dashboard, the programs list, and in the coach prompt.
func (p *WorkoutPlan) IsExpired(now time.Time) bool {
	return p.ValidUntil.Before(now)
}

// EffectiveStatus returns the status to display: the stored status, or
// PlanExpired when a non-archived plan's validity date has passed.
func (p *WorkoutPlan) EffectiveStatus(now time.Time) PlanStatus {
	if p.Status != PlanArchived && p.IsExpired(now) {
		return PlanExpired
	}
	return p.Status
}

// Day returns the schedule entry matching the given key (case-insensitive),
// or nil when the key does not resolve.
func (p *WorkoutPlan) Day(key string) *DaySchedule {
	day, ok := ParseDayOfWeek(key)
	if !ok {
		return nil
	}
	for i := range p.Schedule {
		if p.Schedule[i].DayOfWeek == day {
			return &p.Schedule[i]
		}
	}
	return nil
}
