package repository

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrConcurrencyConflict means a transactional activate/deactivate could
	// not complete atomically. Callers should retry the whole operation.
	ErrConcurrencyConflict = RepositoryError("concurrency conflict")
	ErrUpdateFailed        = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, goal, level string, trainingDays int) error
}

// PlanRepository defines the interface for interacting with workout plan data.
//
// CreateActive and Activate are the only ways a plan becomes active. Both
// deactivate any other active plan for the user inside a single transaction,
// so the single-active-plan invariant holds under concurrent requests.
type PlanRepository interface {
	// CreateActive inserts the plan and activates it, pausing any currently
	// active plan for the same user atomically. Returns ErrConcurrencyConflict
	// when the transaction cannot commit against a consistent snapshot.
	CreateActive(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	// Activate marks the target plan active and deactivates all other active
	// plans for the user in one transaction, applying the given field updates
	// to the target.
	Activate(ctx context.Context, userID, planID primitive.ObjectID, set map[string]any) error
	GetByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetActiveForUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	// Update applies a partial $set-style update to one plan.
	Update(ctx context.Context, userID, planID primitive.ObjectID, set map[string]any) error
	// ReplaceSchedule overwrites the full 7-day schedule.
	ReplaceSchedule(ctx context.Context, userID, planID primitive.ObjectID, schedule []domain.DaySchedule) error
	Delete(ctx context.Context, userID, planID primitive.ObjectID) error
}

// ExerciseRepository defines the interface for a user's exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.LibraryExercise) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, exercises []domain.LibraryExercise) error
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.LibraryExercise, error)
	GetByName(ctx context.Context, userID primitive.ObjectID, name string) (*domain.LibraryExercise, error)
	GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.LibraryExercise, error)
	Search(ctx context.Context, userID primitive.ObjectID, filter domain.ExerciseFilter) ([]domain.LibraryExercise, error)
	CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, exercise *domain.LibraryExercise) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

// WorkoutLogRepository defines the interface for workout history entries.
type WorkoutLogRepository interface {
	Create(ctx context.Context, entry *domain.WorkoutLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutLog, error)
	GetAllForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}
