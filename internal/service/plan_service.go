package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrDayNotFound      = errors.New("day not found in plan schedule")
	ErrPlanArchived     = errors.New("plan is archived")
	ErrValidationFailed = errors.New("validation failed")
)

// week is the granularity of every validity extension.
const week = 7 * 24 * time.Hour

// DayUpdate carries the replaceable fields of one schedule day.
type DayUpdate struct {
	WorkoutType domain.WorkoutType
	WorkoutName string
	Exercises   []domain.PlanExercise
}

// ExerciseUpdate carries partial field updates for one plan exercise.
// Nil pointers leave the field unchanged.
type ExerciseUpdate struct {
	Name  *string
	Sets  *int
	Reps  *int
	Notes *string
}

// PlanService is the workout plan lifecycle engine.
//
// Status transitions: active <-> paused, active/paused -> archived,
// archived -> active (restore). Expiry is never a stored transition: it is
// the derived predicate domain.WorkoutPlan.IsExpired, and an expired plan
// keeps surfacing until something archives or resumes it.
type PlanService interface {
	// CreatePlan activates a new plan, pausing any currently active plan for
	// the user in the same transaction. validWeeks <= 0 defaults to 4.
	CreatePlan(ctx context.Context, userID primitive.ObjectID, name string, schedule []domain.DaySchedule, validWeeks int, generatedBy string) (*domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	// Pause suspends the plan. Idempotent when already paused. Fails with
	// ErrPlanArchived for archived plans.
	Pause(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	// Resume reactivates the plan, pausing any other active plan atomically.
	// Resuming an expired plan extends its validity by one week. Archived
	// plans re-enter only through Restore and fail with ErrPlanArchived here.
	Resume(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Archive(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	// Restore brings an archived plan back to active, re-entering the
	// single-active-plan invariant.
	Restore(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	// Extend pushes the validity date forward by weeks*7 days. The
	// pre-extension validity date is preserved on the first extension only.
	Extend(ctx context.Context, userID, planID primitive.ObjectID, weeks int) (*domain.WorkoutPlan, error)
	Rename(ctx context.Context, userID, planID primitive.ObjectID, name string) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, userID, planID primitive.ObjectID) error
	// UpdateDay replaces the matching day's mutable fields, leaving the other
	// six days untouched. The day key matches case-insensitively.
	UpdateDay(ctx context.Context, userID, planID primitive.ObjectID, dayKey string, update DayUpdate) (*domain.WorkoutPlan, error)
	// UpdateExercise merges field updates into the exercise with the given id
	// within the given day. An unknown exercise id is a silent no-op (logged
	// for observability), matching the tolerant client contract.
	UpdateExercise(ctx context.Context, userID, planID primitive.ObjectID, dayKey, exerciseID string, update ExerciseUpdate) (*domain.WorkoutPlan, error)
}

// planService implements PlanService.
type planService struct {
	planRepo repository.PlanRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewPlanService creates a new plan lifecycle service.
func NewPlanService(planRepo repository.PlanRepository, logger *slog.Logger) PlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &planService{
		planRepo: planRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// normalizeSchedule validates the 7-day schedule and assigns ids to
// exercises that arrived without one.
func normalizeSchedule(schedule []domain.DaySchedule) error {
	if len(schedule) != 7 {
		return ErrValidationFailed
	}
	seen := make(map[domain.DayOfWeek]bool, 7)
	for i := range schedule {
		day, ok := domain.ParseDayOfWeek(string(schedule[i].DayOfWeek))
		if !ok || seen[day] {
			return ErrValidationFailed
		}
		seen[day] = true
		schedule[i].DayOfWeek = day
		if !domain.IsValidWorkoutType(schedule[i].WorkoutType) {
			return ErrValidationFailed
		}
		for j := range schedule[i].Exercises {
			if schedule[i].Exercises[j].ID == "" {
				schedule[i].Exercises[j].ID = uuid.NewString()
			}
		}
	}
	return nil
}

func (s *planService) CreatePlan(ctx context.Context, userID primitive.ObjectID, name string, schedule []domain.DaySchedule, validWeeks int, generatedBy string) (*domain.WorkoutPlan, error) {
	if userID == primitive.NilObjectID || name == "" {
		return nil, ErrValidationFailed
	}
	if err := normalizeSchedule(schedule); err != nil {
		return nil, err
	}
	if validWeeks <= 0 {
		validWeeks = 4
	}

	now := s.now().UTC()
	plan := &domain.WorkoutPlan{
		UserID:      userID,
		Name:        name,
		GeneratedBy: generatedBy,
		Schedule:    schedule,
		ValidUntil:  now.Add(time.Duration(validWeeks) * week),
		StartedAt:   now,
	}

	planID, err := s.planRepo.CreateActive(ctx, plan)
	if err != nil {
		return nil, err
	}
	// Reload to pick up server-assigned fields.
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) getPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, userID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetActiveForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) GetPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return s.planRepo.GetAllForUser(ctx, userID)
}

func (s *planService) Pause(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.getPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == domain.PlanPaused {
		return plan, nil
	}
	if plan.Status == domain.PlanArchived {
		return nil, ErrPlanArchived
	}

	now := s.now().UTC()
	set := map[string]any{
		"status":   domain.PlanPaused,
		"isActive": false,
		"pausedAt": now,
	}
	if err := s.planRepo.Update(ctx, userID, planID, set); err != nil {
		return nil, err
	}
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) Resume(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.getPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == domain.PlanArchived {
		// Restore is the only way out of the archive, so an archived plan can
		// never carry active status alongside its archive timestamp.
		return nil, ErrPlanArchived
	}

	now := s.now().UTC()
	set := map[string]any{
		"resumedAt": now,
		"pausedAt":  nil,
	}
	if plan.IsExpired(now) {
		// A resumed-but-expired plan gets one week of fresh validity so the
		// user lands on a usable plan, not an immediately-expired one.
		set["validUntil"] = now.Add(week)
		set["extendedAt"] = now
		if plan.OriginalValidUntil == nil {
			set["originalValidUntil"] = plan.ValidUntil
		}
	}

	if err := s.planRepo.Activate(ctx, userID, planID, set); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) Archive(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	if _, err := s.getPlan(ctx, userID, planID); err != nil {
		return nil, err
	}

	set := map[string]any{
		"status":     domain.PlanArchived,
		"isActive":   false,
		"archivedAt": s.now().UTC(),
	}
	if err := s.planRepo.Update(ctx, userID, planID, set); err != nil {
		return nil, err
	}
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) Restore(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	set := map[string]any{
		"archivedAt": nil,
		"resumedAt":  s.now().UTC(),
	}
	if err := s.planRepo.Activate(ctx, userID, planID, set); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) Extend(ctx context.Context, userID, planID primitive.ObjectID, weeks int) (*domain.WorkoutPlan, error) {
	if weeks <= 0 {
		return nil, ErrValidationFailed
	}
	plan, err := s.getPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	set := map[string]any{
		"validUntil": plan.ValidUntil.Add(time.Duration(weeks) * week),
		"extendedAt": s.now().UTC(),
	}
	if plan.OriginalValidUntil == nil {
		// First extension only: later extensions keep the original date.
		set["originalValidUntil"] = plan.ValidUntil
	}
	if err := s.planRepo.Update(ctx, userID, planID, set); err != nil {
		return nil, err
	}
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) Rename(ctx context.Context, userID, planID primitive.ObjectID, name string) (*domain.WorkoutPlan, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if err := s.planRepo.Update(ctx, userID, planID, map[string]any{"name": name}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	err := s.planRepo.Delete(ctx, userID, planID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

func (s *planService) UpdateDay(ctx context.Context, userID, planID primitive.ObjectID, dayKey string, update DayUpdate) (*domain.WorkoutPlan, error) {
	plan, err := s.getPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	day := plan.Day(dayKey)
	if day == nil {
		return nil, ErrDayNotFound
	}
	if !domain.IsValidWorkoutType(update.WorkoutType) {
		return nil, ErrValidationFailed
	}

	day.WorkoutType = update.WorkoutType
	day.WorkoutName = update.WorkoutName
	day.Exercises = update.Exercises
	for i := range day.Exercises {
		if day.Exercises[i].ID == "" {
			day.Exercises[i].ID = uuid.NewString()
		}
	}

	if err := s.planRepo.ReplaceSchedule(ctx, userID, planID, plan.Schedule); err != nil {
		return nil, err
	}
	return s.getPlan(ctx, userID, planID)
}

func (s *planService) UpdateExercise(ctx context.Context, userID, planID primitive.ObjectID, dayKey, exerciseID string, update ExerciseUpdate) (*domain.WorkoutPlan, error) {
	plan, err := s.getPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	day := plan.Day(dayKey)
	if day == nil {
		return nil, ErrDayNotFound
	}

	found := false
	for i := range day.Exercises {
		if day.Exercises[i].ID != exerciseID {
			continue
		}
		found = true
		if update.Name != nil {
			day.Exercises[i].Name = *update.Name
		}
		if update.Sets != nil {
			day.Exercises[i].Sets = *update.Sets
		}
		if update.Reps != nil {
			day.Exercises[i].Reps = *update.Reps
		}
		if update.Notes != nil {
			day.Exercises[i].Notes = *update.Notes
		}
		break
	}
	if !found {
		// Tolerated no-op, but observable: an id miss usually means the
		// caller is holding a stale schedule.
		s.logger.Warn("update_exercise target not found, skipping",
			"planId", planID.Hex(), "day", dayKey, "exerciseId", exerciseID)
		return plan, nil
	}

	if err := s.planRepo.ReplaceSchedule(ctx, userID, planID, plan.Schedule); err != nil {
		return nil, err
	}
	return s.getPlan(ctx, userID, planID)
}
