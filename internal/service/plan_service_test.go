package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubPlanRepo is an in-memory PlanRepository with the same activation
// semantics as the Mongo implementation.
type stubPlanRepo struct {
	plans            map[primitive.ObjectID]*domain.WorkoutPlan
	replaceCalls     int
	lastReplacedWith []domain.DaySchedule
}

func newStubPlanRepo() *stubPlanRepo {
	return &stubPlanRepo{plans: make(map[primitive.ObjectID]*domain.WorkoutPlan)}
}

func (r *stubPlanRepo) deactivateOthers(userID, except primitive.ObjectID) {
	for id, p := range r.plans {
		if p.UserID == userID && p.IsActive && id != except {
			p.IsActive = false
			p.Status = domain.PlanPaused
			now := time.Now()
			p.PausedAt = &now
		}
	}
}

func (r *stubPlanRepo) CreateActive(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	clone := *plan
	clone.ID = id
	clone.Status = domain.PlanActive
	clone.IsActive = true
	clone.CreatedAt = time.Now()
	r.deactivateOthers(plan.UserID, id)
	r.plans[id] = &clone
	return id, nil
}

func (r *stubPlanRepo) Activate(ctx context.Context, userID, planID primitive.ObjectID, set map[string]any) error {
	plan, ok := r.plans[planID]
	if !ok || plan.UserID != userID {
		return repository.ErrNotFound
	}
	r.deactivateOthers(userID, planID)
	plan.Status = domain.PlanActive
	plan.IsActive = true
	applySet(plan, set)
	return nil
}

func (r *stubPlanRepo) GetByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, ok := r.plans[planID]
	if !ok || plan.UserID != userID {
		return nil, repository.ErrNotFound
	}
	clone := *plan
	return &clone, nil
}

func (r *stubPlanRepo) GetActiveForUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	for _, p := range r.plans {
		if p.UserID == userID && p.IsActive {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubPlanRepo) GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPlanRepo) Update(ctx context.Context, userID, planID primitive.ObjectID, set map[string]any) error {
	plan, ok := r.plans[planID]
	if !ok || plan.UserID != userID {
		return repository.ErrNotFound
	}
	applySet(plan, set)
	return nil
}

func (r *stubPlanRepo) ReplaceSchedule(ctx context.Context, userID, planID primitive.ObjectID, schedule []domain.DaySchedule) error {
	plan, ok := r.plans[planID]
	if !ok || plan.UserID != userID {
		return repository.ErrNotFound
	}
	r.replaceCalls++
	r.lastReplacedWith = schedule
	plan.Schedule = schedule
	return nil
}

func (r *stubPlanRepo) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	plan, ok := r.plans[planID]
	if !ok || plan.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.plans, planID)
	return nil
}

func applySet(p *domain.WorkoutPlan, set map[string]any) {
	for k, v := range set {
		switch k {
		case "status":
			p.Status = v.(domain.PlanStatus)
		case "isActive":
			p.IsActive = v.(bool)
		case "name":
			p.Name = v.(string)
		case "validUntil":
			p.ValidUntil = v.(time.Time)
		case "originalValidUntil":
			t := v.(time.Time)
			p.OriginalValidUntil = &t
		case "pausedAt":
			p.PausedAt = timePtr(v)
		case "resumedAt":
			p.ResumedAt = timePtr(v)
		case "archivedAt":
			p.ArchivedAt = timePtr(v)
		case "extendedAt":
			p.ExtendedAt = timePtr(v)
		}
	}
}

func timePtr(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := v.(time.Time)
	return &t
}

func weekSchedule() []domain.DaySchedule {
	days := make([]domain.DaySchedule, 0, 7)
	for _, d := range domain.WeekDays {
		day := domain.DaySchedule{DayOfWeek: d, WorkoutType: domain.WorkoutRest, WorkoutName: "Rest"}
		if d == domain.Monday {
			day.WorkoutType = domain.WorkoutUpperBody
			day.WorkoutName = "Push Day"
			day.Exercises = []domain.PlanExercise{
				{ID: "ex-1", Name: "Bench Press", Sets: 3, Reps: 8},
				{ID: "ex-2", Name: "Overhead Press", Sets: 3, Reps: 10},
			}
		}
		days = append(days, day)
	}
	return days
}

func newTestPlanService(repo *stubPlanRepo, now time.Time) *planService {
	s := NewPlanService(repo, nil).(*planService)
	s.now = func() time.Time { return now }
	return s
}

func TestCreatePlanDefaultsToFourWeeks(t *testing.T) {
	repo := newStubPlanRepo()
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	s := newTestPlanService(repo, now)
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Base Plan", weekSchedule(), 0, "coach-ai")
	require.NoError(t, err)
	assert.Equal(t, now.Add(4*week), plan.ValidUntil)
	assert.Equal(t, domain.PlanActive, plan.Status)
	assert.True(t, plan.IsActive)
	assert.Equal(t, now, plan.StartedAt)
}

func TestCreatePlanPausesPreviousActive(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	first, err := s.CreatePlan(context.Background(), userID, "First", weekSchedule(), 4, "coach-ai")
	require.NoError(t, err)

	second, err := s.CreatePlan(context.Background(), userID, "Second", weekSchedule(), 4, "coach-ai")
	require.NoError(t, err)
	assert.True(t, second.IsActive)

	reloaded, err := s.GetPlan(context.Background(), userID, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, domain.PlanPaused, reloaded.Status)

	active, err := s.GetActivePlan(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestCreatePlanRejectsBadSchedule(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	_, err := s.CreatePlan(context.Background(), userID, "Short", weekSchedule()[:6], 4, "")
	assert.ErrorIs(t, err, ErrValidationFailed)

	dup := weekSchedule()
	dup[1].DayOfWeek = domain.Monday
	_, err = s.CreatePlan(context.Background(), userID, "Dup", dup, 4, "")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreatePlanAssignsMissingExerciseIDs(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	schedule := weekSchedule()
	schedule[0].Exercises[0].ID = ""

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", schedule, 4, "")
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Schedule[0].Exercises[0].ID)
}

func TestPauseIsIdempotent(t *testing.T) {
	repo := newStubPlanRepo()
	now := time.Now()
	s := newTestPlanService(repo, now)
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)

	paused, err := s.Pause(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPaused, paused.Status)
	assert.False(t, paused.IsActive)
	require.NotNil(t, paused.PausedAt)
	firstPause := *paused.PausedAt

	s.now = func() time.Time { return now.Add(time.Hour) }
	again, err := s.Pause(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, again.PausedAt)
	assert.Equal(t, firstPause, *again.PausedAt, "pausing a paused plan must not re-stamp pausedAt")
}

func TestResumeReactivatesAndClearsPausedAt(t *testing.T) {
	repo := newStubPlanRepo()
	now := time.Now()
	s := newTestPlanService(repo, now)
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)
	_, err = s.Pause(context.Background(), userID, plan.ID)
	require.NoError(t, err)

	resumed, err := s.Resume(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.True(t, resumed.IsActive)
	assert.Equal(t, domain.PlanActive, resumed.Status)
	assert.Nil(t, resumed.PausedAt)
	assert.NotNil(t, resumed.ResumedAt)
	assert.Equal(t, plan.ValidUntil, resumed.ValidUntil, "resuming an unexpired plan must not change validity")
}

func TestResumeExpiredPlanExtendsOneWeek(t *testing.T) {
	repo := newStubPlanRepo()
	created := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	s := newTestPlanService(repo, created)
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 1, "")
	require.NoError(t, err)
	originalValidity := plan.ValidUntil

	// Two weeks later the plan is a week past its validity date.
	later := created.Add(2 * week)
	s.now = func() time.Time { return later }

	resumed, err := s.Resume(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, later.Add(week), resumed.ValidUntil)
	require.NotNil(t, resumed.OriginalValidUntil)
	assert.Equal(t, originalValidity, *resumed.OriginalValidUntil)
	assert.NotNil(t, resumed.ExtendedAt)
}

func TestResumePausesOtherActivePlan(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	first, err := s.CreatePlan(context.Background(), userID, "First", weekSchedule(), 4, "")
	require.NoError(t, err)
	second, err := s.CreatePlan(context.Background(), userID, "Second", weekSchedule(), 4, "")
	require.NoError(t, err)

	_, err = s.Resume(context.Background(), userID, first.ID)
	require.NoError(t, err)

	reloaded, err := s.GetPlan(context.Background(), userID, second.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive, "at most one plan may be active")
}

func TestArchiveAndRestore(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)

	archived, err := s.Archive(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanArchived, archived.Status)
	assert.False(t, archived.IsActive)
	assert.NotNil(t, archived.ArchivedAt)

	restored, err := s.Restore(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, restored.Status)
	assert.True(t, restored.IsActive)
	assert.Nil(t, restored.ArchivedAt)
}

func TestArchivedPlanOnlyReactivatesThroughRestore(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)
	_, err = s.Archive(context.Background(), userID, plan.ID)
	require.NoError(t, err)

	_, err = s.Resume(context.Background(), userID, plan.ID)
	assert.ErrorIs(t, err, ErrPlanArchived)
	_, err = s.Pause(context.Background(), userID, plan.ID)
	assert.ErrorIs(t, err, ErrPlanArchived)

	// The rejected transitions leave the archive state intact.
	got, err := s.GetPlan(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanArchived, got.Status)
	assert.False(t, got.IsActive)
	assert.NotNil(t, got.ArchivedAt)

	restored, err := s.Restore(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, restored.Status)
	assert.Nil(t, restored.ArchivedAt)
}

func TestExtendPreservesOriginalDateOnFirstExtensionOnly(t *testing.T) {
	repo := newStubPlanRepo()
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	s := newTestPlanService(repo, now)
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)
	originalValidity := plan.ValidUntil

	extended, err := s.Extend(context.Background(), userID, plan.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, originalValidity.Add(2*week), extended.ValidUntil)
	require.NotNil(t, extended.OriginalValidUntil)
	assert.Equal(t, originalValidity, *extended.OriginalValidUntil)

	extendedAgain, err := s.Extend(context.Background(), userID, plan.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, originalValidity.Add(3*week), extendedAgain.ValidUntil)
	require.NotNil(t, extendedAgain.OriginalValidUntil)
	assert.Equal(t, originalValidity, *extendedAgain.OriginalValidUntil,
		"later extensions must not overwrite the original validity date")
}

func TestExtendRejectsNonPositiveWeeks(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)

	_, err = s.Extend(context.Background(), userID, plan.ID, 0)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestUpdateDayTouchesOnlyThatDay(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)
	before := plan.Schedule

	updated, err := s.UpdateDay(context.Background(), userID, plan.ID, "Wednesday", DayUpdate{
		WorkoutType: domain.WorkoutCardio,
		WorkoutName: "Intervals",
		Exercises:   []domain.PlanExercise{{Name: "Sprints", Sets: 6, Reps: 1}},
	})
	require.NoError(t, err)

	wednesday := updated.Day("wednesday")
	require.NotNil(t, wednesday)
	assert.Equal(t, domain.WorkoutCardio, wednesday.WorkoutType)
	assert.Equal(t, "Intervals", wednesday.WorkoutName)
	require.Len(t, wednesday.Exercises, 1)
	assert.NotEmpty(t, wednesday.Exercises[0].ID, "new exercises get generated ids")

	for _, d := range []domain.DayOfWeek{domain.Monday, domain.Tuesday, domain.Thursday, domain.Friday, domain.Saturday, domain.Sunday} {
		got := updated.Day(string(d))
		want := before[indexOfDay(before, d)]
		assert.Equal(t, want.WorkoutType, got.WorkoutType, "day %s must be untouched", d)
		assert.Equal(t, want.WorkoutName, got.WorkoutName, "day %s must be untouched", d)
	}
}

func indexOfDay(schedule []domain.DaySchedule, d domain.DayOfWeek) int {
	for i := range schedule {
		if schedule[i].DayOfWeek == d {
			return i
		}
	}
	return -1
}

func TestUpdateDayUnknownDay(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)

	_, err = s.UpdateDay(context.Background(), userID, plan.ID, "someday", DayUpdate{WorkoutType: domain.WorkoutRest})
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestUpdateExerciseMergesFields(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)

	sets := 5
	name := "Incline Bench Press"
	updated, err := s.UpdateExercise(context.Background(), userID, plan.ID, "monday", "ex-1", ExerciseUpdate{
		Name: &name,
		Sets: &sets,
	})
	require.NoError(t, err)

	monday := updated.Day("monday")
	require.NotNil(t, monday)
	assert.Equal(t, "Incline Bench Press", monday.Exercises[0].Name)
	assert.Equal(t, 5, monday.Exercises[0].Sets)
	assert.Equal(t, 8, monday.Exercises[0].Reps, "unset fields stay as they were")
	assert.Equal(t, "Overhead Press", monday.Exercises[1].Name, "sibling exercises stay untouched")
}

func TestUpdateExerciseUnknownIDIsSilentNoOp(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)
	repo.replaceCalls = 0

	sets := 9
	got, err := s.UpdateExercise(context.Background(), userID, plan.ID, "monday", "no-such-id", ExerciseUpdate{Sets: &sets})
	require.NoError(t, err, "an unknown exercise id is tolerated, not an error")
	assert.Equal(t, 0, repo.replaceCalls, "nothing is written on a miss")
	assert.Equal(t, 3, got.Day("monday").Exercises[0].Sets)
}

func TestRenameAndDelete(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())
	userID := primitive.NewObjectID()

	plan, err := s.CreatePlan(context.Background(), userID, "Plan", weekSchedule(), 4, "")
	require.NoError(t, err)

	_, err = s.Rename(context.Background(), userID, plan.ID, "")
	assert.ErrorIs(t, err, ErrValidationFailed)

	renamed, err := s.Rename(context.Background(), userID, plan.ID, "Hypertrophy Block")
	require.NoError(t, err)
	assert.Equal(t, "Hypertrophy Block", renamed.Name)

	require.NoError(t, s.Delete(context.Background(), userID, plan.ID))
	err = s.Delete(context.Background(), userID, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestGetActivePlanNotFound(t *testing.T) {
	repo := newStubPlanRepo()
	s := newTestPlanService(repo, time.Now())

	_, err := s.GetActivePlan(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestEffectiveStatusDerivesExpiry(t *testing.T) {
	now := time.Now()
	plan := &domain.WorkoutPlan{Status: domain.PlanActive, ValidUntil: now.Add(-time.Hour)}
	assert.Equal(t, domain.PlanExpired, plan.EffectiveStatus(now))
	assert.Equal(t, domain.PlanActive, plan.Status, "expiry is derived, never stored")

	archived := &domain.WorkoutPlan{Status: domain.PlanArchived, ValidUntil: now.Add(-time.Hour)}
	assert.Equal(t, domain.PlanArchived, archived.EffectiveStatus(now))
}
