package service

import (
	"context"
	"strings"
	"testing"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubExerciseRepo is an in-memory ExerciseRepository.
type stubExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.LibraryExercise
}

func newStubExerciseRepo() *stubExerciseRepo {
	return &stubExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.LibraryExercise)}
}

func (r *stubExerciseRepo) Create(ctx context.Context, exercise *domain.LibraryExercise) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	clone := *exercise
	clone.ID = id
	r.exercises[id] = &clone
	return id, nil
}

func (r *stubExerciseRepo) CreateMany(ctx context.Context, exercises []domain.LibraryExercise) error {
	for i := range exercises {
		if _, err := r.Create(ctx, &exercises[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubExerciseRepo) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.LibraryExercise, error) {
	ex, ok := r.exercises[id]
	if !ok || ex.UserID != userID {
		return nil, repository.ErrNotFound
	}
	clone := *ex
	return &clone, nil
}

func (r *stubExerciseRepo) GetByName(ctx context.Context, userID primitive.ObjectID, name string) (*domain.LibraryExercise, error) {
	for _, ex := range r.exercises {
		if ex.UserID == userID && strings.EqualFold(ex.Name, name) {
			clone := *ex
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubExerciseRepo) GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.LibraryExercise, error) {
	var out []domain.LibraryExercise
	for _, ex := range r.exercises {
		if ex.UserID == userID {
			out = append(out, *ex)
		}
	}
	return out, nil
}

func (r *stubExerciseRepo) Search(ctx context.Context, userID primitive.ObjectID, filter domain.ExerciseFilter) ([]domain.LibraryExercise, error) {
	all, _ := r.GetAllForUser(ctx, userID)
	var out []domain.LibraryExercise
	for _, ex := range all {
		if filter.Difficulty != "" && ex.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(ex.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, ex)
	}
	return out, nil
}

func (r *stubExerciseRepo) CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for _, ex := range r.exercises {
		if ex.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubExerciseRepo) Update(ctx context.Context, exercise *domain.LibraryExercise) error {
	existing, ok := r.exercises[exercise.ID]
	if !ok || existing.UserID != exercise.UserID {
		return repository.ErrNotFound
	}
	clone := *exercise
	r.exercises[exercise.ID] = &clone
	return nil
}

func (r *stubExerciseRepo) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	ex, ok := r.exercises[id]
	if !ok || ex.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

// recordingCache counts invalidations; the rest of the interface is unused by
// the library service.
type recordingCache struct {
	invalidations []string
}

func (c *recordingCache) Get(userID string) ([]domain.LibraryExercise, string, bool) {
	return nil, "", false
}
func (c *recordingCache) Put(userID string, exercises []domain.LibraryExercise) string { return "" }
func (c *recordingCache) Resolve(userID string, exercises []domain.LibraryExercise, clientHash string) (string, bool) {
	return "", false
}
func (c *recordingCache) Invalidate(userID string) {
	c.invalidations = append(c.invalidations, userID)
}

func TestEnsureSeededPopulatesEmptyLibrary(t *testing.T) {
	repo := newStubExerciseRepo()
	cache := &recordingCache{}
	s := NewLibraryService(repo, cache)
	userID := primitive.NewObjectID()

	require.NoError(t, s.EnsureSeeded(context.Background(), userID))

	all, err := s.GetAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultExercises(userID)))
	for _, ex := range all {
		assert.True(t, ex.IsDefault)
		assert.False(t, ex.IsCustom)
	}
	assert.Len(t, cache.invalidations, 1, "seeding is a library write")
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	repo := newStubExerciseRepo()
	s := NewLibraryService(repo, &recordingCache{})
	userID := primitive.NewObjectID()

	require.NoError(t, s.EnsureSeeded(context.Background(), userID))
	require.NoError(t, s.EnsureSeeded(context.Background(), userID))

	all, err := s.GetAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultExercises(userID)), "a second seed must not duplicate the catalog")
}

func TestEnsureSeededSkipsNonEmptyLibrary(t *testing.T) {
	repo := newStubExerciseRepo()
	s := NewLibraryService(repo, &recordingCache{})
	userID := primitive.NewObjectID()

	_, err := s.Create(context.Background(), userID, domain.LibraryExercise{
		Name:           "My Exercise",
		PrimaryMuscles: []domain.MuscleGroup{domain.MuscleCore},
		Difficulty:     domain.DifficultyBeginner,
	})
	require.NoError(t, err)

	require.NoError(t, s.EnsureSeeded(context.Background(), userID))

	all, err := s.GetAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, all, 1, "any existing exercise suppresses seeding")
}

func TestCreateMarksCustomAndInvalidates(t *testing.T) {
	repo := newStubExerciseRepo()
	cache := &recordingCache{}
	s := NewLibraryService(repo, cache)
	userID := primitive.NewObjectID()

	created, err := s.Create(context.Background(), userID, domain.LibraryExercise{
		Name:           "Nordic Curl",
		PrimaryMuscles: []domain.MuscleGroup{domain.MuscleLegs},
		Difficulty:     domain.DifficultyAdvanced,
		IsDefault:      true, // caller cannot smuggle default status in
	})
	require.NoError(t, err)
	assert.True(t, created.IsCustom)
	assert.False(t, created.IsDefault)
	assert.Equal(t, []string{userID.Hex()}, cache.invalidations)
}

func TestCreateRequiresName(t *testing.T) {
	s := NewLibraryService(newStubExerciseRepo(), &recordingCache{})
	_, err := s.Create(context.Background(), primitive.NewObjectID(), domain.LibraryExercise{})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestDeleteProtectsDefaults(t *testing.T) {
	repo := newStubExerciseRepo()
	cache := &recordingCache{}
	s := NewLibraryService(repo, cache)
	userID := primitive.NewObjectID()

	require.NoError(t, s.EnsureSeeded(context.Background(), userID))
	all, err := s.GetAll(context.Background(), userID)
	require.NoError(t, err)

	err = s.Delete(context.Background(), userID, all[0].ID)
	assert.ErrorIs(t, err, ErrDefaultExerciseProtected)

	remaining, err := s.GetAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, remaining, len(all))
}

func TestDeleteRemovesCustomExercise(t *testing.T) {
	repo := newStubExerciseRepo()
	cache := &recordingCache{}
	s := NewLibraryService(repo, cache)
	userID := primitive.NewObjectID()

	created, err := s.Create(context.Background(), userID, domain.LibraryExercise{
		Name:           "Nordic Curl",
		PrimaryMuscles: []domain.MuscleGroup{domain.MuscleLegs},
		Difficulty:     domain.DifficultyAdvanced,
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), userID, created.ID))
	_, err = s.GetByID(context.Background(), userID, created.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	assert.Len(t, cache.invalidations, 2, "create and delete both invalidate")
}

func TestUpdateReplacesFieldsAndInvalidates(t *testing.T) {
	repo := newStubExerciseRepo()
	cache := &recordingCache{}
	s := NewLibraryService(repo, cache)
	userID := primitive.NewObjectID()

	created, err := s.Create(context.Background(), userID, domain.LibraryExercise{
		Name:           "Nordic Curl",
		PrimaryMuscles: []domain.MuscleGroup{domain.MuscleLegs},
		Difficulty:     domain.DifficultyAdvanced,
	})
	require.NoError(t, err)

	updated, err := s.Update(context.Background(), userID, created.ID, domain.LibraryExercise{
		Name:           "Nordic Hamstring Curl",
		PrimaryMuscles: []domain.MuscleGroup{domain.MuscleLegs},
		Difficulty:     domain.DifficultyIntermediate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nordic Hamstring Curl", updated.Name)
	assert.Equal(t, domain.DifficultyIntermediate, updated.Difficulty)
	assert.True(t, updated.IsCustom, "custom flag survives updates")
	assert.Len(t, cache.invalidations, 2)
}

func TestSetMediaKey(t *testing.T) {
	repo := newStubExerciseRepo()
	cache := &recordingCache{}
	s := NewLibraryService(repo, cache)
	userID := primitive.NewObjectID()

	created, err := s.Create(context.Background(), userID, domain.LibraryExercise{
		Name:           "Nordic Curl",
		PrimaryMuscles: []domain.MuscleGroup{domain.MuscleLegs},
		Difficulty:     domain.DifficultyAdvanced,
	})
	require.NoError(t, err)

	require.NoError(t, s.SetMediaKey(context.Background(), userID, created.ID, "exercises/key-1"))

	got, err := s.GetByID(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "exercises/key-1", got.MediaKey)
}

func TestLibraryIsScopedPerUser(t *testing.T) {
	repo := newStubExerciseRepo()
	s := NewLibraryService(repo, &recordingCache{})
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	created, err := s.Create(context.Background(), alice, domain.LibraryExercise{
		Name:           "Nordic Curl",
		PrimaryMuscles: []domain.MuscleGroup{domain.MuscleLegs},
		Difficulty:     domain.DifficultyAdvanced,
	})
	require.NoError(t, err)

	_, err = s.GetByID(context.Background(), bob, created.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
