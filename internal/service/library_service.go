package service

import (
	"alcyxob/fitness-coach/internal/cache"
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrDefaultExerciseProtected: default catalog entries cannot be deleted.
	// Enforced here, not just in the UI.
	ErrDefaultExerciseProtected = errors.New("default exercises cannot be deleted")
)

// LibraryService manages a user's personal exercise catalog. Every write
// invalidates the exercise cache for that user so the next conversational
// turn sees the change.
type LibraryService interface {
	// EnsureSeeded populates an empty library with the default catalog.
	// Idempotent; safe to call on every cold load.
	EnsureSeeded(ctx context.Context, userID primitive.ObjectID) error
	GetAll(ctx context.Context, userID primitive.ObjectID) ([]domain.LibraryExercise, error)
	GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.LibraryExercise, error)
	GetByName(ctx context.Context, userID primitive.ObjectID, name string) (*domain.LibraryExercise, error)
	Search(ctx context.Context, userID primitive.ObjectID, filter domain.ExerciseFilter) ([]domain.LibraryExercise, error)
	Create(ctx context.Context, userID primitive.ObjectID, exercise domain.LibraryExercise) (*domain.LibraryExercise, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, exercise domain.LibraryExercise) (*domain.LibraryExercise, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	// SetMediaKey records the storage object key of the exercise's demo media.
	SetMediaKey(ctx context.Context, userID, id primitive.ObjectID, mediaKey string) error
}

// libraryService implements LibraryService.
type libraryService struct {
	exerciseRepo repository.ExerciseRepository
	cache        cache.ExerciseCache
}

// NewLibraryService creates a new exercise library service.
func NewLibraryService(exerciseRepo repository.ExerciseRepository, exerciseCache cache.ExerciseCache) LibraryService {
	return &libraryService{
		exerciseRepo: exerciseRepo,
		cache:        exerciseCache,
	}
}

func (s *libraryService) EnsureSeeded(ctx context.Context, userID primitive.ObjectID) error {
	count, err := s.exerciseRepo.CountForUser(ctx, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := DefaultExercises(userID)
	if err := s.exerciseRepo.CreateMany(ctx, seed); err != nil {
		return err
	}
	s.cache.Invalidate(userID.Hex())
	return nil
}

func (s *libraryService) GetAll(ctx context.Context, userID primitive.ObjectID) ([]domain.LibraryExercise, error) {
	return s.exerciseRepo.GetAllForUser(ctx, userID)
}

func (s *libraryService) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.LibraryExercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *libraryService) GetByName(ctx context.Context, userID primitive.ObjectID, name string) (*domain.LibraryExercise, error) {
	exercise, err := s.exerciseRepo.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *libraryService) Search(ctx context.Context, userID primitive.ObjectID, filter domain.ExerciseFilter) ([]domain.LibraryExercise, error) {
	if filter.IsZero() {
		return s.exerciseRepo.GetAllForUser(ctx, userID)
	}
	return s.exerciseRepo.Search(ctx, userID, filter)
}

func (s *libraryService) Create(ctx context.Context, userID primitive.ObjectID, exercise domain.LibraryExercise) (*domain.LibraryExercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}
	exercise.UserID = userID
	exercise.IsCustom = true
	exercise.IsDefault = false

	id, err := s.exerciseRepo.Create(ctx, &exercise)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(userID.Hex())
	return s.exerciseRepo.GetByID(ctx, userID, id)
}

func (s *libraryService) Update(ctx context.Context, userID, id primitive.ObjectID, exercise domain.LibraryExercise) (*domain.LibraryExercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}
	existing, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	existing.Name = exercise.Name
	existing.PrimaryMuscles = exercise.PrimaryMuscles
	existing.SecondaryMuscles = exercise.SecondaryMuscles
	existing.EquipmentRequired = exercise.EquipmentRequired
	existing.Difficulty = exercise.Difficulty
	existing.Instructions = exercise.Instructions
	existing.Tips = exercise.Tips

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(userID.Hex())
	return existing, nil
}

func (s *libraryService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	existing, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return ErrDefaultExerciseProtected
	}

	if err := s.exerciseRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	s.cache.Invalidate(userID.Hex())
	return nil
}

func (s *libraryService) SetMediaKey(ctx context.Context, userID, id primitive.ObjectID, mediaKey string) error {
	existing, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	existing.MediaKey = mediaKey
	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		return err
	}
	s.cache.Invalidate(userID.Hex())
	return nil
}
