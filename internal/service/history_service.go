package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrWorkoutLogNotFound = errors.New("workout log not found")

// parseObjectID converts the hex user id the auth layer provides.
func parseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid object ID")
	}
	return id, nil
}

// HistoryService records and lists completed workouts.
type HistoryService interface {
	LogWorkout(ctx context.Context, userID primitive.ObjectID, entry domain.WorkoutLog) (*domain.WorkoutLog, error)
	GetHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error)
	DeleteEntry(ctx context.Context, userID, id primitive.ObjectID) error
}

// historyService implements HistoryService.
type historyService struct {
	logRepo repository.WorkoutLogRepository
}

// NewHistoryService creates a new workout history service.
func NewHistoryService(logRepo repository.WorkoutLogRepository) HistoryService {
	return &historyService{logRepo: logRepo}
}

func (s *historyService) LogWorkout(ctx context.Context, userID primitive.ObjectID, entry domain.WorkoutLog) (*domain.WorkoutLog, error) {
	if entry.WorkoutName == "" {
		return nil, ErrValidationFailed
	}
	entry.UserID = userID

	id, err := s.logRepo.Create(ctx, &entry)
	if err != nil {
		return nil, err
	}
	return s.logRepo.GetByID(ctx, userID, id)
}

func (s *historyService) GetHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error) {
	return s.logRepo.GetAllForUser(ctx, userID, limit)
}

func (s *historyService) DeleteEntry(ctx context.Context, userID, id primitive.ObjectID) error {
	err := s.logRepo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutLogNotFound
	}
	return err
}
