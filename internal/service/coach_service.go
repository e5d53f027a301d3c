package service

import (
	"alcyxob/fitness-coach/internal/ai"
	"alcyxob/fitness-coach/internal/cache"
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachTurn is the outcome of one conversational turn, including the library
// fingerprint echoed back so the client can skip resending an unchanged
// catalog next turn.
type CoachTurn struct {
	Message     string
	Actions     []ai.ToolAction
	LibraryHash string
	FromCache   bool
}

// CoachService assembles and runs one conversational coaching turn: current
// plan and library feed the system prompt, the orchestrator handles the
// model protocol, and write-tool actions come back for client-side execution.
type CoachService interface {
	Converse(ctx context.Context, userID primitive.ObjectID, transcript []ai.Message, clientHash string) (*CoachTurn, error)
}

// coachService implements CoachService.
type coachService struct {
	userRepo     repository.UserRepository
	planService  PlanService
	library      LibraryService
	cache        cache.ExerciseCache
	orchestrator *ai.Orchestrator
	logger       *slog.Logger
	now          func() time.Time
}

// NewCoachService creates a new conversational coaching service.
func NewCoachService(
	userRepo repository.UserRepository,
	planService PlanService,
	library LibraryService,
	exerciseCache cache.ExerciseCache,
	orchestrator *ai.Orchestrator,
	logger *slog.Logger,
) CoachService {
	if logger == nil {
		logger = slog.Default()
	}
	return &coachService{
		userRepo:     userRepo,
		planService:  planService,
		library:      library,
		cache:        exerciseCache,
		orchestrator: orchestrator,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *coachService) Converse(ctx context.Context, userID primitive.ObjectID, transcript []ai.Message, clientHash string) (*CoachTurn, error) {
	if len(transcript) == 0 {
		return nil, ErrValidationFailed
	}

	if err := s.library.EnsureSeeded(ctx, userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plan, err := s.planService.GetActivePlan(ctx, userID)
	if err != nil && !errors.Is(err, ErrPlanNotFound) {
		return nil, err
	}

	exercises, fromCache, err := s.loadLibrary(ctx, userID)
	if err != nil {
		return nil, err
	}
	hash, cacheHit := s.cache.Resolve(userID.Hex(), exercises, clientHash)

	system := ai.BuildSystemPrompt(user, plan, exercises, s.now())

	result, err := s.orchestrator.RunTurn(ctx, system, transcript, exercises)
	if err != nil {
		return nil, err
	}

	return &CoachTurn{
		Message:     result.AssistantMessage,
		Actions:     result.Actions,
		LibraryHash: hash,
		FromCache:   fromCache && cacheHit,
	}, nil
}

// loadLibrary prefers the cache and falls back to the store. A cache miss is
// never an error; worst case the turn carries the full catalog.
func (s *coachService) loadLibrary(ctx context.Context, userID primitive.ObjectID) ([]domain.LibraryExercise, bool, error) {
	if exercises, _, ok := s.cache.Get(userID.Hex()); ok {
		return exercises, true, nil
	}
	exercises, err := s.library.GetAll(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return exercises, false, nil
}
