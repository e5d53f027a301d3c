package mongo

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "workout_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new workout plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// stampNew assigns identity and timestamps to a plan about to be inserted.
func stampNew(plan *domain.WorkoutPlan) {
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.StartedAt.IsZero() {
		plan.StartedAt = now
	}
}

// isTransient reports whether err is a transient transaction error that the
// caller should retry as a whole.
func isTransient(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}

// deactivateOthers pauses every active plan of the user except excludeID.
// Must run inside the session the caller opened.
func (r *mongoPlanRepository) deactivateOthers(ctx context.Context, userID, excludeID primitive.ObjectID) error {
	now := time.Now().UTC()
	filter := bson.M{
		"userId":   userID,
		"isActive": true,
		"_id":      bson.M{"$ne": excludeID},
	}
	update := bson.M{"$set": bson.M{
		"isActive":  false,
		"status":    domain.PlanPaused,
		"pausedAt":  now,
		"updatedAt": now,
	}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// CreateActive inserts the plan as the user's single active plan. Any plan
// that was active before is paused in the same transaction, so two racing
// creates (or a create racing a resume) cannot both win.
func (r *mongoPlanRepository) CreateActive(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires userId and name")
	}
	stampNew(plan)
	plan.Status = domain.PlanActive
	plan.IsActive = true

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := r.deactivateOthers(sc, plan.UserID, plan.ID); err != nil {
			return nil, err
		}
		return r.collection.InsertOne(sc, plan)
	})
	if err != nil {
		if isTransient(err) {
			return primitive.NilObjectID, repository.ErrConcurrencyConflict
		}
		return primitive.NilObjectID, err
	}
	return plan.ID, nil
}

// Activate marks the target plan active (applying set on top) and pauses all
// other active plans for the user, atomically.
func (r *mongoPlanRepository) Activate(ctx context.Context, userID, planID primitive.ObjectID, set map[string]any) error {
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	now := time.Now().UTC()
	fields := bson.M{
		"isActive":  true,
		"status":    domain.PlanActive,
		"updatedAt": now,
	}
	for k, v := range set {
		fields[k] = v
	}

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := r.deactivateOthers(sc, userID, planID); err != nil {
			return nil, err
		}
		result, err := r.collection.UpdateOne(sc,
			bson.M{"_id": planID, "userId": userID},
			bson.M{"$set": fields},
		)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, repository.ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		if isTransient(err) {
			return repository.ErrConcurrencyConflict
		}
		return err
	}
	return nil
}

// GetByID retrieves a single plan, scoped to its owner.
func (r *mongoPlanRepository) GetByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	filter := bson.M{"_id": planID, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetActiveForUser returns the user's single active plan, or ErrNotFound.
func (r *mongoPlanRepository) GetActiveForUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	filter := bson.M{"userId": userID, "isActive": true}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetAllForUser retrieves all plans for a user, newest first.
func (r *mongoPlanRepository) GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	// Empty slice when no plans found (not an error)
	return plans, nil
}

// Update applies a partial field update to one plan, always bumping updatedAt.
func (r *mongoPlanRepository) Update(ctx context.Context, userID, planID primitive.ObjectID, set map[string]any) error {
	if planID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}
	fields := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		fields[k] = v
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": planID, "userId": userID},
		bson.M{"$set": fields},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceSchedule overwrites the plan's full 7-day schedule.
func (r *mongoPlanRepository) ReplaceSchedule(ctx context.Context, userID, planID primitive.ObjectID, schedule []domain.DaySchedule) error {
	return r.Update(ctx, userID, planID, map[string]any{"schedule": schedule})
}

// Delete hard-removes a plan. The filter scopes to the owner, so a user
// cannot delete another user's plan.
func (r *mongoPlanRepository) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	if planID == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("plan ID and user ID are required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": planID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: the user's single active plan
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
