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

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new workout history repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// Create inserts a completed-workout entry.
func (r *mongoWorkoutLogRepository) Create(ctx context.Context, entry *domain.WorkoutLog) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout log requires userId")
	}

	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = now
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single history entry, scoped to its owner.
func (r *mongoWorkoutLogRepository) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	var entry domain.WorkoutLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetAllForUser retrieves history entries, most recent first. A limit of 0
// means no limit.
func (r *mongoWorkoutLogRepository) GetAllForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutLog, error) {
	var entries []domain.WorkoutLog
	findOptions := options.Find().SetSort(bson.D{{Key: "performedAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes a history entry, scoped to its owner.
func (r *mongoWorkoutLogRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutLogIndexes creates necessary indexes for the history collection.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "performedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
