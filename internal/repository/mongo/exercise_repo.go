package mongo

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "library_exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new exercise library repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new library exercise.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.LibraryExercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise name and user ID are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// CreateMany bulk-inserts exercises. Used by the default catalog seeding.
func (r *mongoExerciseRepository) CreateMany(ctx context.Context, exercises []domain.LibraryExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(exercises))
	for i := range exercises {
		exercises[i].ID = primitive.NewObjectID()
		exercises[i].CreatedAt = now
		exercises[i].UpdatedAt = now
		docs = append(docs, exercises[i])
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves an exercise by its ID, scoped to its owner.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, userID, id primitive.ObjectID) (*domain.LibraryExercise, error) {
	var exercise domain.LibraryExercise
	filter := bson.M{"_id": id, "userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByName retrieves an exercise by exact name, case-insensitive.
func (r *mongoExerciseRepository) GetByName(ctx context.Context, userID primitive.ObjectID, name string) (*domain.LibraryExercise, error) {
	var exercise domain.LibraryExercise
	filter := bson.M{
		"userId": userID,
		"name":   primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"},
	}

	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetAllForUser retrieves the user's full library, sorted by name.
func (r *mongoExerciseRepository) GetAllForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.LibraryExercise, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// Search applies the filter fields with logical AND. Zero-valued fields are
// skipped; name matches as a case-insensitive substring.
func (r *mongoExerciseRepository) Search(ctx context.Context, userID primitive.ObjectID, filter domain.ExerciseFilter) ([]domain.LibraryExercise, error) {
	query := bson.M{"userId": userID}
	if filter.MuscleGroup != "" {
		// Matches either primary or secondary target
		query["$or"] = bson.A{
			bson.M{"primaryMuscles": filter.MuscleGroup},
			bson.M{"secondaryMuscles": filter.MuscleGroup},
		}
	}
	if filter.Equipment != "" {
		query["equipmentRequired"] = filter.Equipment
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.Name != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Name), Options: "i"}
	}
	return r.find(ctx, query)
}

func (r *mongoExerciseRepository) find(ctx context.Context, query bson.M) ([]domain.LibraryExercise, error) {
	var exercises []domain.LibraryExercise
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// CountForUser returns the number of exercises in the user's library.
func (r *mongoExerciseRepository) CountForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// Update modifies an existing exercise. The owner is never changed.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.LibraryExercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}
	if exercise.Name == "" {
		return errors.New("exercise name cannot be empty")
	}

	filter := bson.M{"_id": exercise.ID, "userId": exercise.UserID}
	update := bson.M{
		"$set": bson.M{
			"name":              exercise.Name,
			"primaryMuscles":    exercise.PrimaryMuscles,
			"secondaryMuscles":  exercise.SecondaryMuscles,
			"equipmentRequired": exercise.EquipmentRequired,
			"difficulty":        exercise.Difficulty,
			"instructions":      exercise.Instructions,
			"tips":              exercise.Tips,
			"mediaKey":          exercise.MediaKey,
			"updatedAt":         time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise, scoped to its owner.
func (r *mongoExerciseRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureExerciseIndexes creates necessary indexes for the library collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "difficulty", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
