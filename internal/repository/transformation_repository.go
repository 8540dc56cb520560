// internal/repository/transformation_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"styleforge-backend/internal/models"
	apperrors "styleforge-backend/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type transformationRepository struct {
	collection *mongo.Collection
}

func NewTransformationRepository(collection *mongo.Collection) TransformationRepository {
	return &transformationRepository{
		collection: collection,
	}
}

func (r *transformationRepository) Create(ctx context.Context, t *models.Transformation) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.StartedAt = &now
	if t.Status == "" {
		t.Status = models.TransformationProcessing
	}
	if t.TransformedImageURLs == nil {
		t.TransformedImageURLs = []string{}
	}
	if t.TransformedImagePaths == nil {
		t.TransformedImagePaths = []string{}
	}

	result, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		return err
	}

	t.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *transformationRepository) GetByID(ctx context.Context, id string) (*models.Transformation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewTransformationNotFoundError()
	}

	var t models.Transformation
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewTransformationNotFoundError()
		}
		return nil, err
	}
	return &t, nil
}

func (r *transformationRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Transformation, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	transformations := []models.Transformation{}
	if err = cursor.All(ctx, &transformations); err != nil {
		return nil, err
	}
	return transformations, nil
}

// MarkCompleted only matches records still in "processing", so a duplicate
// webhook delivery cannot overwrite a terminal state or its image URLs.
func (r *transformationRepository) MarkCompleted(ctx context.Context, id string, imageURLs []string, apiResponse interface{}, processingTimeMs int64) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.NewTransformationNotFoundError()
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": oid, "status": models.TransformationProcessing}
	update := bson.M{
		"$set": bson.M{
			"status":               models.TransformationCompleted,
			"transformedImageUrls": imageURLs,
			"apiResponse":          apiResponse,
			"completedAt":          now,
			"processingTime":       processingTimeMs,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *transformationRepository) MarkFailed(ctx context.Context, id string, errorMessage string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.NewTransformationNotFoundError()
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": oid, "status": models.TransformationProcessing}
	update := bson.M{
		"$set": bson.M{
			"status":       models.TransformationFailed,
			"errorMessage": errorMessage,
			"failedAt":     now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}
