// internal/repository/user_repository.go
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
)

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) UserRepository {
	return &userRepository{
		collection: collection,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewUserAlreadyExistsError()
		}
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewUserNotFoundError()
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewUserNotFoundError()
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}

// ReserveCredits performs a conditional decrement: the filter only matches
// when the balance covers the amount, so concurrent submissions cannot drive
// the balance negative.
func (r *userRepository) ReserveCredits(ctx context.Context, userID string, amount int) error {
	filter := bson.M{
		"userId":  userID,
		"credits": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"credits": -amount, "totalCreditsUsed": amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the user is missing or the balance is short; the caller has
		// already resolved the user, so report insufficient credits.
		return apperrors.NewInsufficientCreditsError(0, amount)
	}
	return nil
}

func (r *userRepository) ReleaseCredits(ctx context.Context, userID string, amount int) error {
	update := bson.M{
		"$inc": bson.M{"credits": amount, "totalCreditsUsed": -amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewUserNotFoundError()
	}
	return nil
}

func (r *userRepository) AddCredits(ctx context.Context, userID string, amount int) error {
	update := bson.M{
		"$inc": bson.M{"credits": amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewUserNotFoundError()
	}
	return nil
}

func (r *userRepository) IncrementTransformationStats(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$inc": bson.M{"totalTransformations": 1},
		"$set": bson.M{"lastTransformationAt": now, "updatedAt": now},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	return err
}

// ApplyPayment is a single atomic update whose filter excludes users that
// already hold the order or payment id in their history, which makes credit
// application exactly-once under duplicated or concurrent delivery.
func (r *userRepository) ApplyPayment(ctx context.Context, userID string, record *models.PaymentRecord) (*models.User, error) {
	filter := bson.M{
		"userId": userID,
		"payments": bson.M{
			"$not": bson.M{
				"$elemMatch": bson.M{
					"$or": []bson.M{
						{"orderId": record.OrderID},
						{"paymentId": record.PaymentID},
					},
				},
			},
		},
	}
	update := bson.M{
		"$inc":  bson.M{"credits": record.Credits},
		"$push": bson.M{"payments": record},
		"$set":  bson.M{"lastPayment": record, "updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		// Distinguish a duplicate from an unknown user.
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return nil, err
		}
		return nil, apperrors.NewPaymentProcessedError()
	}

	return r.GetByUserID(ctx, userID)
}
