package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type passPinRepository struct {
	*BaseRepository
}

// NewPassPinRepository creates a new pass pin repository
func NewPassPinRepository(mongodb *MongoDB) PassPinRepository {
	return &passPinRepository{
		BaseRepository: NewBaseRepository(mongodb, "passpin_tokens"),
	}
}

// Create stores a hashed pin
func (r *passPinRepository) Create(ctx context.Context, pin *models.PassPin) error {
	pin.ID = primitive.NewObjectID()
	pin.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, pin); err != nil {
		return fmt.Errorf("failed to create pass pin: %w", err)
	}
	return nil
}

// Redeem marks a matching unused, unexpired pin as used and returns
// it. FindOneAndUpdate makes select-and-mark a single atomic step, so
// two concurrent redemptions of the same plaintext cannot both
// succeed: the loser sees no matching row and gets
// pkg.ErrPinInvalidOrExpired.
func (r *passPinRepository) Redeem(ctx context.Context, userID primitive.ObjectID, hashedToken string, now time.Time) (*models.PassPin, error) {
	filter := bson.M{
		"user_id":    userID,
		"token":      hashedToken,
		"used":       false,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"used": true}}

	var pin models.PassPin
	err := r.collection.FindOneAndUpdate(ctx, filter, update).Decode(&pin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, pkg.ErrPinInvalidOrExpired
		}
		return nil, fmt.Errorf("failed to redeem pass pin: %w", err)
	}

	return &pin, nil
}

// DeleteUsed removes redeemed pins
func (r *passPinRepository) DeleteUsed(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"used": true})
	if err != nil {
		return 0, fmt.Errorf("failed to delete used pins: %w", err)
	}
	return result.DeletedCount, nil
}
