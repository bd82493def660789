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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collaborationRepository struct {
	*BaseRepository
}

// NewCollaborationRepository creates a new collaboration repository
func NewCollaborationRepository(mongodb *MongoDB) CollaborationRepository {
	return &collaborationRepository{
		BaseRepository: NewBaseRepository(mongodb, "collaborations"),
	}
}

// Create inserts a pending request. A duplicate insert for the same
// (folder, user) hits the unique index and is swallowed: repeated
// requests are idempotent no-ops. Any other failure surfaces.
func (r *collaborationRepository) Create(ctx context.Context, collab *models.Collaboration) error {
	collab.ID = primitive.NewObjectID()
	collab.Status = models.CollaborationPending
	collab.CreatedAt = time.Now()
	collab.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, collab)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to create collaboration: %w", err)
	}
	return nil
}

// GetByID retrieves a collaboration by ID
func (r *collaborationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Collaboration, error) {
	var collab models.Collaboration
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&collab)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, pkg.ErrCollaborationNotFound
		}
		return nil, fmt.Errorf("failed to get collaboration by ID: %w", err)
	}

	return &collab, nil
}

// UpdateStatus moves a pending collaboration to a new status. The
// filter requires the pending state, so a row that already reached a
// terminal status never matches and a racing second response fails
// instead of overwriting the first.
func (r *collaborationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.CollaborationStatus) error {
	filter := bson.M{"_id": id, "status": models.CollaborationPending}
	notPending := pkg.ErrInvalidRequest.WithDetails(map[string]interface{}{
		"reason": "collaboration is not pending",
	})
	return r.BaseRepository.Update(ctx, filter, map[string]interface{}{"status": status}, notPending)
}

// FindAccepted retrieves the accepted collaboration for (folder, user)
func (r *collaborationRepository) FindAccepted(ctx context.Context, folderID, userID primitive.ObjectID) (*models.Collaboration, error) {
	var collab models.Collaboration
	filter := bson.M{
		"folder_id": folderID,
		"user_id":   userID,
		"status":    models.CollaborationAccepted,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&collab)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, pkg.ErrCollaborationNotFound
		}
		return nil, fmt.Errorf("failed to find accepted collaboration: %w", err)
	}

	return &collab, nil
}

// ListAcceptedByUser retrieves a user's accepted collaborations
func (r *collaborationRepository) ListAcceptedByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Collaboration, error) {
	filter := bson.M{"user_id": userID, "status": models.CollaborationAccepted}
	return r.find(ctx, filter)
}

// ListPendingForFolders retrieves pending requests against the given
// folders, newest first
func (r *collaborationRepository) ListPendingForFolders(ctx context.Context, folderIDs []primitive.ObjectID) ([]*models.Collaboration, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"folder_id": bson.M{"$in": folderIDs},
		"status":    models.CollaborationPending,
	}
	return r.find(ctx, filter)
}

func (r *collaborationRepository) find(ctx context.Context, filter bson.M) ([]*models.Collaboration, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find collaborations: %w", err)
	}
	defer cursor.Close(ctx)

	var collabs []*models.Collaboration
	if err := cursor.All(ctx, &collabs); err != nil {
		return nil, fmt.Errorf("failed to decode collaborations: %w", err)
	}

	return collabs, nil
}
