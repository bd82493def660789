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

type folderRepository struct {
	*BaseRepository
	files *mongo.Collection
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(mongodb *MongoDB) FolderRepository {
	return &folderRepository{
		BaseRepository: NewBaseRepository(mongodb, "folders"),
		files:          mongodb.Collection("folder_files"),
	}
}

// Create creates a new folder record
func (r *folderRepository) Create(ctx context.Context, folder *models.Folder) error {
	folder.ID = primitive.NewObjectID()
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = time.Now()
	if folder.Config == nil {
		folder.Config = models.FolderConfig{}
	}

	_, err := r.collection.InsertOne(ctx, folder)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkg.ErrFolderAlreadyExists
		}
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

// GetByID retrieves folder by ID
func (r *folderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	var folder models.Folder
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&folder)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, pkg.ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to get folder by ID: %w", err)
	}

	return &folder, nil
}

// GetBySlug retrieves a folder by owner and slug
func (r *folderRepository) GetBySlug(ctx context.Context, ownerID primitive.ObjectID, slug string) (*models.Folder, error) {
	var folder models.Folder
	filter := bson.M{"user_id": ownerID, "slug": slug}

	err := r.collection.FindOne(ctx, filter).Decode(&folder)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, pkg.ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to get folder by slug: %w", err)
	}

	return &folder, nil
}

// ListByOwner retrieves folders owned by a user, newest first
func (r *folderRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Folder, error) {
	return r.find(ctx, bson.M{"user_id": ownerID})
}

// ListByIDs retrieves folders by ID set, newest first
func (r *folderRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Folder, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *folderRepository) find(ctx context.Context, filter bson.M) ([]*models.Folder, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find folders: %w", err)
	}
	defer cursor.Close(ctx)

	var folders []*models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders: %w", err)
	}

	return folders, nil
}

// ListAll retrieves the newest folders with their owner usernames
func (r *folderRepository) ListAll(ctx context.Context, limit int64) ([]*models.FolderWithOwner, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.M{"created_at": -1}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: "$owner"}},
		{{Key: "$addFields", Value: bson.M{"username": "$owner.username"}}},
		{{Key: "$project", Value: bson.M{"owner": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer cursor.Close(ctx)

	var folders []*models.FolderWithOwner
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders: %w", err)
	}

	return folders, nil
}

// UpdateConfig replaces the folder's stored config map. Callers merge
// before calling; the repository only persists.
func (r *folderRepository) UpdateConfig(ctx context.Context, id primitive.ObjectID, config models.FolderConfig) error {
	filter := bson.M{"_id": id}
	return r.BaseRepository.Update(ctx, filter, map[string]interface{}{"config": config}, pkg.ErrFolderNotFound)
}

// UpsertFiles records one listing row per path, refreshing updated_at
// on paths already listed
func (r *folderRepository) UpsertFiles(ctx context.Context, folderID primitive.ObjectID, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(paths))
	for _, path := range paths {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"folder_id": folderID, "path": path}).
			SetUpdate(bson.M{"$set": bson.M{"updated_at": now}}).
			SetUpsert(true))
	}

	if _, err := r.files.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to upsert folder files: %w", err)
	}
	return nil
}

// TouchFile refreshes a listing row's updated_at
func (r *folderRepository) TouchFile(ctx context.Context, folderID primitive.ObjectID, path string) error {
	filter := bson.M{"folder_id": folderID, "path": path}
	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}

	if _, err := r.files.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to touch folder file: %w", err)
	}
	return nil
}

// ListFiles retrieves a folder's listing ordered by path
func (r *folderRepository) ListFiles(ctx context.Context, folderID primitive.ObjectID) ([]*models.FolderFile, error) {
	opts := options.Find().SetSort(bson.M{"path": 1})
	cursor, err := r.files.Find(ctx, bson.M{"folder_id": folderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder files: %w", err)
	}
	defer cursor.Close(ctx)

	var files []*models.FolderFile
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode folder files: %w", err)
	}

	return files, nil
}
