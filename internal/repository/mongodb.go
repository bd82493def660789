package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB client wrapper
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

// Connect establishes connection to MongoDB
func Connect(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	if dbName == "" {
		dbName = "folderexplorer"
	}

	mongoDB := &MongoDB{
		client:   client,
		database: client.Database(dbName),
		dbName:   dbName,
	}

	if err := mongoDB.createIndexes(); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return mongoDB, nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Collection returns a collection instance
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// createIndexes creates all necessary indexes. The unique indexes on
// (folders user_id+slug), (folder_files folder_id+path), and
// (collaborations folder_id+user_id) carry the uniqueness invariants
// the services rely on.
func (m *MongoDB) createIndexes() error {
	ctx := context.Background()

	userIndexes := []mongo.IndexModel{
		{Keys: bson.M{"username": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"created_at": -1}},
	}
	if _, err := m.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	pinIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "token", Value: 1}}},
		// Expired pins are garbage; let Mongo sweep them.
		{Keys: bson.M{"expires_at": 1}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
	if _, err := m.Collection("passpin_tokens").Indexes().CreateMany(ctx, pinIndexes); err != nil {
		return fmt.Errorf("failed to create passpin indexes: %w", err)
	}

	folderIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"created_at": -1}},
	}
	if _, err := m.Collection("folders").Indexes().CreateMany(ctx, folderIndexes); err != nil {
		return fmt.Errorf("failed to create folder indexes: %w", err)
	}

	fileIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "folder_id", Value: 1}, {Key: "path", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := m.Collection("folder_files").Indexes().CreateMany(ctx, fileIndexes); err != nil {
		return fmt.Errorf("failed to create folder file indexes: %w", err)
	}

	collabIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "folder_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "folder_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := m.Collection("collaborations").Indexes().CreateMany(ctx, collabIndexes); err != nil {
		return fmt.Errorf("failed to create collaboration indexes: %w", err)
	}

	return nil
}

// BaseRepository provides common repository functionality
type BaseRepository struct {
	collection *mongo.Collection
	mongodb    *MongoDB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(mongodb *MongoDB, collectionName string) *BaseRepository {
	return &BaseRepository{
		collection: mongodb.Collection(collectionName),
		mongodb:    mongodb,
	}
}

// Update sets fields on documents matching filter and refreshes
// updated_at. notFound is returned when nothing matched.
func (r *BaseRepository) Update(ctx context.Context, filter bson.M, updates map[string]interface{}, notFound error) error {
	updates["updated_at"] = time.Now()
	update := bson.M{"$set": updates}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	if result.MatchedCount == 0 {
		return notFound
	}

	return nil
}

// NewRepositories creates all repository instances
func NewRepositories(mongodb *MongoDB) *Repository {
	return &Repository{
		User:          NewUserRepository(mongodb),
		PassPin:       NewPassPinRepository(mongodb),
		Folder:        NewFolderRepository(mongodb),
		Collaboration: NewCollaborationRepository(mongodb),
	}
}
