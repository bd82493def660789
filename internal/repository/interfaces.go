package repository

import (
	"context"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
}

// PassPinRepository defines pass pin repository interface
type PassPinRepository interface {
	Create(ctx context.Context, pin *models.PassPin) error
	// Redeem atomically finds an unused, unexpired pin matching
	// (userID, hashedToken) and marks it used. Returns
	// pkg.ErrPinInvalidOrExpired when no row matches, including when a
	// concurrent redeemer won the race.
	Redeem(ctx context.Context, userID primitive.ObjectID, hashedToken string, now time.Time) (*models.PassPin, error)
	// DeleteUsed removes redeemed pins ahead of their TTL expiry
	DeleteUsed(ctx context.Context) (int64, error)
}

// FolderRepository defines folder directory interface: folder records
// plus their per-path file listings.
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error)
	GetBySlug(ctx context.Context, ownerID primitive.ObjectID, slug string) (*models.Folder, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Folder, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Folder, error)
	ListAll(ctx context.Context, limit int64) ([]*models.FolderWithOwner, error)
	UpdateConfig(ctx context.Context, id primitive.ObjectID, config models.FolderConfig) error

	UpsertFiles(ctx context.Context, folderID primitive.ObjectID, paths []string) error
	TouchFile(ctx context.Context, folderID primitive.ObjectID, path string) error
	ListFiles(ctx context.Context, folderID primitive.ObjectID) ([]*models.FolderFile, error)
}

// CollaborationRepository defines collaboration ledger interface
type CollaborationRepository interface {
	// Create inserts a pending request. A duplicate (folderID, userID)
	// insert is swallowed, any other failure surfaces.
	Create(ctx context.Context, collab *models.Collaboration) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Collaboration, error)
	// UpdateStatus moves a pending collaboration to a new status.
	// A row that is missing or no longer pending does not match and
	// pkg.ErrInvalidRequest is returned, so terminal rows stay put
	// under concurrent responses.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.CollaborationStatus) error
	FindAccepted(ctx context.Context, folderID, userID primitive.ObjectID) (*models.Collaboration, error)
	ListAcceptedByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Collaboration, error)
	ListPendingForFolders(ctx context.Context, folderIDs []primitive.ObjectID) ([]*models.Collaboration, error)
}

// Repository aggregates all repositories
type Repository struct {
	User          UserRepository
	PassPin       PassPinRepository
	Folder        FolderRepository
	Collaboration CollaborationRepository
}
