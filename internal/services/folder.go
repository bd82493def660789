package services

import (
	"context"

	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FolderService handles folder directory operations: listings, config
// reads and merges, and per-folder pins.
type FolderService struct {
	folderRepo repository.FolderRepository
	collabRepo repository.CollaborationRepository
	access     *AccessService
	logger     *pkg.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repository.FolderRepository,
	collabRepo repository.CollaborationRepository,
	access *AccessService,
	logger *pkg.Logger,
) *FolderService {
	return &FolderService{
		folderRepo: folderRepo,
		collabRepo: collabRepo,
		access:     access,
		logger:     logger,
	}
}

// UpdateConfigRequest represents a folder config update
type UpdateConfigRequest struct {
	FolderID string              `json:"folderId" validate:"required,objectid"`
	Config   models.FolderConfig `json:"config" validate:"required"`
}

const listAllLimit = 50

// ListMine returns folders the user owns plus folders shared with
// them through an accepted collaboration, deduplicated, newest first.
func (s *FolderService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]*models.Folder, error) {
	owned, err := s.folderRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	accepted, err := s.collabRepo.ListAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	seen := make(map[primitive.ObjectID]bool, len(owned))
	for _, f := range owned {
		seen[f.ID] = true
	}

	var sharedIDs []primitive.ObjectID
	for _, collab := range accepted {
		if !seen[collab.FolderID] {
			seen[collab.FolderID] = true
			sharedIDs = append(sharedIDs, collab.FolderID)
		}
	}

	shared, err := s.folderRepo.ListByIDs(ctx, sharedIDs)
	if err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	return append(owned, shared...), nil
}

// ListAll returns the newest public folder listing with owner names
func (s *FolderService) ListAll(ctx context.Context) ([]*models.FolderWithOwner, error) {
	folders, err := s.folderRepo.ListAll(ctx, listAllLimit)
	if err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}
	return folders, nil
}

// GetConfig returns a folder's config for an owner or collaborator
func (s *FolderService) GetConfig(ctx context.Context, userID, folderID primitive.ObjectID) (models.FolderConfig, error) {
	folder, err := s.access.Authorize(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	if folder.Config == nil {
		return models.FolderConfig{}, nil
	}
	return folder.Config, nil
}

// UpdateConfig merges the supplied options into the folder's config,
// shallow and last-write-wins per key. An adminPassword value not
// already in bcrypt form is hashed before it is stored.
func (s *FolderService) UpdateConfig(ctx context.Context, userID primitive.ObjectID, req *UpdateConfigRequest) (models.FolderConfig, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	folderID, err := pkg.Conversions.StringToObjectID(req.FolderID)
	if err != nil {
		return nil, pkg.ErrInvalidRequest.WithCause(err)
	}

	folder, err := s.access.Authorize(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	updates := req.Config
	if raw, ok := updates[models.ConfigAdminPasswordKey].(string); ok && raw != "" && !pkg.IsBcryptHash(raw) {
		hash, err := pkg.HashPassword(raw)
		if err != nil {
			return nil, pkg.ErrInternalServer.WithCause(err)
		}
		updates[models.ConfigAdminPasswordKey] = hash
	}

	merged := folder.Config.Merge(updates)
	if err := s.folderRepo.UpdateConfig(ctx, folder.ID, merged); err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	s.logger.Info("Folder config updated", map[string]interface{}{
		"folder_id": folder.ID.Hex(),
		"keys":      len(updates),
	})

	return merged, nil
}

// ListFiles returns a folder's listing for an owner or collaborator
func (s *FolderService) ListFiles(ctx context.Context, userID, folderID primitive.ObjectID) ([]*models.FolderFile, error) {
	if _, err := s.access.Authorize(ctx, userID, folderID); err != nil {
		return nil, err
	}

	files, err := s.folderRepo.ListFiles(ctx, folderID)
	if err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}
	if files == nil {
		files = []*models.FolderFile{}
	}
	return files, nil
}

// MintFolderPin returns a one-off pin an owner or collaborator can
// hand out manually. It is not persisted anywhere; possession of the
// plaintext is the whole credential.
func (s *FolderService) MintFolderPin(ctx context.Context, userID, folderID primitive.ObjectID) (string, error) {
	if _, err := s.access.Authorize(ctx, userID, folderID); err != nil {
		return "", err
	}

	pin, err := pkg.GeneratePinToken(models.PinLength)
	if err != nil {
		return "", pkg.ErrInternalServer.WithCause(err)
	}
	return pin, nil
}
