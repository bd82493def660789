package services

import (
	"context"
	"errors"

	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessService computes effective folder permissions and mediates
// the collaboration request/accept flow.
type AccessService struct {
	userRepo   repository.UserRepository
	folderRepo repository.FolderRepository
	collabRepo repository.CollaborationRepository
	logger     *pkg.Logger
}

// NewAccessService creates a new access service
func NewAccessService(
	userRepo repository.UserRepository,
	folderRepo repository.FolderRepository,
	collabRepo repository.CollaborationRepository,
	logger *pkg.Logger,
) *AccessService {
	return &AccessService{
		userRepo:   userRepo,
		folderRepo: folderRepo,
		collabRepo: collabRepo,
		logger:     logger,
	}
}

// Resolve computes the effective permission of a user on a folder:
// Owner when the folder is theirs, Collaborator when an accepted
// collaboration row exists, None otherwise.
func (s *AccessService) Resolve(ctx context.Context, userID primitive.ObjectID, folder *models.Folder) (models.Permission, error) {
	if folder.UserID == userID {
		return models.PermissionOwner, nil
	}

	_, err := s.collabRepo.FindAccepted(ctx, folder.ID, userID)
	if err != nil {
		if errors.Is(err, pkg.ErrCollaborationNotFound) {
			return models.PermissionNone, nil
		}
		return models.PermissionNone, pkg.ErrUpstreamFailure.WithCause(err)
	}

	return models.PermissionCollaborator, nil
}

// Authorize resolves the folder by ID and requires write access on it
func (s *AccessService) Authorize(ctx context.Context, userID, folderID primitive.ObjectID) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, pkg.ErrFolderNotFound) {
			return nil, pkg.ErrFolderNotFound
		}
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	perm, err := s.Resolve(ctx, userID, folder)
	if err != nil {
		return nil, err
	}
	if !perm.CanWrite() {
		return nil, pkg.ErrAccessDenied
	}

	return folder, nil
}

// RequestCollaboration records a pending write-access request by a
// non-owner. Owners cannot request collaboration on their own folder,
// and a repeated request for the same (folder, user) is a no-op.
func (s *AccessService) RequestCollaboration(ctx context.Context, userID, folderID primitive.ObjectID) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, pkg.ErrFolderNotFound) {
			return pkg.ErrFolderNotFound
		}
		return pkg.ErrUpstreamFailure.WithCause(err)
	}

	if folder.UserID == userID {
		return pkg.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "cannot collaborate on own folder",
		})
	}

	collab := &models.Collaboration{
		FolderID: folderID,
		UserID:   userID,
	}
	if err := s.collabRepo.Create(ctx, collab); err != nil {
		return pkg.ErrUpstreamFailure.WithCause(err)
	}

	s.logger.Info("Collaboration requested", map[string]interface{}{
		"folder_id": folderID.Hex(),
		"user_id":   userID.Hex(),
	})

	return nil
}

// RespondToCollaboration moves a pending request to accepted or
// rejected. Ownership is re-derived from the collaboration row's
// folder rather than trusted from the caller, and terminal rows stay
// terminal.
func (s *AccessService) RespondToCollaboration(ctx context.Context, ownerID, collabID primitive.ObjectID, action models.CollaborationStatus) error {
	if !action.ValidResponse() {
		return pkg.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "action must be accepted or rejected",
		})
	}

	collab, err := s.collabRepo.GetByID(ctx, collabID)
	if err != nil {
		if errors.Is(err, pkg.ErrCollaborationNotFound) {
			return pkg.ErrCollaborationNotFound
		}
		return pkg.ErrUpstreamFailure.WithCause(err)
	}

	folder, err := s.folderRepo.GetByID(ctx, collab.FolderID)
	if err != nil {
		if errors.Is(err, pkg.ErrFolderNotFound) {
			return pkg.ErrFolderNotFound
		}
		return pkg.ErrUpstreamFailure.WithCause(err)
	}
	if folder.UserID != ownerID {
		return pkg.ErrAccessDenied
	}

	if collab.Status.IsTerminal() {
		return pkg.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "collaboration already " + string(collab.Status),
		})
	}

	if err := s.collabRepo.UpdateStatus(ctx, collabID, action); err != nil {
		// A zero-match update means a concurrent response won the
		// race after our read; surface it as already resolved.
		if errors.Is(err, pkg.ErrInvalidRequest) {
			return err
		}
		return pkg.ErrUpstreamFailure.WithCause(err)
	}

	s.logger.Info("Collaboration responded", map[string]interface{}{
		"collab_id": collabID.Hex(),
		"folder_id": folder.ID.Hex(),
		"status":    string(action),
	})

	return nil
}

// ListPendingCollaborations returns pending requests against folders
// the user owns, joined with requester usernames and folder names.
func (s *AccessService) ListPendingCollaborations(ctx context.Context, ownerID primitive.ObjectID) ([]*models.PendingCollaboration, error) {
	owned, err := s.folderRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}
	if len(owned) == 0 {
		return []*models.PendingCollaboration{}, nil
	}

	foldersByID := make(map[primitive.ObjectID]*models.Folder, len(owned))
	folderIDs := make([]primitive.ObjectID, 0, len(owned))
	for _, f := range owned {
		foldersByID[f.ID] = f
		folderIDs = append(folderIDs, f.ID)
	}

	pending, err := s.collabRepo.ListPendingForFolders(ctx, folderIDs)
	if err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	result := make([]*models.PendingCollaboration, 0, len(pending))
	for _, collab := range pending {
		entry := &models.PendingCollaboration{Collaboration: *collab}
		if folder := foldersByID[collab.FolderID]; folder != nil {
			entry.FolderName = folder.Name
			entry.FolderSlug = folder.Slug
		}
		if requester, err := s.userRepo.GetByID(ctx, collab.UserID); err == nil {
			entry.Username = requester.Username
		}
		result = append(result, entry)
	}

	return result, nil
}
