package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentService moves file bytes between clients and the object
// store and resolves public site requests.
type ContentService struct {
	userRepo   repository.UserRepository
	folderRepo repository.FolderRepository
	storage    StorageProvider
	access     *AccessService
	logger     *pkg.Logger
}

// NewContentService creates a new content service
func NewContentService(
	userRepo repository.UserRepository,
	folderRepo repository.FolderRepository,
	storage StorageProvider,
	access *AccessService,
	logger *pkg.Logger,
) *ContentService {
	return &ContentService{
		userRepo:   userRepo,
		folderRepo: folderRepo,
		storage:    storage,
		access:     access,
		logger:     logger,
	}
}

// UploadFile is a single file within an upload batch
type UploadFile struct {
	Path    string
	Content []byte
}

// UploadFailure records one file the batch could not store
type UploadFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// UploadResult reports the outcome of an upload batch. Files that
// stored cleanly are listed even when the batch as a whole failed.
type UploadResult struct {
	FolderID string          `json:"folderId"`
	Slug     string          `json:"slug"`
	Uploaded []string        `json:"uploaded"`
	Failed   []UploadFailure `json:"failed"`
}

// FileContent carries file bytes plus what a caller needs to render
// or re-encode them.
type FileContent struct {
	Content     []byte
	ContentType string
	Binary      bool
}

// DefaultIndexFile is served when a public request names a directory
const DefaultIndexFile = "index.html"

// ObjectKey maps a folder-relative path to its object store key
func ObjectKey(ownerID, folderID primitive.ObjectID, path string) string {
	return fmt.Sprintf("users/%s/folders/%s/%s", ownerID.Hex(), folderID.Hex(), path)
}

// UploadBatch creates a folder from a named batch of files. Files are
// stored one by one and a failure on one file does not abort the
// rest, but any failure makes the batch itself fail: the partial
// result comes back alongside the error so callers see what did and
// did not store. Manifest files are stored like any other file and
// additionally folded into the folder config.
func (s *ContentService) UploadBatch(ctx context.Context, userID primitive.ObjectID, name string, files []UploadFile) (*UploadResult, error) {
	if pkg.Strings.IsEmpty(name) {
		return nil, pkg.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "folder name is required",
		})
	}
	if len(files) == 0 {
		return nil, pkg.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "at least one file is required",
		})
	}

	slug := pkg.Strings.Slugify(name)
	if slug == "" {
		return nil, pkg.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "folder name has no usable characters",
		})
	}

	folder := &models.Folder{
		UserID: userID,
		Name:   name,
		Slug:   slug,
		Config: models.FolderConfig{},
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	result := &UploadResult{
		FolderID: folder.ID.Hex(),
		Slug:     folder.Slug,
		Uploaded: []string{},
		Failed:   []UploadFailure{},
	}

	config := models.FolderConfig{}
	for _, file := range files {
		if err := validateRelativePath(file.Path); err != nil {
			result.Failed = append(result.Failed, UploadFailure{Path: file.Path, Reason: err.Error()})
			continue
		}

		key := ObjectKey(userID, folder.ID, file.Path)
		contentType := pkg.Files.GetMimeType(file.Path)
		if err := s.storage.Upload(ctx, key, bytes.NewReader(file.Content), contentType); err != nil {
			s.logger.Error("File upload failed", map[string]interface{}{
				"folder_id": folder.ID.Hex(),
				"path":      file.Path,
				"error":     err.Error(),
			})
			result.Failed = append(result.Failed, UploadFailure{Path: file.Path, Reason: "storage write failed"})
			continue
		}

		result.Uploaded = append(result.Uploaded, file.Path)
		s.absorbManifest(folder.ID, config, file)
	}

	if err := s.folderRepo.UpsertFiles(ctx, folder.ID, result.Uploaded); err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	if len(config) > 0 {
		if err := s.folderRepo.UpdateConfig(ctx, folder.ID, config); err != nil {
			return nil, pkg.ErrUpstreamFailure.WithCause(err)
		}
		folder.Config = config
	}

	if len(result.Failed) > 0 {
		s.logger.Warn("Folder upload incomplete", map[string]interface{}{
			"folder_id": folder.ID.Hex(),
			"slug":      folder.Slug,
			"uploaded":  len(result.Uploaded),
			"failed":    len(result.Failed),
		})
		return result, pkg.ErrFileUploadFailed.WithDetails(map[string]interface{}{
			"failed": result.Failed,
		})
	}

	s.logger.Info("Folder uploaded", map[string]interface{}{
		"folder_id": folder.ID.Hex(),
		"slug":      folder.Slug,
		"uploaded":  len(result.Uploaded),
	})

	return result, nil
}

// absorbManifest folds a recognized manifest file into config. A
// manifest that fails to parse is logged and skipped; the batch keeps
// going.
func (s *ContentService) absorbManifest(folderID primitive.ObjectID, config models.FolderConfig, file UploadFile) {
	switch file.Path {
	case models.ManifestJSONPath:
		var parsed map[string]interface{}
		if err := json.Unmarshal(file.Content, &parsed); err != nil {
			s.logger.Warn("Manifest JSON ignored", map[string]interface{}{
				"folder_id": folderID.Hex(),
				"path":      file.Path,
				"error":     err.Error(),
			})
			return
		}
		for k, v := range parsed {
			config[k] = v
		}
	case models.ManifestScriptPath:
		config[models.ConfigScriptKey] = string(file.Content)
	}
}

// GetFile returns a single file for an owner or collaborator. No
// index fallback applies here; the path must match exactly.
func (s *ContentService) GetFile(ctx context.Context, userID, folderID primitive.ObjectID, path string) (*FileContent, error) {
	folder, err := s.access.Authorize(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	if err := validateRelativePath(path); err != nil {
		return nil, pkg.ErrInvalidRequest.WithCause(err)
	}

	return s.fetch(ctx, folder, path)
}

// UpdateFile overwrites a single file's bytes and touches its listing
// entry. Paths not previously in the folder are added.
func (s *ContentService) UpdateFile(ctx context.Context, userID, folderID primitive.ObjectID, path string, content []byte) error {
	folder, err := s.access.Authorize(ctx, userID, folderID)
	if err != nil {
		return err
	}
	if err := validateRelativePath(path); err != nil {
		return pkg.ErrInvalidRequest.WithCause(err)
	}

	key := ObjectKey(folder.UserID, folder.ID, path)
	contentType := pkg.Files.GetMimeType(path)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(content), contentType); err != nil {
		return pkg.ErrFileUploadFailed.WithCause(err)
	}

	if err := s.folderRepo.TouchFile(ctx, folder.ID, path); err != nil {
		return pkg.ErrUpstreamFailure.WithCause(err)
	}

	s.logger.Info("File updated", map[string]interface{}{
		"folder_id": folder.ID.Hex(),
		"path":      path,
	})
	return nil
}

// ServePublic resolves an unauthenticated site request. An empty path
// serves the index file, and a miss retries the path as a directory
// holding its own index file before giving up.
func (s *ContentService) ServePublic(ctx context.Context, username, slug, path string) (*FileContent, error) {
	owner, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	folder, err := s.folderRepo.GetBySlug(ctx, owner.ID, slug)
	if err != nil {
		return nil, err
	}

	path = strings.TrimPrefix(path, "/")
	if path == "" {
		path = DefaultIndexFile
	}
	if err := validateRelativePath(path); err != nil {
		return nil, pkg.ErrInvalidRequest.WithCause(err)
	}

	// The content type follows the requested path even when the
	// fallback resolves the bytes from its index document.
	contentType := pkg.Files.GetMimeType(path)

	content, err := s.fetchBytes(ctx, folder, path)
	if errors.Is(err, pkg.ErrFileNotFound) && !strings.HasSuffix(path, "/"+DefaultIndexFile) && path != DefaultIndexFile {
		content, err = s.fetchBytes(ctx, folder, path+"/"+DefaultIndexFile)
	}
	if err != nil {
		return nil, err
	}

	return &FileContent{
		Content:     content,
		ContentType: contentType,
		Binary:      !pkg.Files.IsTextualType(contentType),
	}, nil
}

// fetch reads one object and annotates it with the content type of
// its path.
func (s *ContentService) fetch(ctx context.Context, folder *models.Folder, path string) (*FileContent, error) {
	content, err := s.fetchBytes(ctx, folder, path)
	if err != nil {
		return nil, err
	}

	contentType := pkg.Files.GetMimeType(path)
	return &FileContent{
		Content:     content,
		ContentType: contentType,
		Binary:      !pkg.Files.IsTextualType(contentType),
	}, nil
}

func (s *ContentService) fetchBytes(ctx context.Context, folder *models.Folder, path string) ([]byte, error) {
	key := ObjectKey(folder.UserID, folder.ID, path)
	content, err := s.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, pkg.ErrFileNotFound
		}
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}
	return content, nil
}

// validateRelativePath rejects absolute paths and traversal segments
func validateRelativePath(path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must be relative")
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || segment == ".." {
			return fmt.Errorf("path contains an invalid segment")
		}
	}
	return nil
}
