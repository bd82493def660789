package services

import (
	"context"
	"sync"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			*user = *existing
			return nil
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pkg.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pkg.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pkg.ErrUserNotFound
	}
	if hash, ok := updates["password_hash"].(string); ok {
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()
	return nil
}

type fakePinRepo struct {
	mu   sync.Mutex
	pins []*models.PassPin
}

func newFakePinRepo() *fakePinRepo {
	return &fakePinRepo{}
}

func (r *fakePinRepo) Create(ctx context.Context, pin *models.PassPin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pin.ID = primitive.NewObjectID()
	pin.CreatedAt = time.Now()
	clone := *pin
	r.pins = append(r.pins, &clone)
	return nil
}

func (r *fakePinRepo) Redeem(ctx context.Context, userID primitive.ObjectID, hashedToken string, now time.Time) (*models.PassPin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pin := range r.pins {
		if pin.UserID == userID && pin.HashedToken == hashedToken && !pin.Used && pin.ExpiresAt.After(now) {
			pin.Used = true
			clone := *pin
			return &clone, nil
		}
	}
	return nil, pkg.ErrPinInvalidOrExpired
}

func (r *fakePinRepo) DeleteUsed(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*models.PassPin
	var deleted int64
	for _, pin := range r.pins {
		if pin.Used {
			deleted++
			continue
		}
		kept = append(kept, pin)
	}
	r.pins = kept
	return deleted, nil
}

type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[primitive.ObjectID]*models.Folder
	files   map[primitive.ObjectID]map[string]time.Time
	users   *fakeUserRepo
}

func newFakeFolderRepo(users *fakeUserRepo) *fakeFolderRepo {
	return &fakeFolderRepo{
		folders: make(map[primitive.ObjectID]*models.Folder),
		files:   make(map[primitive.ObjectID]map[string]time.Time),
		users:   users,
	}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.folders {
		if existing.UserID == folder.UserID && existing.Slug == folder.Slug {
			return pkg.ErrFolderAlreadyExists
		}
	}
	folder.ID = primitive.NewObjectID()
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = folder.CreatedAt
	clone := *folder
	r.folders[folder.ID] = &clone
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if folder, ok := r.folders[id]; ok {
		clone := *folder
		return &clone, nil
	}
	return nil, pkg.ErrFolderNotFound
}

func (r *fakeFolderRepo) GetBySlug(ctx context.Context, ownerID primitive.ObjectID, slug string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, folder := range r.folders {
		if folder.UserID == ownerID && folder.Slug == slug {
			clone := *folder
			return &clone, nil
		}
	}
	return nil, pkg.ErrFolderNotFound
}

func (r *fakeFolderRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Folder
	for _, folder := range r.folders {
		if folder.UserID == ownerID {
			clone := *folder
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Folder
	for _, id := range ids {
		if folder, ok := r.folders[id]; ok {
			clone := *folder
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListAll(ctx context.Context, limit int64) ([]*models.FolderWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.FolderWithOwner
	for _, folder := range r.folders {
		if int64(len(out)) >= limit {
			break
		}
		entry := &models.FolderWithOwner{Folder: *folder}
		if r.users != nil {
			if user, ok := r.users.users[folder.UserID]; ok {
				entry.Username = user.Username
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *fakeFolderRepo) UpdateConfig(ctx context.Context, id primitive.ObjectID, config models.FolderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[id]
	if !ok {
		return pkg.ErrFolderNotFound
	}
	folder.Config = config
	folder.UpdatedAt = time.Now()
	return nil
}

func (r *fakeFolderRepo) UpsertFiles(ctx context.Context, folderID primitive.ObjectID, paths []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.files[folderID] == nil {
		r.files[folderID] = make(map[string]time.Time)
	}
	for _, path := range paths {
		r.files[folderID][path] = time.Now()
	}
	return nil
}

func (r *fakeFolderRepo) TouchFile(ctx context.Context, folderID primitive.ObjectID, path string) error {
	return r.UpsertFiles(ctx, folderID, []string{path})
}

func (r *fakeFolderRepo) ListFiles(ctx context.Context, folderID primitive.ObjectID) ([]*models.FolderFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.FolderFile
	for path, updatedAt := range r.files[folderID] {
		out = append(out, &models.FolderFile{
			ID:        primitive.NewObjectID(),
			FolderID:  folderID,
			Path:      path,
			UpdatedAt: updatedAt,
		})
	}
	return out, nil
}

type fakeCollabRepo struct {
	mu      sync.Mutex
	collabs map[primitive.ObjectID]*models.Collaboration
}

func newFakeCollabRepo() *fakeCollabRepo {
	return &fakeCollabRepo{collabs: make(map[primitive.ObjectID]*models.Collaboration)}
}

func (r *fakeCollabRepo) Create(ctx context.Context, collab *models.Collaboration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.collabs {
		if existing.FolderID == collab.FolderID && existing.UserID == collab.UserID {
			return nil
		}
	}
	collab.ID = primitive.NewObjectID()
	collab.Status = models.CollaborationPending
	collab.CreatedAt = time.Now()
	collab.UpdatedAt = collab.CreatedAt
	clone := *collab
	r.collabs[collab.ID] = &clone
	return nil
}

func (r *fakeCollabRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Collaboration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if collab, ok := r.collabs[id]; ok {
		clone := *collab
		return &clone, nil
	}
	return nil, pkg.ErrCollaborationNotFound
}

func (r *fakeCollabRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.CollaborationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	collab, ok := r.collabs[id]
	// Mirrors the conditional update: only pending rows match
	if !ok || collab.Status != models.CollaborationPending {
		return pkg.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "collaboration is not pending",
		})
	}
	collab.Status = status
	collab.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCollabRepo) FindAccepted(ctx context.Context, folderID, userID primitive.ObjectID) (*models.Collaboration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, collab := range r.collabs {
		if collab.FolderID == folderID && collab.UserID == userID && collab.Status == models.CollaborationAccepted {
			clone := *collab
			return &clone, nil
		}
	}
	return nil, pkg.ErrCollaborationNotFound
}

func (r *fakeCollabRepo) ListAcceptedByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Collaboration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Collaboration
	for _, collab := range r.collabs {
		if collab.UserID == userID && collab.Status == models.CollaborationAccepted {
			clone := *collab
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeCollabRepo) ListPendingForFolders(ctx context.Context, folderIDs []primitive.ObjectID) ([]*models.Collaboration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[primitive.ObjectID]bool, len(folderIDs))
	for _, id := range folderIDs {
		wanted[id] = true
	}
	var out []*models.Collaboration
	for _, collab := range r.collabs {
		if wanted[collab.FolderID] && collab.Status == models.CollaborationPending {
			clone := *collab
			out = append(out, &clone)
		}
	}
	return out, nil
}

var (
	_ repository.UserRepository          = (*fakeUserRepo)(nil)
	_ repository.PassPinRepository       = (*fakePinRepo)(nil)
	_ repository.FolderRepository        = (*fakeFolderRepo)(nil)
	_ repository.CollaborationRepository = (*fakeCollabRepo)(nil)
)

// testEnv bundles the fakes with wired services
type testEnv struct {
	users    *fakeUserRepo
	pins     *fakePinRepo
	folders  *fakeFolderRepo
	collabs  *fakeCollabRepo
	storage  *MemoryProvider
	sessions *pkg.SessionManager
	auth     *AuthService
	access   *AccessService
	folder   *FolderService
	content  *ContentService
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	pins := newFakePinRepo()
	folders := newFakeFolderRepo(users)
	collabs := newFakeCollabRepo()
	storage := NewMemoryProvider()
	sessions := pkg.NewSessionManager("test-secret", pkg.DefaultSessionTTL, "test")
	logger := pkg.NewLogger(pkg.LevelError)

	access := NewAccessService(users, folders, collabs, logger)
	return &testEnv{
		users:    users,
		pins:     pins,
		folders:  folders,
		collabs:  collabs,
		storage:  storage,
		sessions: sessions,
		auth:     NewAuthService(users, pins, sessions, logger),
		access:   access,
		folder:   NewFolderService(folders, collabs, access, logger),
		content:  NewContentService(users, folders, storage, access, logger),
	}
}

// mustUser registers a user directly through the repo
func (e *testEnv) mustUser(username string) *models.User {
	user := &models.User{Username: username}
	if err := e.users.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

// mustFolder creates a folder record directly through the repo
func (e *testEnv) mustFolder(ownerID primitive.ObjectID, name, slug string) *models.Folder {
	folder := &models.Folder{UserID: ownerID, Name: name, Slug: slug, Config: models.FolderConfig{}}
	if err := e.folders.Create(context.Background(), folder); err != nil {
		panic(err)
	}
	return folder
}
