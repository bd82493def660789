package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUploadBatchCreatesServableSite(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")

	result, err := env.content.UploadBatch(ctx, owner.ID, "My Cool Site!!", []UploadFile{
		{Path: "index.html", Content: []byte("<h1>hello</h1>")},
		{Path: "css/style.css", Content: []byte("body{}")},
	})
	require.NoError(t, err)
	assert.Equal(t, "my-cool-site", result.Slug)
	assert.ElementsMatch(t, []string{"index.html", "css/style.css"}, result.Uploaded)
	assert.Empty(t, result.Failed)

	// Empty path serves the index file
	file, err := env.content.ServePublic(ctx, "alice", "my-cool-site", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("<h1>hello</h1>"), file.Content)
	assert.Contains(t, file.ContentType, "text/html")
	assert.False(t, file.Binary)

	css, err := env.content.ServePublic(ctx, "alice", "my-cool-site", "css/style.css")
	require.NoError(t, err)
	assert.Contains(t, css.ContentType, "text/css")
}

func TestUploadBatchPartialFailure(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")

	result, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "good.txt", Content: []byte("ok")},
		{Path: "../escape.txt", Content: []byte("nope")},
		{Path: "also/../bad.txt", Content: []byte("nope")},
	})
	assert.ErrorIs(t, err, pkg.ErrFileUploadFailed)
	require.NotNil(t, result)
	assert.Equal(t, []string{"good.txt"}, result.Uploaded)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "../escape.txt", result.Failed[0].Path)

	// The file that stored is still servable
	file, err := env.content.ServePublic(ctx, "alice", "site", "good.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), file.Content)
}

// brokenStorage fails every write
type brokenStorage struct{}

func (brokenStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	return errors.New("storage down")
}

func (brokenStorage) Download(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrObjectNotFound
}

func (brokenStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func TestUploadBatchAllWritesFailing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	content := NewContentService(env.users, env.folders, brokenStorage{}, env.access, pkg.NewLogger(pkg.LevelError))

	result, err := content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "index.html", Content: []byte("hi")},
	})
	assert.ErrorIs(t, err, pkg.ErrFileUploadFailed)
	require.NotNil(t, result)
	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "index.html", result.Failed[0].Path)
	assert.Equal(t, "storage write failed", result.Failed[0].Reason)
}

func TestUploadBatchManifestJSON(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")

	result, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "index.html", Content: []byte("hi")},
		{Path: models.ManifestJSONPath, Content: []byte(`{"theme":"dark"}`)},
	})
	require.NoError(t, err)

	folderID, err := pkg.Conversions.StringToObjectID(result.FolderID)
	require.NoError(t, err)

	config, err := env.folder.GetConfig(ctx, owner.ID, folderID)
	require.NoError(t, err)
	assert.Equal(t, "dark", config["theme"])
}

func TestUploadBatchManifestScriptStoredVerbatim(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	script := []byte("window.title = 'custom';")

	result, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: models.ManifestScriptPath, Content: script},
	})
	require.NoError(t, err)

	folderID, err := pkg.Conversions.StringToObjectID(result.FolderID)
	require.NoError(t, err)

	config, err := env.folder.GetConfig(ctx, owner.ID, folderID)
	require.NoError(t, err)
	assert.Equal(t, string(script), config[models.ConfigScriptKey])
}

func TestUploadBatchBadManifestNonFatal(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")

	result, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "index.html", Content: []byte("hi")},
		{Path: models.ManifestJSONPath, Content: []byte(`{not json`)},
	})
	require.NoError(t, err)
	// The broken manifest still uploads as a plain file
	assert.ElementsMatch(t, []string{"index.html", models.ManifestJSONPath}, result.Uploaded)
}

func TestUploadBatchDuplicateSlugRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	files := []UploadFile{{Path: "index.html", Content: []byte("hi")}}

	_, err := env.content.UploadBatch(ctx, owner.ID, "My Site", files)
	require.NoError(t, err)

	_, err = env.content.UploadBatch(ctx, owner.ID, "My Site", files)
	assert.ErrorIs(t, err, pkg.ErrFolderAlreadyExists)
}

func TestServePublicDirectoryIndexFallback(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	_, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "docs/index.html", Content: []byte("docs home")},
	})
	require.NoError(t, err)

	file, err := env.content.ServePublic(ctx, "alice", "site", "docs")
	require.NoError(t, err)
	assert.Equal(t, []byte("docs home"), file.Content)
	// The requested path, not the fallback, drives the content type
	assert.Equal(t, pkg.DefaultMimeType, file.ContentType)

	_, err = env.content.ServePublic(ctx, "alice", "site", "missing.txt")
	assert.ErrorIs(t, err, pkg.ErrFileNotFound)

	// The fallback does not loop on paths already naming the index
	_, err = env.content.ServePublic(ctx, "alice", "site", "nope/index.html")
	assert.ErrorIs(t, err, pkg.ErrFileNotFound)
}

func TestServePublicUnknownOwnerOrSlug(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	_, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "index.html", Content: []byte("hi")},
	})
	require.NoError(t, err)

	_, err = env.content.ServePublic(ctx, "nobody", "site", "")
	assert.ErrorIs(t, err, pkg.ErrUserNotFound)

	_, err = env.content.ServePublic(ctx, "alice", "missing", "")
	assert.ErrorIs(t, err, pkg.ErrFolderNotFound)
}

func TestServePublicBinaryFlag(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	_, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "logo.png", Content: payload},
		{Path: "app.js", Content: []byte("console.log(1)")},
	})
	require.NoError(t, err)

	img, err := env.content.ServePublic(ctx, "alice", "site", "logo.png")
	require.NoError(t, err)
	assert.True(t, img.Binary)
	assert.Equal(t, payload, img.Content)

	js, err := env.content.ServePublic(ctx, "alice", "site", "app.js")
	require.NoError(t, err)
	assert.False(t, js.Binary)
}

func TestGetFileNoFallback(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	result, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "docs/index.html", Content: []byte("docs home")},
	})
	require.NoError(t, err)

	folderID, err := pkg.Conversions.StringToObjectID(result.FolderID)
	require.NoError(t, err)

	// Exact paths only for the authenticated read
	_, err = env.content.GetFile(ctx, owner.ID, folderID, "docs")
	assert.ErrorIs(t, err, pkg.ErrFileNotFound)

	file, err := env.content.GetFile(ctx, owner.ID, folderID, "docs/index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("docs home"), file.Content)
}

func TestUpdateFileOverwritesAndTouches(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	result, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "index.html", Content: []byte("v1")},
	})
	require.NoError(t, err)

	folderID, err := pkg.Conversions.StringToObjectID(result.FolderID)
	require.NoError(t, err)

	require.NoError(t, env.content.UpdateFile(ctx, owner.ID, folderID, "index.html", []byte("v2")))

	file, err := env.content.GetFile(ctx, owner.ID, folderID, "index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), file.Content)

	// New paths join the listing
	require.NoError(t, env.content.UpdateFile(ctx, owner.ID, folderID, "extra.txt", []byte("x")))
	files, err := env.folder.ListFiles(ctx, owner.ID, folderID)
	require.NoError(t, err)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"index.html", "extra.txt"}, paths)
}

func TestUpdateFileDeniedWithoutAccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("alice")
	stranger := env.mustUser("mallory")
	result, err := env.content.UploadBatch(ctx, owner.ID, "Site", []UploadFile{
		{Path: "index.html", Content: []byte("v1")},
	})
	require.NoError(t, err)

	folderID, err := pkg.Conversions.StringToObjectID(result.FolderID)
	require.NoError(t, err)

	err = env.content.UpdateFile(ctx, stranger.ID, folderID, "index.html", []byte("defaced"))
	assert.ErrorIs(t, err, pkg.ErrAccessDenied)
}

func TestObjectKeyLayout(t *testing.T) {
	owner, folder := primitive.NewObjectID(), primitive.NewObjectID()
	key := ObjectKey(owner, folder, "css/style.css")
	assert.Equal(t, "users/"+owner.Hex()+"/folders/"+folder.Hex()+"/css/style.css", key)
}
