package services

import (
	"context"
	"testing"

	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMineIncludesSharedFolders(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("owner")
	member := env.mustUser("member")
	own := env.mustFolder(member.ID, "Mine", "mine")
	shared := env.mustFolder(owner.ID, "Shared", "shared")
	env.mustFolder(owner.ID, "Private", "private")

	require.NoError(t, env.access.RequestCollaboration(ctx, member.ID, shared.ID))
	acceptCollab(t, env, shared, member)

	folders, err := env.folder.ListMine(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, folders, 2)

	ids := map[string]bool{}
	for _, f := range folders {
		ids[f.ID.Hex()] = true
	}
	assert.True(t, ids[own.ID.Hex()])
	assert.True(t, ids[shared.ID.Hex()])
}

func TestListAllJoinsOwnerNames(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("owner")
	env.mustFolder(owner.ID, "Site", "site")

	folders, err := env.folder.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "owner", folders[0].Username)
	assert.Equal(t, "site", folders[0].Slug)
}

func TestUpdateConfigMerges(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("owner")
	folder := env.mustFolder(owner.ID, "Site", "site")

	_, err := env.folder.UpdateConfig(ctx, owner.ID, &UpdateConfigRequest{
		FolderID: folder.ID.Hex(),
		Config:   models.FolderConfig{"a": float64(1), "b": float64(2)},
	})
	require.NoError(t, err)

	merged, err := env.folder.UpdateConfig(ctx, owner.ID, &UpdateConfigRequest{
		FolderID: folder.ID.Hex(),
		Config:   models.FolderConfig{"b": float64(3), "c": float64(4)},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1), merged["a"])
	assert.Equal(t, float64(3), merged["b"])
	assert.Equal(t, float64(4), merged["c"])
}

func TestUpdateConfigHashesAdminPassword(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("owner")
	folder := env.mustFolder(owner.ID, "Site", "site")

	merged, err := env.folder.UpdateConfig(ctx, owner.ID, &UpdateConfigRequest{
		FolderID: folder.ID.Hex(),
		Config:   models.FolderConfig{models.ConfigAdminPasswordKey: "hunter2-is-long"},
	})
	require.NoError(t, err)

	stored, ok := merged[models.ConfigAdminPasswordKey].(string)
	require.True(t, ok)
	assert.True(t, pkg.IsBcryptHash(stored))
	assert.True(t, pkg.VerifyPassword("hunter2-is-long", stored))

	// An already hashed value passes through untouched
	again, err := env.folder.UpdateConfig(ctx, owner.ID, &UpdateConfigRequest{
		FolderID: folder.ID.Hex(),
		Config:   models.FolderConfig{models.ConfigAdminPasswordKey: stored},
	})
	require.NoError(t, err)
	assert.Equal(t, stored, again[models.ConfigAdminPasswordKey])
}

func TestUpdateConfigDeniedForStranger(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("owner")
	stranger := env.mustUser("stranger")
	folder := env.mustFolder(owner.ID, "Site", "site")

	_, err := env.folder.UpdateConfig(ctx, stranger.ID, &UpdateConfigRequest{
		FolderID: folder.ID.Hex(),
		Config:   models.FolderConfig{"theme": "dark"},
	})
	assert.ErrorIs(t, err, pkg.ErrAccessDenied)
}

func TestMintFolderPinRequiresAccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.mustUser("owner")
	stranger := env.mustUser("stranger")
	folder := env.mustFolder(owner.ID, "Site", "site")

	pin, err := env.folder.MintFolderPin(ctx, owner.ID, folder.ID)
	require.NoError(t, err)
	assert.Len(t, pin, models.PinLength)

	_, err = env.folder.MintFolderPin(ctx, stranger.ID, folder.ID)
	assert.ErrorIs(t, err, pkg.ErrAccessDenied)
}
