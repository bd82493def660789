package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder is an uploaded directory tree served as a mini static site
// under /u/{ownerUsername}/{slug}. The slug is derived from Name and
// unique per owner, not globally.
type Folder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Name      string             `bson:"name" json:"name" validate:"required,min=1,max=255"`
	Slug      string             `bson:"slug" json:"slug"`
	Config    FolderConfig       `bson:"config" json:"config"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// FolderConfig is a schema-less option map attached to a folder.
// Values are limited to strings, numbers, booleans, and nested maps of
// the same shapes so the merge stays well-defined and serializable.
type FolderConfig map[string]interface{}

// Merge applies updates over the receiver shallowly, last write wins
// per key, and returns the merged copy. The receiver is not modified.
func (c FolderConfig) Merge(updates FolderConfig) FolderConfig {
	merged := make(FolderConfig, len(c)+len(updates))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}

// FolderFile is a listing entry for one uploaded relative path within
// a folder. Path uniqueness is scoped to the folder.
type FolderFile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	FolderID  primitive.ObjectID `bson:"folder_id" json:"-"`
	Path      string             `bson:"path" json:"path"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// FolderWithOwner pairs a folder with its owner's username for
// listings resolved by slug.
type FolderWithOwner struct {
	Folder   `bson:",inline"`
	Username string `bson:"username" json:"username"`
}

const (
	// ManifestJSONPath is the reserved path of a JSON folder manifest.
	// Its contents are merged into the folder config at upload time.
	ManifestJSONPath = "Folder-Explorer.json"
	// ManifestScriptPath is the reserved path of a script-form
	// manifest. It is stored verbatim under ConfigScriptKey, never
	// executed.
	ManifestScriptPath = "Folder.config.js"
	// ConfigScriptKey holds a script-form manifest inside the config.
	ConfigScriptKey = "script"
	// ConfigAdminPasswordKey holds the bcrypt hash of the folder's
	// admin password when one is set.
	ConfigAdminPasswordKey = "adminPassword"
)
