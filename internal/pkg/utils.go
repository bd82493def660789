package pkg

import (
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StringUtils provides string utility functions
type StringUtils struct{}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// IsEmpty checks if string is empty or contains only whitespace
func (StringUtils) IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slugify converts a display name to a URL-friendly slug: lowercase,
// runs of non-alphanumerics collapsed to a single hyphen, no leading
// or trailing hyphen.
func (StringUtils) Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FileUtils provides file utility functions
type FileUtils struct{}

// DefaultMimeType is used for extensions the MIME table does not know.
const DefaultMimeType = "application/octet-stream"

// GetMimeType returns MIME type from file extension
func (FileUtils) GetMimeType(filename string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		return DefaultMimeType
	}
	return mimeType
}

// IsTextualType reports whether a content type can be transmitted
// as-is; anything else goes through a binary-safe encoding.
func (FileUtils) IsTextualType(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") ||
		strings.Contains(contentType, "javascript") ||
		strings.Contains(contentType, "json")
}

// ConversionUtils provides type conversion utilities
type ConversionUtils struct{}

// StringToObjectID converts string to MongoDB ObjectID
func (ConversionUtils) StringToObjectID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}

// Global utility instances
var (
	Strings     = StringUtils{}
	Files       = FileUtils{}
	Conversions = ConversionUtils{}
)
