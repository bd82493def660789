package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collaboration is a write-access request by a non-owner against a
// folder. One row per (folder, user); duplicates are swallowed at
// insert. Only the folder owner moves it out of pending, and accepted
// and rejected are terminal.
type Collaboration struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FolderID  primitive.ObjectID  `bson:"folder_id" json:"folderId"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"userId"`
	Status    CollaborationStatus `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updatedAt"`
}

// CollaborationStatus is the state of a collaboration request.
type CollaborationStatus string

const (
	CollaborationPending  CollaborationStatus = "pending"
	CollaborationAccepted CollaborationStatus = "accepted"
	CollaborationRejected CollaborationStatus = "rejected"
)

// IsTerminal reports whether the status can no longer change.
func (s CollaborationStatus) IsTerminal() bool {
	return s == CollaborationAccepted || s == CollaborationRejected
}

// ValidResponse reports whether the status is a legal owner decision.
func (s CollaborationStatus) ValidResponse() bool {
	return s == CollaborationAccepted || s == CollaborationRejected
}

// PendingCollaboration is a pending request joined with the
// requesting user's name and the target folder, for owner review.
type PendingCollaboration struct {
	Collaboration `bson:",inline"`
	Username      string `bson:"username" json:"username"`
	FolderName    string `bson:"folder_name" json:"folderName"`
	FolderSlug    string `bson:"folder_slug" json:"folderSlug"`
}

// Permission is the effective access a user has on a folder.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionCollaborator
	PermissionOwner
)

// CanWrite reports whether folder contents may be read and written.
func (p Permission) CanWrite() bool {
	return p == PermissionOwner || p == PermissionCollaborator
}

// String returns the permission name.
func (p Permission) String() string {
	switch p {
	case PermissionOwner:
		return "owner"
	case PermissionCollaborator:
		return "collaborator"
	default:
		return "none"
	}
}
