package models

import "time"

// DeletionType distinguishes who removed a message, which selects the
// placeholder text shown in place of the content.
type DeletionType string

const (
	DeletionNone  DeletionType = ""
	DeletionSelf  DeletionType = "self"
	DeletionAdmin DeletionType = "admin"
)

// Placeholder texts substituted for deleted content.
const (
	deletedByAdminPlaceholder = "This message was deleted by an admin"
	deletedPlaceholder        = "This message was deleted"
)

// EveryoneID is the sentinel recipient id for group-feed posts. Group posts
// have no specific recipient; normalizing them into the Message shape uses
// this pseudo-user.
const EveryoneID int64 = 0

// Everyone is the sentinel recipient attached to normalized group posts.
var Everyone = User{ID: EveryoneID, Username: "Everyone"}

// Message is a direct message between two users, or a group post normalized
// into the same shape. IsRead is only meaningful for direct messages.
type Message struct {
	ID           int64        `json:"id"`
	Sender       User         `json:"sender"`
	Recipient    User         `json:"recipient"`
	Content      string       `json:"content"`
	CreatedAt    time.Time    `json:"created_at"`
	IsRead       bool         `json:"is_read"`
	IsDeleted    bool         `json:"is_deleted"`
	DeletionType DeletionType `json:"deletion_type,omitempty"`
}

// DisplayContent returns the content to render: the placeholder when the
// message has been deleted, the raw content otherwise.
func (m Message) DisplayContent() string {
	if !m.IsDeleted {
		return m.Content
	}
	if m.DeletionType == DeletionAdmin {
		return deletedByAdminPlaceholder
	}
	return deletedPlaceholder
}

// IsGroupPost reports whether the message is a normalized group-feed post.
func (m Message) IsGroupPost() bool {
	return m.Recipient.ID == EveryoneID
}

// Counterpart returns the participant who is not selfID. For group posts the
// counterpart is the sentinel recipient.
func (m Message) Counterpart(selfID int64) User {
	if m.Sender.ID == selfID {
		return m.Recipient
	}
	return m.Sender
}

// Involves reports whether userID is the sender or the recipient.
func (m Message) Involves(userID int64) bool {
	return m.Sender.ID == userID || m.Recipient.ID == userID
}
