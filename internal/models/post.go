package models

import "time"

// Post is an entry in the shared group feed.
type Post struct {
	ID           int64        `json:"id"`
	Author       User         `json:"author"`
	Content      string       `json:"content"`
	CreatedAt    time.Time    `json:"created_at"`
	IsDeleted    bool         `json:"is_deleted"`
	DeletionType DeletionType `json:"deletion_type,omitempty"`
}

// AsMessage normalizes a post into the uniform message shape: the sentinel
// "Everyone" recipient, read state forced true (group posts carry no per-user
// read tracking), and the banned-author anonymization applied to the sender.
func (p Post) AsMessage() Message {
	sender := p.Author
	sender.Username = p.Author.DisplayName()
	return Message{
		ID:           p.ID,
		Sender:       sender,
		Recipient:    Everyone,
		Content:      p.DisplayContent(),
		CreatedAt:    p.CreatedAt,
		IsRead:       true,
		IsDeleted:    p.IsDeleted,
		DeletionType: p.DeletionType,
	}
}

// DisplayContent returns the content to render, substituting the deletion
// placeholder once the post is deleted.
func (p Post) DisplayContent() string {
	if !p.IsDeleted {
		return p.Content
	}
	if p.DeletionType == DeletionAdmin {
		return deletedByAdminPlaceholder
	}
	return deletedPlaceholder
}
