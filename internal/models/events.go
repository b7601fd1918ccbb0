package models

import (
	"encoding/json"
	"time"
)

// EventKind identifies a push event delivered over the websocket channel.
type EventKind string

const (
	EventMessageUpdate     EventKind = "message_update"
	EventPostUpdate        EventKind = "post_update"
	EventUserRegistered    EventKind = "user_registered"
	EventUserStatusChanged EventKind = "user_status_changed"
)

// PushEvent is the envelope the backend sends on the push channel. Data holds
// the kind-specific payload, decoded lazily by the subscriber.
type PushEvent struct {
	Kind EventKind       `json:"event"`
	Data json.RawMessage `json:"data"`
}

// PostEvent is the payload of a post_update event. The backend sends either a
// full post (new entry) or a sparse {id, is_deleted, deletion_type} update to
// an existing one; the two are told apart by shape.
type PostEvent struct {
	ID           int64        `json:"id"`
	Author       *User        `json:"author,omitempty"`
	Content      string       `json:"content,omitempty"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
	IsDeleted    *bool        `json:"is_deleted,omitempty"`
	DeletionType DeletionType `json:"deletion_type,omitempty"`
}

// IsPartial reports whether the event is an update to an existing post rather
// than a new one. Matches the shape check the views perform: a deletion-style
// event carries an id and an is_deleted flag but no content or author.
func (e PostEvent) IsPartial() bool {
	return e.IsDeleted != nil && (e.Content == "" || e.Author == nil)
}

// ToPost converts a full-shape event into a Post.
func (e PostEvent) ToPost() Post {
	p := Post{ID: e.ID, Content: e.Content, DeletionType: e.DeletionType}
	if e.Author != nil {
		p.Author = *e.Author
	}
	if e.CreatedAt != nil {
		p.CreatedAt = *e.CreatedAt
	}
	if e.IsDeleted != nil {
		p.IsDeleted = *e.IsDeleted
	}
	return p
}

// UserStatusEvent is the payload of a user_status_changed event.
type UserStatusEvent struct {
	UserID int64      `json:"user_id"`
	Status UserStatus `json:"status"`
}
