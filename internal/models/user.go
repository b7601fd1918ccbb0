package models

import "time"

// UserStatus is the lifecycle status carried by user_status_changed push events.
type UserStatus string

const (
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
	UserStatusBanned   UserStatus = "banned"
	UserStatusUnbanned UserStatus = "unbanned"
)

// User represents a resident or admin account. The backend embeds a snapshot
// of this shape on every message and post, so the zero value of optional
// fields must stay meaningful.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	IsAdmin         bool      `json:"is_admin"`
	IsApproved      bool      `json:"is_approved"`
	IsBanned        bool      `json:"is_banned"`
	BuildingNumber  int       `json:"building_number"`
	ApartmentNumber int       `json:"apartment_number"`
	CreatedAt       time.Time `json:"created_at"`
}

// DisplayName returns the name shown next to a message. Banned authors are
// anonymized the same way the backend anonymizes them on render.
func (u User) DisplayName() string {
	if u.IsBanned {
		return "Deleted User"
	}
	return u.Username
}
