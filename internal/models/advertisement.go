package models

import "time"

// Advertisement is a classified ad posted by a resident.
type Advertisement struct {
	ID           int64        `json:"id"`
	Author       User         `json:"author"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Price        float64      `json:"price"`
	PhoneNumber  string       `json:"phone_number"`
	ImageURLs    []string     `json:"image_urls,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	IsDeleted    bool         `json:"is_deleted"`
	DeletionType DeletionType `json:"deletion_type,omitempty"`
}
