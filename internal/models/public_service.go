package models

// ServiceStatus is the availability flag on a public service entry.
type ServiceStatus string

const (
	ServiceAvailable   ServiceStatus = "available"
	ServiceUnavailable ServiceStatus = "unavailable"
)

// PublicService is one entry in the community services directory.
type PublicService struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	PhoneNumber string        `json:"phone_number"`
	CategoryID  int64         `json:"category"`
	Status      ServiceStatus `json:"status"`
}

// ServiceCategory groups directory entries; the directory endpoint returns
// categories with their services embedded.
type ServiceCategory struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Services    []PublicService `json:"services,omitempty"`
}
