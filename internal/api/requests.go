package api

// Request payloads. Validation tags run client-side before any call goes out,
// mirroring the form checks the rendering layer performs, so invalid input
// never reaches the wire.

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries a resident registration.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3"`
	Password        string `json:"password" validate:"required,min=6"`
	FullName        string `json:"full_name" validate:"required"`
	BuildingNumber  int    `json:"building_number" validate:"required,min=1"`
	ApartmentNumber int    `json:"apartment_number" validate:"required,min=1"`
}

// CreatePostRequest carries a new group-feed post.
type CreatePostRequest struct {
	Content string `json:"content" validate:"required"`
}

// SendMessageRequest carries a direct-message body. The recipient is implied
// by the endpoint: residents address the admin, admins reply to a user id.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreateAdvertisementRequest carries a classified ad without images.
type CreateAdvertisementRequest struct {
	Title       string  `json:"title" validate:"required"`
	Content     string  `json:"content" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	PhoneNumber string  `json:"phone_number" validate:"required"`
}

// ServiceCategoryRequest carries a directory category create/update.
type ServiceCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// PublicServiceRequest carries a directory entry create/update.
type PublicServiceRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Category    int64  `json:"category" validate:"required,min=1"`
	Status      string `json:"status" validate:"required,oneof=available unavailable"`
}
