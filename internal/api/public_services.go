package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mostaqbalcity/forumclient/internal/models"
)

// GetPublicServices fetches the services directory grouped by category.
func (c *Client) GetPublicServices(ctx context.Context) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	if err := c.do(ctx, http.MethodGet, "/public-services", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetServiceCategories fetches the bare category list.
func (c *Client) GetServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	if err := c.do(ctx, http.MethodGet, "/public-services/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateServiceCategory adds a directory category. Admin only.
func (c *Client) CreateServiceCategory(ctx context.Context, req ServiceCategoryRequest) (*models.ServiceCategory, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var category models.ServiceCategory
	if err := c.do(ctx, http.MethodPost, "/public-services/categories", req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateServiceCategory updates a directory category. Admin only.
func (c *Client) UpdateServiceCategory(ctx context.Context, categoryID int64, req ServiceCategoryRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/public-services/categories/%d", categoryID), req, nil)
}

// DeleteServiceCategory removes a directory category. Admin only.
func (c *Client) DeleteServiceCategory(ctx context.Context, categoryID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/public-services/categories/%d", categoryID), nil, nil)
}

// CreatePublicService adds a directory entry. Admin only.
func (c *Client) CreatePublicService(ctx context.Context, req PublicServiceRequest) (*models.PublicService, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var service models.PublicService
	if err := c.do(ctx, http.MethodPost, "/public-services", req, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// UpdatePublicService updates a directory entry. Admin only.
func (c *Client) UpdatePublicService(ctx context.Context, serviceID int64, req PublicServiceRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/public-services/%d", serviceID), req, nil)
}

// DeletePublicService removes a directory entry. Admin only.
func (c *Client) DeletePublicService(ctx context.Context, serviceID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/public-services/%d", serviceID), nil, nil)
}
