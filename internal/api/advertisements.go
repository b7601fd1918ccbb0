package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mostaqbalcity/forumclient/internal/models"
)

// GetAdvertisements fetches the classified ads list.
func (c *Client) GetAdvertisements(ctx context.Context) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	if err := c.do(ctx, http.MethodGet, "/advertisements", nil, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// CreateAdvertisement publishes an ad without images as plain JSON.
func (c *Client) CreateAdvertisement(ctx context.Context, req CreateAdvertisementRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/advertisements", req, nil)
}

// CreateAdvertisementWithImages publishes an ad with attached images as
// multipart form data.
func (c *Client) CreateAdvertisementWithImages(ctx context.Context, req CreateAdvertisementRequest, images []Upload) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPost, "/advertisements", adFormFields(req), images, nil)
}

// UpdateAdvertisement updates an ad as plain JSON.
func (c *Client) UpdateAdvertisement(ctx context.Context, adID int64, req CreateAdvertisementRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/advertisements/%d", adID), req, nil)
}

// UpdateAdvertisementWithImages updates an ad and replaces its images.
func (c *Client) UpdateAdvertisementWithImages(ctx context.Context, adID int64, req CreateAdvertisementRequest, images []Upload) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.doMultipart(ctx, http.MethodPut, fmt.Sprintf("/advertisements/%d", adID), adFormFields(req), images, nil)
}

// DeleteAdvertisement removes the caller's own ad.
func (c *Client) DeleteAdvertisement(ctx context.Context, adID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/advertisements/%d", adID), nil, nil)
}

func adFormFields(req CreateAdvertisementRequest) map[string]string {
	return map[string]string{
		"title":        req.Title,
		"content":      req.Content,
		"price":        strconv.FormatFloat(req.Price, 'f', -1, 64),
		"phone_number": req.PhoneNumber,
	}
}
