package api

import (
	"context"
	"net/http"

	"github.com/mostaqbalcity/forumclient/internal/models"
)

// LoginResponse is the backend reply to a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// Login exchanges credentials for a bearer token and the user snapshot.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register submits a resident registration. The account stays pending until
// an admin approves it; no token is issued here.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile resolves the bearer credential into the current user.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
