package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mostaqbalcity/forumclient/internal/models"
)

// GetPosts fetches the full group-feed post collection. The backend returns
// newest first; ordering for display is the feed store's concern.
func (c *Client) GetPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a new post to the group feed. The created post reaches
// the client through the push echo, not through this response.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/posts", req, nil)
}

// DeletePost removes the caller's own post.
func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil, nil)
}
