package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mostaqbalcity/forumclient/internal/models"
)

// GetAllUsers lists every account. Admin only.
func (c *Client) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetPendingUsers lists accounts awaiting approval. Admin only.
func (c *Client) GetPendingUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/admin/pending-users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ApproveUser approves a pending registration.
func (c *Client) ApproveUser(ctx context.Context, userID int64) error {
	return c.userAction(ctx, userID, "approve")
}

// RejectUser rejects a pending registration.
func (c *Client) RejectUser(ctx context.Context, userID int64) error {
	return c.userAction(ctx, userID, "reject")
}

// BanUser bans an approved account.
func (c *Client) BanUser(ctx context.Context, userID int64) error {
	return c.userAction(ctx, userID, "ban")
}

// UnbanUser lifts a ban.
func (c *Client) UnbanUser(ctx context.Context, userID int64) error {
	return c.userAction(ctx, userID, "unban")
}

func (c *Client) userAction(ctx context.Context, userID int64, action string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/%s", userID, action), nil, nil)
}

// AdminDeletePost removes any user's post as a moderation action. The stream
// reflects it through a partial post_update push event.
func (c *Client) AdminDeletePost(ctx context.Context, postID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/posts/%d/delete", postID), nil, nil)
}

// AdminDeleteAdvertisement removes any user's advertisement as a moderation
// action.
func (c *Client) AdminDeleteAdvertisement(ctx context.Context, adID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/advertisements/%d/delete", adID), nil, nil)
}
