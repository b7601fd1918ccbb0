package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mostaqbalcity/forumclient/internal/models"
)

// GetMessages fetches every direct message where the current user is sender
// or recipient.
func (c *Client) GetMessages(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MessageAdmin sends a message from a resident to the admin. The backend
// resolves which admin receives it.
func (c *Client) MessageAdmin(ctx context.Context, req SendMessageRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/messages/admin", req, nil)
}

// ReplyToUser sends a message from an admin to a specific user.
func (c *Client) ReplyToUser(ctx context.Context, userID int64, req SendMessageRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/reply/%d", userID), req, nil)
}

// MarkMessageRead marks a direct message as read.
func (c *Client) MarkMessageRead(ctx context.Context, messageID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/%d/read", messageID), nil, nil)
}

// DeleteMessage removes a message, scoped to the (sender, recipient, message)
// triple the backend keys deletions on.
func (c *Client) DeleteMessage(ctx context.Context, senderID, recipientID, messageID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/messages/%d/%d/%d", senderID, recipientID, messageID), nil, nil)
}
