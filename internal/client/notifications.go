package client

import (
	"context"
	"net/http"
	"strings"

	"kaambuddy/internal/domain"
)

func (c *Client) Notifications(ctx context.Context) ([]domain.Notification, error) {
	env, err := c.do(ctx, http.MethodGet, "/notifications", nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch notifications")
	}
	var notifications []domain.Notification
	if err := decode(env, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	env, err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil)
	if err != nil {
		return 0, err
	}
	if !env.Success {
		return 0, domainError(env.errMessage(), "Failed to fetch unread count")
	}
	var payload struct {
		Count int `json:"count"`
	}
	if err := decode(env, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

func (c *Client) MarkRead(ctx context.Context, notificationID string) error {
	env, err := c.do(ctx, http.MethodPut, "/notifications/"+notificationID+"/read", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), "Failed to mark notification as read")
	}
	return nil
}

func (c *Client) MarkAllRead(ctx context.Context) error {
	env, err := c.do(ctx, http.MethodPut, "/notifications/read-all", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), "Failed to mark all notifications as read")
	}
	return nil
}

func (c *Client) DeleteNotification(ctx context.Context, notificationID string) error {
	env, err := c.do(ctx, http.MethodDelete, "/notifications/"+notificationID, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), "Failed to delete notification")
	}
	return nil
}

func (c *Client) DeleteAllNotifications(ctx context.Context) error {
	env, err := c.do(ctx, http.MethodDelete, "/notifications", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), "Failed to delete notifications")
	}
	return nil
}

// Health probes the server liveness endpoint, which lives outside the /api
// prefix.
func (c *Client) Health(ctx context.Context) error {
	root := strings.TrimSuffix(c.baseURL, "/api")
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, root+"/health", nil)
	if err != nil {
		return newAPIError(KindBadRequest, 0, "failed to build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return newAPIError(KindNetwork, 0, "health check failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return newAPIError(KindServer, resp.StatusCode, "health check failed", nil)
	}
	return nil
}
