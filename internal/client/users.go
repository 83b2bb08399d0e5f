package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"kaambuddy/internal/domain"

	"go.uber.org/zap"
)

type UpdateProfileRequest struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	WorkCategory string `json:"workCategory,omitempty"`
	Experience   string `json:"experience,omitempty"`
}

// WorkerFilters narrows ListWorkers; zero values are omitted.
type WorkerFilters struct {
	Category     string
	VerifiedOnly bool
}

func (f WorkerFilters) query() string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.VerifiedOnly {
		q.Set("verified", strconv.FormatBool(true))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/users/"+userID, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch profile")
	}
	var user domain.User
	if err := decode(env, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.User, error) {
	env, err := c.do(ctx, http.MethodPut, "/users/profile", req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to update profile")
	}
	var user domain.User
	if err := decode(env, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListWorkers(ctx context.Context, filters WorkerFilters) ([]domain.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/users/workers"+filters.query(), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch workers")
	}
	var workers []domain.User
	if err := decode(env, &workers); err != nil {
		return nil, err
	}
	return workers, nil
}

func (c *Client) UpdateFCMToken(ctx context.Context, token string) error {
	env, err := c.do(ctx, http.MethodPut, "/users/fcm-token", map[string]string{"fcmToken": token})
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), "Failed to update FCM token")
	}
	return nil
}

// DeactivateAccount deletes the account server-side and clears local
// credentials, mirroring Logout.
func (c *Client) DeactivateAccount(ctx context.Context) error {
	env, err := c.do(ctx, http.MethodDelete, "/users/deactivate", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), "Failed to deactivate account")
	}
	if clearErr := c.creds.Clear(); clearErr != nil {
		c.log.Warn("credstore clear failed after deactivation", zap.Error(clearErr))
	}
	return nil
}
