package client

import (
	"context"
	"net/http"

	"kaambuddy/internal/domain"

	"go.uber.org/zap"
)

type RegisterRequest struct {
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email,omitempty"`
	UserType     domain.UserType `json:"userType"`
	WorkCategory string          `json:"workCategory,omitempty"`
	Experience   string          `json:"experience,omitempty"`
}

// VerifyResult is the payload of a successful verify-otp call.
type VerifyResult struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         *domain.User `json:"user"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type verifyRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/register", req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Registration failed")
	}
	var user domain.User
	if err := decode(env, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login requests an OTP for the phone number. It never changes
// authentication state; the returned message is user-facing.
func (c *Client) Login(ctx context.Context, phone string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/login", phoneRequest{Phone: phone})
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", domainError(env.errMessage(), "Failed to send OTP")
	}
	return env.Message, nil
}

// VerifyOTP exchanges phone+code for a bearer token. On success the token,
// refresh token and user record are persisted to the credential store; an
// incorrect code is a domain failure and leaves the store untouched.
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (*VerifyResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/verify-otp", verifyRequest{Phone: phone, OTP: otp})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Invalid OTP")
	}
	var result VerifyResult
	if err := decode(env, &result); err != nil {
		return nil, err
	}
	if result.Token == "" || result.User == nil {
		return nil, newAPIError(KindShape, 0, "verify-otp response missing token or user", nil)
	}
	if err := c.creds.SetToken(result.Token); err != nil {
		return nil, err
	}
	if result.RefreshToken != "" {
		if err := c.creds.SetRefreshToken(result.RefreshToken); err != nil {
			c.log.Warn("failed to persist refresh token", zap.Error(err))
		}
	}
	if err := c.creds.SetUser(result.User); err != nil {
		c.log.Warn("failed to persist user record", zap.Error(err))
	}
	return &result, nil
}

func (c *Client) ResendOTP(ctx context.Context, phone string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/resend-otp", phoneRequest{Phone: phone})
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", domainError(env.errMessage(), "Failed to resend OTP")
	}
	return env.Message, nil
}

// CurrentUser fetches the authenticated user from /auth/me.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch current user")
	}
	var user domain.User
	if err := decode(env, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout tells the server to invalidate the session, then clears the
// credential store regardless of what the server answered.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil)
	if clearErr := c.creds.Clear(); clearErr != nil {
		c.log.Warn("credstore clear failed on logout", zap.Error(clearErr))
	}
	return err
}
