package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"kaambuddy/internal/credstore"

	"go.uber.org/zap"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = time.Second
)

// Envelope is the response convention of the KaamBuddy backend: success
// carries data and/or message, failure carries message (and sometimes a
// structured error block). Domain failures arrive as 200 + success:false.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *ErrorBody      `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Envelope) errMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error != nil {
		return e.Error.Message
	}
	return ""
}

// Config holds the transport knobs. Zero values fall back to the defaults
// the mobile app shipped with (10s timeout, 3 retries, 1s linear backoff).
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

// Client is the single choke-point for all calls to the remote service.
// It injects the bearer token from the credential store, enforces a
// per-attempt timeout, retries transient failures with linearly increasing
// backoff and maps HTTP status codes onto the APIError taxonomy.
type Client struct {
	baseURL        string
	http           *http.Client
	creds          credstore.Store
	log            *zap.Logger
	timeout        time.Duration
	retryAttempts  int
	retryBaseDelay time.Duration
}

func New(cfg Config, creds credstore.Store, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = defaultRetryBaseDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           &http.Client{},
		creds:          creds,
		log:            log,
		timeout:        cfg.Timeout,
		retryAttempts:  cfg.RetryAttempts,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// BaseURL returns the configured API root (including the /api prefix).
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one logical request: up to 1+retryAttempts transport attempts
// for network/timeout/5xx failures, no retry for anything else. A 401 from
// any attempt purges the credential store and aborts the retry sequence.
func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, newAPIError(KindBadRequest, 0, "failed to encode request body", err)
		}
	}

	token, err := c.creds.Token()
	if err != nil {
		c.log.Warn("credstore read failed", zap.Error(err))
	}

	url := c.baseURL + path
	var lastErr *APIError

	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryBaseDelay
			c.log.Debug("retrying request",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, newAPIError(KindNetwork, 0, "request cancelled", ctx.Err())
			}
		}

		env, apiErr := c.attempt(ctx, method, url, token, payload)
		if apiErr == nil {
			return env, nil
		}
		if !apiErr.Retryable() {
			return nil, apiErr
		}
		// Caller-side cancellation is not a transient failure.
		if ctx.Err() != nil {
			return nil, apiErr
		}
		lastErr = apiErr
	}

	c.log.Warn("request failed after retries",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("attempts", c.retryAttempts+1),
		zap.Error(lastErr))
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, url, token string, payload []byte) (*Envelope, *APIError) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, url, reader)
	if err != nil {
		return nil, newAPIError(KindBadRequest, 0, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, newAPIError(KindNetwork, 0, "request timed out", err)
		}
		return nil, newAPIError(KindNetwork, 0, "network failure", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newAPIError(KindNetwork, resp.StatusCode, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Token is no longer valid: purge everything and force re-login.
		// Callers must not retry this.
		if err := c.creds.Clear(); err != nil {
			c.log.Warn("credstore clear failed", zap.Error(err))
		}
		return nil, newAPIError(KindAuthExpired, resp.StatusCode,
			"Authentication failed. Please login again.", nil)
	case resp.StatusCode == http.StatusForbidden:
		return nil, newAPIError(KindForbidden, resp.StatusCode,
			messageOr(raw, "Access denied. You do not have permission to perform this action."), nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, newAPIError(KindNotFound, resp.StatusCode,
			messageOr(raw, "Resource not found."), nil)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, newAPIError(KindServer, resp.StatusCode,
			"Server error. Please try again later.", nil)
	case resp.StatusCode >= 400:
		return nil, newAPIError(KindBadRequest, resp.StatusCode,
			messageOr(raw, "Request failed"), nil)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, newAPIError(KindShape, resp.StatusCode, "malformed response body", err)
	}
	return &env, nil
}

// messageOr pulls the envelope message out of an error body when the server
// sent one, otherwise returns the fallback.
func messageOr(raw []byte, fallback string) string {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if m := env.errMessage(); m != "" {
			return m
		}
	}
	return fallback
}

// decode unmarshals env.Data into out, treating a missing or mismatched
// payload as a shape error rather than silently leaving out zeroed.
func decode(env *Envelope, out any) error {
	if len(env.Data) == 0 {
		return newAPIError(KindShape, 0, "response data missing", nil)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return newAPIError(KindShape, 0, "response data has unexpected shape", err)
	}
	return nil
}
