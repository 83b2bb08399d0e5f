package session

import (
	"context"
	"sync"

	"kaambuddy/internal/client"
	"kaambuddy/internal/credstore"
	"kaambuddy/internal/domain"

	"go.uber.org/zap"
)

// Manager owns the authentication state machine:
// anonymous -> otp requested -> authenticated, back to anonymous on logout
// or when any call comes back 401. The OTP-entry step itself is UI state;
// the manager only flips to authenticated on a confirmed verify-otp.
type Manager struct {
	api   *client.Client
	store credstore.Store
	log   *zap.Logger

	mu            sync.Mutex
	currentUser   *domain.User
	authenticated bool
	loading       bool
}

func NewManager(api *client.Client, store credstore.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{api: api, store: store, log: log}
}

func (m *Manager) CurrentUser() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentUser == nil {
		return nil
	}
	u := *m.currentUser
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

// Login asks the server to send an OTP. Authentication state is unchanged.
func (m *Manager) Login(ctx context.Context, phone string) (string, error) {
	m.setLoading(true)
	defer m.setLoading(false)
	return m.api.Login(ctx, phone)
}

// VerifyOTP completes the login. The API client persists the token and user
// to the credential store on success; here the in-memory state flips.
func (m *Manager) VerifyOTP(ctx context.Context, phone, otp string) (*domain.User, error) {
	m.setLoading(true)
	defer m.setLoading(false)

	result, err := m.api.VerifyOTP(ctx, phone, otp)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.currentUser = result.User
	m.authenticated = true
	m.mu.Unlock()
	return result.User, nil
}

func (m *Manager) ResendOTP(ctx context.Context, phone string) (string, error) {
	m.setLoading(true)
	defer m.setLoading(false)
	return m.api.ResendOTP(ctx, phone)
}

func (m *Manager) Register(ctx context.Context, req client.RegisterRequest) (*domain.User, error) {
	m.setLoading(true)
	defer m.setLoading(false)
	return m.api.Register(ctx, req)
}

// Logout invalidates the session remotely on a best-effort basis. The local
// session always ends, even when the server is unreachable.
func (m *Manager) Logout(ctx context.Context) {
	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn("remote logout failed, clearing local session anyway", zap.Error(err))
	}

	m.mu.Lock()
	m.currentUser = nil
	m.authenticated = false
	m.mu.Unlock()
}

// CheckAuthStatus restores a session at startup. A stored token is validated
// by fetching /auth/me; any failure purges credentials and leaves the
// session anonymous. Startup never fails because a token expired.
func (m *Manager) CheckAuthStatus(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	token, err := m.store.Token()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.log.Info("stored token rejected, starting anonymous", zap.Error(err))
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Warn("credstore clear failed", zap.Error(clearErr))
		}
		return nil
	}

	m.mu.Lock()
	m.currentUser = user
	m.authenticated = true
	m.mu.Unlock()
	return nil
}

// UpdateProfile pushes profile changes and merges the confirmed record into
// the session and the credential cache.
func (m *Manager) UpdateProfile(ctx context.Context, req client.UpdateProfileRequest) (*domain.User, error) {
	m.setLoading(true)
	defer m.setLoading(false)

	user, err := m.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.currentUser = user
	m.mu.Unlock()

	if err := m.store.SetUser(user); err != nil {
		m.log.Warn("failed to persist updated user", zap.Error(err))
	}
	return user, nil
}

// RefreshUserData refetches /auth/me into the session. Failures are
// non-fatal: the cached record stays.
func (m *Manager) RefreshUserData(ctx context.Context) {
	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.log.Warn("user refresh failed", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.currentUser = user
	m.mu.Unlock()

	if err := m.store.SetUser(user); err != nil {
		m.log.Warn("failed to persist refreshed user", zap.Error(err))
	}
}
