package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kaambuddy/internal/client"
	"kaambuddy/internal/credstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, handler http.HandlerFunc) (*Manager, credstore.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := credstore.NewMemStore()
	api := client.New(client.Config{
		BaseURL:        srv.URL + "/api",
		Timeout:        2 * time.Second,
		RetryAttempts:  1,
		RetryBaseDelay: time.Millisecond,
	}, creds, nil)
	return NewManager(api, creds, nil), creds
}

func TestVerifyOTPEstablishesSession(t *testing.T) {
	m, creds := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			fmt.Fprint(w, `{"success":true,"message":"OTP sent"}`)
		case "/api/auth/verify-otp":
			fmt.Fprint(w, `{"success":true,"data":{
				"token":"jwt-1","refreshToken":"ref-1",
				"user":{"id":"u1","name":"Asha","phone":"+91980","userType":"customer"}
			}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	msg, err := m.Login(ctx, "+91980")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent", msg)
	assert.False(t, m.IsAuthenticated(), "requesting an OTP is not a login")

	user, err := m.VerifyOTP(ctx, "+91980", "123456")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "Asha", m.CurrentUser().Name)

	token, err := creds.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", token)
}

func TestVerifyOTPFailureStaysAnonymous(t *testing.T) {
	m, creds := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"Invalid OTP"}`)
	})

	_, err := m.VerifyOTP(context.Background(), "+91980", "000000")
	require.Error(t, err)
	assert.True(t, client.IsDomain(err))
	assert.EqualError(t, err, "Invalid OTP")
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.CurrentUser())

	token, err := creds.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	m, creds := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/verify-otp":
			fmt.Fprint(w, `{"success":true,"data":{
				"token":"jwt-1","user":{"id":"u1","name":"Asha","userType":"customer"}
			}}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"success":false}`)
		}
	})

	ctx := context.Background()
	_, err := m.VerifyOTP(ctx, "+91980", "123456")
	require.NoError(t, err)
	require.True(t, m.IsAuthenticated())

	m.Logout(ctx)

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.CurrentUser())
	token, err := creds.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestCheckAuthStatusRestoresSession(t *testing.T) {
	m, creds := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"success":true,"data":{"id":"u1","name":"Asha","userType":"customer"}}`)
	})
	require.NoError(t, creds.SetToken("stored-token"))

	require.NoError(t, m.CheckAuthStatus(context.Background()))
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "u1", m.CurrentUser().ID)
}

func TestCheckAuthStatusWithoutTokenIsNoop(t *testing.T) {
	m, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a stored token")
	})

	require.NoError(t, m.CheckAuthStatus(context.Background()))
	assert.False(t, m.IsAuthenticated())
}

func TestCheckAuthStatusPurgesRejectedToken(t *testing.T) {
	m, creds := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"success":false,"message":"expired"}`)
	})
	require.NoError(t, creds.SetToken("stale"))

	// startup must not fail because a token expired
	require.NoError(t, m.CheckAuthStatus(context.Background()))
	assert.False(t, m.IsAuthenticated())

	token, err := creds.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestUpdateProfileMergesConfirmedRecord(t *testing.T) {
	m, creds := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/verify-otp":
			fmt.Fprint(w, `{"success":true,"data":{
				"token":"jwt-1","user":{"id":"u1","name":"Asha","userType":"customer"}
			}}`)
		case "/api/users/profile":
			assert.Equal(t, http.MethodPut, r.Method)
			fmt.Fprint(w, `{"success":true,"data":{"id":"u1","name":"Asha V","userType":"customer"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	_, err := m.VerifyOTP(ctx, "+91980", "123456")
	require.NoError(t, err)

	user, err := m.UpdateProfile(ctx, client.UpdateProfileRequest{Name: "Asha V"})
	require.NoError(t, err)
	assert.Equal(t, "Asha V", user.Name)
	assert.Equal(t, "Asha V", m.CurrentUser().Name)

	stored, err := creds.User()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Asha V", stored.Name)
}
