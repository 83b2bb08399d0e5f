package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"kaambuddy/internal/credstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, credstore.Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := credstore.NewMemStore()
	c := New(Config{
		BaseURL:        srv.URL + "/api",
		Timeout:        2 * time.Second,
		RetryAttempts:  3,
		RetryBaseDelay: time.Millisecond,
	}, creds, nil)
	return c, creds, srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestRetriesTransientServerErrors(t *testing.T) {
	var calls int32
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeJSON(w, http.StatusInternalServerError, `{"success":false,"message":"boom"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":"b1","status":"pending"}]}`)
	})

	bookings, err := c.UserBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGivesUpAfterAllAttempts(t *testing.T) {
	var calls int32
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusInternalServerError, `{"success":false}`)
	})

	_, err := c.UserBookings(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServer))
	// 1 initial + 3 retries
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestBackoffDelaysBetweenAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"success":false}`)
	}))
	t.Cleanup(srv.Close)

	base := 20 * time.Millisecond
	c := New(Config{
		BaseURL:        srv.URL + "/api",
		Timeout:        time.Second,
		RetryAttempts:  2,
		RetryBaseDelay: base,
	}, credstore.NewMemStore(), nil)

	start := time.Now()
	_, err := c.UserBookings(context.Background())
	elapsed := time.Since(start)

	require.Error(t, err)
	// delays are 1x then 2x the base
	assert.GreaterOrEqual(t, elapsed, 3*base)
}

func TestUnauthorizedClearsCredentialsAndStopsRetrying(t *testing.T) {
	var calls int32
	c, creds, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"message":"expired"}`)
	})
	require.NoError(t, creds.SetToken("stale-token"))

	_, err := c.UserBookings(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthExpired))
	assert.EqualError(t, err, "[AUTH_EXPIRED] Authentication failed. Please login again.")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	token, err := creds.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestUnauthorizedMidRetryAbortsSequence(t *testing.T) {
	var calls int32
	c, creds, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeJSON(w, http.StatusInternalServerError, `{"success":false}`)
			return
		}
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"message":"expired"}`)
	})
	require.NoError(t, creds.SetToken("stale"))

	_, err := c.UserBookings(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthExpired))
	// the 500 was retried once, the 401 ended the sequence
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	token, err := creds.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
		msg    string
	}{
		{"forbidden", http.StatusForbidden, `{"success":false,"message":"not yours"}`, KindForbidden, "not yours"},
		{"forbidden default", http.StatusForbidden, ``, KindForbidden, "Access denied. You do not have permission to perform this action."},
		{"not found", http.StatusNotFound, `{"success":false,"message":"gone"}`, KindNotFound, "gone"},
		{"not found default", http.StatusNotFound, `<html>404</html>`, KindNotFound, "Resource not found."},
		{"bad request", http.StatusBadRequest, `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"bad phone"}}`, KindBadRequest, "bad phone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				writeJSON(w, tc.status, tc.body)
			})

			_, err := c.GetBooking(context.Background(), "b1")
			require.Error(t, err)
			assert.True(t, IsKind(err, tc.kind))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.msg, apiErr.Message)
			assert.Equal(t, tc.status, apiErr.Status)
			// nothing below 500 is retried
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestDomainFailureIsNotRetried(t *testing.T) {
	var calls int32
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, `{"success":false,"message":"Already accepted"}`)
	})

	err := c.AcceptBooking(context.Background(), "b1")
	require.Error(t, err)
	assert.True(t, IsDomain(err))
	assert.EqualError(t, err, "Already accepted")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMalformedBodyIsShapeError(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `this is not json`)
	})

	_, err := c.UserBookings(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindShape))
}

func TestBearerTokenInjection(t *testing.T) {
	var gotAuth, gotContentType string
	c, creds, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	})
	require.NoError(t, creds.SetToken("tok-123"))

	_, err := c.UserBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	})

	_, err := c.UserBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestContextCancellationStopsRetrying(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusInternalServerError, `{"success":false}`)
	}))
	t.Cleanup(srv.Close)

	c := New(Config{
		BaseURL:        srv.URL + "/api",
		Timeout:        time.Second,
		RetryAttempts:  5,
		RetryBaseDelay: 50 * time.Millisecond,
	}, credstore.NewMemStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.UserBookings(ctx)
	require.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestVerifyOTPPersistsCredentials(t *testing.T) {
	c, creds, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"token":"jwt-abc",
			"refreshToken":"ref-xyz",
			"user":{"id":"u1","name":"Asha","phone":"+91980","userType":"customer"}
		}}`)
	})

	res, err := c.VerifyOTP(context.Background(), "+91980", "123456")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "u1", res.User.ID)

	token, err := creds.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)

	refresh, err := creds.RefreshToken()
	require.NoError(t, err)
	assert.Equal(t, "ref-xyz", refresh)

	user, err := creds.User()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Asha", user.Name)
}

func TestLogoutClearsCredentialsEvenWhenServerFails(t *testing.T) {
	c, creds, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"success":false}`)
	})
	require.NoError(t, creds.SetToken("tok"))

	_ = c.Logout(context.Background())

	token, err := creds.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestHealthUsesRootPath(t *testing.T) {
	var gotPath string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, `{"success":true,"status":"ok"}`)
	})

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, "/health", gotPath)
}
