package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kaambuddy/internal/client"
	"kaambuddy/internal/credstore"
	"kaambuddy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(t *testing.T, handler http.HandlerFunc) *Feed {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := client.New(client.Config{
		BaseURL:        srv.URL + "/api",
		Timeout:        2 * time.Second,
		RetryAttempts:  1,
		RetryBaseDelay: time.Millisecond,
	}, credstore.NewMemStore(), nil)
	return NewFeed(api, nil)
}

func feedHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/notifications":
			fmt.Fprint(w, `{"success":true,"data":[
				{"id":"n1","type":"booking_accepted","title":"Accepted","isRead":false},
				{"id":"n2","type":"booking_applied","title":"New application","isRead":false},
				{"id":"n3","type":"booking_completed","title":"Done","isRead":true}
			]}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/notifications/unread-count":
			fmt.Fprint(w, `{"success":true,"data":{"count":2}}`)
		default:
			fmt.Fprint(w, `{"success":true,"message":"ok"}`)
		}
	}
}

func TestRefreshAndUnreadCount(t *testing.T) {
	f := newTestFeed(t, feedHandler(t))
	ctx := context.Background()

	items, err := f.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	count, err := f.RefreshUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, f.Unread())
}

func TestMarkReadDecrementsOnce(t *testing.T) {
	f := newTestFeed(t, feedHandler(t))
	ctx := context.Background()

	_, err := f.Refresh(ctx)
	require.NoError(t, err)
	_, err = f.RefreshUnread(ctx)
	require.NoError(t, err)

	require.NoError(t, f.MarkRead(ctx, "n1"))
	assert.Equal(t, 1, f.Unread())
	assert.True(t, f.Notifications()[0].IsRead)

	// already read, counter unchanged
	require.NoError(t, f.MarkRead(ctx, "n1"))
	assert.Equal(t, 1, f.Unread())

	// n3 was read from the start
	require.NoError(t, f.MarkRead(ctx, "n3"))
	assert.Equal(t, 1, f.Unread())
}

func TestMarkAllRead(t *testing.T) {
	f := newTestFeed(t, feedHandler(t))
	ctx := context.Background()

	_, err := f.Refresh(ctx)
	require.NoError(t, err)
	_, err = f.RefreshUnread(ctx)
	require.NoError(t, err)

	require.NoError(t, f.MarkAllRead(ctx))
	assert.Equal(t, 0, f.Unread())
	for _, n := range f.Notifications() {
		assert.True(t, n.IsRead)
	}
}

func TestDeleteAdjustsCounterForUnreadOnly(t *testing.T) {
	f := newTestFeed(t, feedHandler(t))
	ctx := context.Background()

	_, err := f.Refresh(ctx)
	require.NoError(t, err)
	_, err = f.RefreshUnread(ctx)
	require.NoError(t, err)

	require.NoError(t, f.Delete(ctx, "n3"))
	assert.Equal(t, 2, f.Unread(), "deleting a read notification keeps the counter")
	assert.Len(t, f.Notifications(), 2)

	require.NoError(t, f.Delete(ctx, "n1"))
	assert.Equal(t, 1, f.Unread())
	assert.Len(t, f.Notifications(), 1)
}

func TestDeleteAllResetsEverything(t *testing.T) {
	f := newTestFeed(t, feedHandler(t))
	ctx := context.Background()

	_, err := f.Refresh(ctx)
	require.NoError(t, err)
	_, err = f.RefreshUnread(ctx)
	require.NoError(t, err)

	require.NoError(t, f.DeleteAll(ctx))
	assert.Empty(t, f.Notifications())
	assert.Equal(t, 0, f.Unread())
}

func TestFailureLeavesFeedUntouched(t *testing.T) {
	f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/notifications":
			fmt.Fprint(w, `{"success":true,"data":[{"id":"n1","isRead":false}]}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"success":false}`)
		}
	})
	ctx := context.Background()

	_, err := f.Refresh(ctx)
	require.NoError(t, err)
	before := f.Notifications()

	err = f.MarkRead(ctx, "n1")
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindServer))
	assert.Equal(t, before, f.Notifications())
}

func TestAddPrependsAndCounts(t *testing.T) {
	f := newTestFeed(t, feedHandler(t))

	f.Add(domain.Notification{ID: "p1", Type: domain.NotifBookingAccepted, Title: "Accepted"})
	f.Add(domain.Notification{ID: "p2", Type: domain.NotifBookingStarted, Title: "Started", IsRead: true})

	list := f.Notifications()
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].ID)
	assert.Equal(t, 1, f.Unread())
}
