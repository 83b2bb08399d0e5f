package notification

import (
	"context"
	"sync"

	"kaambuddy/internal/client"
	"kaambuddy/internal/domain"

	"go.uber.org/zap"
)

// Feed caches the user's notifications plus the unread counter. Read/delete
// actions update the counter optimistically after the server confirms the
// call itself; RefreshUnread resyncs the counter from the server.
type Feed struct {
	api *client.Client
	log *zap.Logger

	mu            sync.Mutex
	notifications []domain.Notification
	unread        int
}

func NewFeed(api *client.Client, log *zap.Logger) *Feed {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{api: api, log: log}
}

func (f *Feed) Notifications() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Notification, len(f.notifications))
	copy(out, f.notifications)
	return out
}

func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// Refresh fully replaces the cached list.
func (f *Feed) Refresh(ctx context.Context) ([]domain.Notification, error) {
	notifications, err := f.api.Notifications(ctx)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.notifications = notifications
	f.mu.Unlock()
	return notifications, nil
}

// RefreshUnread resyncs the unread counter with the server.
func (f *Feed) RefreshUnread(ctx context.Context) (int, error) {
	count, err := f.api.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	f.unread = count
	f.mu.Unlock()
	return count, nil
}

func (f *Feed) MarkRead(ctx context.Context, notificationID string) error {
	if err := f.api.MarkRead(ctx, notificationID); err != nil {
		return err
	}
	f.mu.Lock()
	for i := range f.notifications {
		if f.notifications[i].ID == notificationID && !f.notifications[i].IsRead {
			f.notifications[i].IsRead = true
			if f.unread > 0 {
				f.unread--
			}
		}
	}
	f.mu.Unlock()
	return nil
}

func (f *Feed) MarkAllRead(ctx context.Context) error {
	if err := f.api.MarkAllRead(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	for i := range f.notifications {
		f.notifications[i].IsRead = true
	}
	f.unread = 0
	f.mu.Unlock()
	return nil
}

func (f *Feed) Delete(ctx context.Context, notificationID string) error {
	if err := f.api.DeleteNotification(ctx, notificationID); err != nil {
		return err
	}
	f.mu.Lock()
	kept := make([]domain.Notification, 0, len(f.notifications))
	for _, n := range f.notifications {
		if n.ID == notificationID {
			if !n.IsRead && f.unread > 0 {
				f.unread--
			}
			continue
		}
		kept = append(kept, n)
	}
	f.notifications = kept
	f.mu.Unlock()
	return nil
}

func (f *Feed) DeleteAll(ctx context.Context) error {
	if err := f.api.DeleteAllNotifications(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	f.notifications = nil
	f.unread = 0
	f.mu.Unlock()
	return nil
}

// Add inserts a locally received notification (e.g. relayed from a push
// payload) at the head of the list.
func (f *Feed) Add(n domain.Notification) {
	f.mu.Lock()
	f.notifications = append([]domain.Notification{n}, f.notifications...)
	if !n.IsRead {
		f.unread++
	}
	f.mu.Unlock()
}
