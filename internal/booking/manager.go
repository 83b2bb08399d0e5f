package booking

import (
	"context"
	"sync"

	"kaambuddy/internal/client"
	"kaambuddy/internal/domain"

	"go.uber.org/zap"
)

// Manager keeps the local view of the current user's bookings and drives
// status transitions against the server. The cache only changes after a
// confirmed server response: a successful transition call mutates exactly
// the matching booking, any failure leaves the list as it was, and
// Refresh replaces the whole list with server truth.
//
// Concurrent transitions on one booking id are not serialized beyond the
// list mutex; whichever server response resolves last wins. Refresh is the
// recovery path when that matters.
type Manager struct {
	api *client.Client
	log *zap.Logger

	mu       sync.Mutex
	bookings []domain.Booking
}

func NewManager(api *client.Client, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{api: api, log: log}
}

// Bookings returns a copy of the cached list.
func (m *Manager) Bookings() []domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out
}

// Refresh replaces the cache with the server's booking list. Safe to call
// at any time; this is the canonical resynchronization path.
func (m *Manager) Refresh(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := m.api.UserBookings(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.bookings = bookings
	m.mu.Unlock()
	return bookings, nil
}

// ApplyForJob creates a pending booking and prepends it to the cache once
// the server confirms. No optimistic insert before the response.
func (m *Manager) ApplyForJob(ctx context.Context, jobID, note string) (*domain.Booking, error) {
	booking, err := m.api.ApplyForJob(ctx, jobID, client.ApplyRequest{Note: note})
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.bookings = prepend(m.bookings, *booking)
	m.mu.Unlock()
	return booking, nil
}

// Get fetches a single booking without touching the cache.
func (m *Manager) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return m.api.GetBooking(ctx, bookingID)
}

// Accept moves a pending application to accepted. Customer action.
func (m *Manager) Accept(ctx context.Context, bookingID string) error {
	return m.apply(ctx, bookingID, domain.BookingAccepted, m.api.AcceptBooking)
}

// Reject declines a pending application. Customer action.
func (m *Manager) Reject(ctx context.Context, bookingID string) error {
	return m.apply(ctx, bookingID, domain.BookingRejected, m.api.RejectBooking)
}

// Start moves an accepted booking to in_progress. Worker action.
func (m *Manager) Start(ctx context.Context, bookingID string) error {
	return m.apply(ctx, bookingID, domain.BookingInProgress, m.api.StartJob)
}

// Complete finishes an in_progress booking. Worker action.
func (m *Manager) Complete(ctx context.Context, bookingID string) error {
	return m.apply(ctx, bookingID, domain.BookingCompleted, m.api.CompleteJob)
}

// apply runs the shared transition protocol: call the endpoint, and only on
// a confirmed success set the status on the one matching booking. Errors
// (transport or domain) propagate with the cache untouched; illegal
// transitions are the server's call, not ours.
func (m *Manager) apply(ctx context.Context, bookingID string, status domain.BookingStatus, call func(context.Context, string) error) error {
	if err := call(ctx, bookingID); err != nil {
		return err
	}
	m.mu.Lock()
	m.bookings = setStatus(m.bookings, bookingID, status)
	m.mu.Unlock()
	m.log.Debug("booking transition applied",
		zap.String("booking_id", bookingID),
		zap.String("status", string(status)))
	return nil
}

// Cancel cancels a pending or accepted booking (either party). A cancelled
// booking is removed from the cache rather than kept with a cancelled
// status; Refresh restores whatever record the server retains.
func (m *Manager) Cancel(ctx context.Context, bookingID string) error {
	if err := m.api.CancelBooking(ctx, bookingID); err != nil {
		return err
	}
	m.mu.Lock()
	m.bookings = removeByID(m.bookings, bookingID)
	m.mu.Unlock()
	return nil
}

// Pure list reducers. Each returns a fresh slice so a half-applied mutation
// can never be observed through Bookings().

func prepend(list []domain.Booking, b domain.Booking) []domain.Booking {
	out := make([]domain.Booking, 0, len(list)+1)
	out = append(out, b)
	return append(out, list...)
}

func setStatus(list []domain.Booking, id string, status domain.BookingStatus) []domain.Booking {
	out := make([]domain.Booking, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i].Status = status
		}
	}
	return out
}

func removeByID(list []domain.Booking, id string) []domain.Booking {
	out := make([]domain.Booking, 0, len(list))
	for _, b := range list {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
