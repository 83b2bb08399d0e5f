package client

import (
	"context"
	"net/http"

	"kaambuddy/internal/domain"
)

type ApplyRequest struct {
	Note string `json:"note,omitempty"`
}

// ApplyForJob creates a pending booking for the job on behalf of the
// authenticated worker.
func (c *Client) ApplyForJob(ctx context.Context, jobID string, req ApplyRequest) (*domain.Booking, error) {
	env, err := c.do(ctx, http.MethodPost, "/bookings/jobs/"+jobID+"/apply", req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to apply for job")
	}
	var booking domain.Booking
	if err := decode(env, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// UserBookings returns every booking the authenticated user is a party to,
// as customer or as worker.
func (c *Client) UserBookings(ctx context.Context) ([]domain.Booking, error) {
	env, err := c.do(ctx, http.MethodGet, "/bookings", nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch bookings")
	}
	var bookings []domain.Booking
	if err := decode(env, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	env, err := c.do(ctx, http.MethodGet, "/bookings/"+bookingID, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch booking")
	}
	var booking domain.Booking
	if err := decode(env, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// The transition calls below deliberately return only an error: the caller
// already knows the target status and mutates its cache by booking id once
// the server confirms.

func (c *Client) AcceptBooking(ctx context.Context, bookingID string) error {
	return c.transition(ctx, bookingID, "accept", "Failed to accept booking")
}

func (c *Client) RejectBooking(ctx context.Context, bookingID string) error {
	return c.transition(ctx, bookingID, "reject", "Failed to reject booking")
}

func (c *Client) StartJob(ctx context.Context, bookingID string) error {
	return c.transition(ctx, bookingID, "start", "Failed to start job")
}

func (c *Client) CompleteJob(ctx context.Context, bookingID string) error {
	return c.transition(ctx, bookingID, "complete", "Failed to complete job")
}

func (c *Client) transition(ctx context.Context, bookingID, action, fallback string) error {
	env, err := c.do(ctx, http.MethodPut, "/bookings/"+bookingID+"/"+action, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), fallback)
	}
	return nil
}

func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	env, err := c.do(ctx, http.MethodDelete, "/bookings/"+bookingID, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), "Failed to cancel booking")
	}
	return nil
}
