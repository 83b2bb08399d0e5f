package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingAccepted   BookingStatus = "accepted"
	BookingRejected   BookingStatus = "rejected"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// CanTransitionTo reports whether moving to next is allowed by the booking
// lifecycle. The server is the only authority that consults this table; the
// mobile/SDK side always sends the request and lets the server answer.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingAccepted || next == BookingRejected || next == BookingCancelled
	case BookingAccepted:
		return next == BookingInProgress || next == BookingCancelled
	case BookingInProgress:
		return next == BookingCompleted
	default:
		// rejected, completed, cancelled are terminal
		return false
	}
}

func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCompleted || s == BookingCancelled
}

type Booking struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	JobID      string        `json:"jobId" gorm:"index"`
	Job        *Job          `json:"job,omitempty" gorm:"foreignKey:JobID"`
	WorkerID   string        `json:"workerId" gorm:"index"`
	CustomerID string        `json:"customerId" gorm:"index"`
	Status     BookingStatus `json:"status"`
	Note       string        `json:"note,omitempty" gorm:"type:text"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
