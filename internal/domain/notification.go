package domain

import "time"

type NotificationType string

const (
	NotifBookingApplied   NotificationType = "booking_applied"
	NotifBookingAccepted  NotificationType = "booking_accepted"
	NotifBookingRejected  NotificationType = "booking_rejected"
	NotifBookingStarted   NotificationType = "booking_started"
	NotifBookingCompleted NotificationType = "booking_completed"
	NotifBookingCancelled NotificationType = "booking_cancelled"
)

type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey"`
	UserID    string           `json:"userId" gorm:"index"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"created_at"`
}
