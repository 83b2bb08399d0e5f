package repository

import (
	"context"
	"time"

	"kaambuddy/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).Preload("Job").Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListForUser returns the bookings the user is a party to, on either side,
// newest first.
func (r *BookingRepository) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).Preload("Job").
		Where("worker_id = ? OR customer_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// HasActiveForJob reports whether the worker already holds a live booking
// (pending, accepted or in_progress) for the job.
func (r *BookingRepository) HasActiveForJob(ctx context.Context, jobID, workerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("job_id = ? AND worker_id = ? AND status IN ?",
			jobID, workerID,
			[]domain.BookingStatus{domain.BookingPending, domain.BookingAccepted, domain.BookingInProgress}).
		Count(&count).Error
	return count > 0, err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}
