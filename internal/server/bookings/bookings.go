package bookings

import (
	"context"
	"errors"
	"fmt"

	"kaambuddy/internal/domain"
	"kaambuddy/internal/server/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("booking not found")
	ErrJobNotFound  = errors.New("job not found")
	ErrForbidden    = errors.New("not a party to this booking")
	ErrJobNotOpen   = errors.New("job is not open")
	ErrOwnJob       = errors.New("cannot apply to own job")
	ErrWorkersOnly  = errors.New("only workers can apply")
	ErrAlreadyApplied  = errors.New("already applied to this job")
	ErrAlreadyAccepted = errors.New("already accepted")
	ErrBadTransition   = errors.New("transition not allowed")
)

type ApplyRequest struct {
	Note string `json:"note"`
}

type Service struct {
	bookings      *repository.BookingRepository
	jobs          *repository.JobRepository
	notifications *repository.NotificationRepository
	log           *zap.Logger
}

func NewService(bookings *repository.BookingRepository, jobs *repository.JobRepository, notifications *repository.NotificationRepository, log *zap.Logger) *Service {
	return &Service{bookings: bookings, jobs: jobs, notifications: notifications, log: log}
}

func (s *Service) Apply(ctx context.Context, jobID, workerID, userType, note string) (*domain.Booking, error) {
	if userType != "worker" {
		return nil, ErrWorkersOnly
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobOpen {
		return nil, ErrJobNotOpen
	}
	if job.CustomerID == workerID {
		return nil, ErrOwnJob
	}

	active, err := s.bookings.HasActiveForJob(ctx, jobID, workerID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrAlreadyApplied
	}

	booking := &domain.Booking{
		ID:         uuid.NewString(),
		JobID:      jobID,
		WorkerID:   workerID,
		CustomerID: job.CustomerID,
		Status:     domain.BookingPending,
		Note:       note,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	booking.Job = job

	s.notify(ctx, job.CustomerID, domain.NotifBookingApplied, "New application",
		fmt.Sprintf("A worker applied for %q", job.Title))
	return booking, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListForUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id, userID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if booking.WorkerID != userID && booking.CustomerID != userID {
		return nil, ErrForbidden
	}
	return booking, nil
}

// Accept moves a pending booking to accepted and marks the job filled.
// Only the customer who posted the job may accept.
func (s *Service) Accept(ctx context.Context, id, userID string) (*domain.Booking, error) {
	current, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingAccepted {
		return nil, ErrAlreadyAccepted
	}

	booking, err := s.transition(ctx, id, userID, domain.BookingAccepted, s.customerSide)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.UpdateStatus(ctx, booking.JobID, domain.JobFilled); err != nil {
		s.log.Warn("failed to mark job filled", zap.String("job_id", booking.JobID), zap.Error(err))
	}
	s.notify(ctx, booking.WorkerID, domain.NotifBookingAccepted, "Application accepted",
		"Your application was accepted")
	return booking, nil
}

func (s *Service) Reject(ctx context.Context, id, userID string) (*domain.Booking, error) {
	booking, err := s.transition(ctx, id, userID, domain.BookingRejected, s.customerSide)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, booking.WorkerID, domain.NotifBookingRejected, "Application rejected",
		"Your application was rejected")
	return booking, nil
}

func (s *Service) Start(ctx context.Context, id, userID string) (*domain.Booking, error) {
	booking, err := s.transition(ctx, id, userID, domain.BookingInProgress, s.workerSide)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, booking.CustomerID, domain.NotifBookingStarted, "Work started",
		"The worker has started the job")
	return booking, nil
}

func (s *Service) Complete(ctx context.Context, id, userID string) (*domain.Booking, error) {
	booking, err := s.transition(ctx, id, userID, domain.BookingCompleted, s.workerSide)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, booking.CustomerID, domain.NotifBookingCompleted, "Work completed",
		"The worker marked the job as completed")
	return booking, nil
}

// Cancel is allowed for either party while the booking is still pending or
// accepted. Cancelling an accepted booking reopens the job.
func (s *Service) Cancel(ctx context.Context, id, userID string) error {
	booking, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	if !booking.Status.CanTransitionTo(domain.BookingCancelled) {
		return ErrBadTransition
	}
	wasAccepted := booking.Status == domain.BookingAccepted
	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCancelled); err != nil {
		return err
	}
	if wasAccepted {
		if err := s.jobs.UpdateStatus(ctx, booking.JobID, domain.JobOpen); err != nil {
			s.log.Warn("failed to reopen job", zap.String("job_id", booking.JobID), zap.Error(err))
		}
	}

	other := booking.WorkerID
	if userID == booking.WorkerID {
		other = booking.CustomerID
	}
	s.notify(ctx, other, domain.NotifBookingCancelled, "Booking cancelled",
		"The booking was cancelled")
	return nil
}

func (s *Service) customerSide(b *domain.Booking, userID string) bool {
	return b.CustomerID == userID
}

func (s *Service) workerSide(b *domain.Booking, userID string) bool {
	return b.WorkerID == userID
}

func (s *Service) transition(ctx context.Context, id, userID string, next domain.BookingStatus, allowed func(*domain.Booking, string) bool) (*domain.Booking, error) {
	booking, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !allowed(booking, userID) {
		return nil, ErrForbidden
	}
	if !booking.Status.CanTransitionTo(next) {
		return nil, ErrBadTransition
	}
	if err := s.bookings.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	booking.Status = next
	return booking, nil
}

// notify is best effort: a lost notification never fails the lifecycle call.
func (s *Service) notify(ctx context.Context, userID string, typ domain.NotificationType, title, message string) {
	n := &domain.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Warn("failed to create notification", zap.String("user_id", userID), zap.Error(err))
	}
}
