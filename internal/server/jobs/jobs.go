package jobs

import (
	"context"
	"errors"

	"kaambuddy/internal/domain"
	"kaambuddy/internal/server/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("job not found")
	ErrForbidden = errors.New("not the job owner")
	ErrNotOpen   = errors.New("job is not open")
)

type CreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Budget      float64 `json:"budget" binding:"gte=0"`
	Location    string  `json:"location"`
}

type UpdateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Budget      float64 `json:"budget"`
	Location    string  `json:"location"`
}

type Service struct {
	jobs *repository.JobRepository
}

func NewService(jobs *repository.JobRepository) *Service {
	return &Service{jobs: jobs}
}

func (s *Service) Create(ctx context.Context, customerID string, req CreateRequest) (*domain.Job, error) {
	job := &domain.Job{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
		Location:    req.Location,
		CustomerID:  customerID,
		Status:      domain.JobOpen,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Service) ListOpen(ctx context.Context, category, location string) ([]domain.Job, error) {
	return s.jobs.ListOpen(ctx, category, location)
}

func (s *Service) ListMine(ctx context.Context, customerID string) ([]domain.Job, error) {
	return s.jobs.ListByCustomer(ctx, customerID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return job, err
}

func (s *Service) Update(ctx context.Context, id, customerID string, req UpdateRequest) (*domain.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if job.Status != domain.JobOpen {
		return nil, ErrNotOpen
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.Category != "" {
		job.Category = req.Category
	}
	if req.Budget > 0 {
		job.Budget = req.Budget
	}
	if req.Location != "" {
		job.Location = req.Location
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Cancel marks the posting cancelled. Terminal statuses stay as they are.
func (s *Service) Cancel(ctx context.Context, id, customerID string) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.CustomerID != customerID {
		return ErrForbidden
	}
	if job.Status != domain.JobOpen {
		return ErrNotOpen
	}
	return s.jobs.UpdateStatus(ctx, id, domain.JobCancelled)
}
