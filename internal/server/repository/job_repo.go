package repository

import (
	"context"
	"time"

	"kaambuddy/internal/domain"

	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListOpen returns open postings, newest first, optionally filtered by
// category and location.
func (r *JobRepository) ListOpen(ctx context.Context, category, location string) ([]domain.Job, error) {
	q := r.db.WithContext(ctx).Where("status = ?", domain.JobOpen)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if location != "" {
		q = q.Where("location LIKE ?", "%"+location+"%")
	}

	var jobs []domain.Job
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}
