package repository

import (
	"context"
	"strings"
	"time"

	"kaambuddy/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Phone = normalizePhone(user.Phone)
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("phone = ?", normalizePhone(phone)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(user).Error
}

// ListWorkers returns active workers, optionally narrowed by category and
// verification flag.
func (r *UserRepository) ListWorkers(ctx context.Context, category string, verifiedOnly bool) ([]domain.User, error) {
	q := r.db.WithContext(ctx).
		Where("user_type = ? AND is_active = ?", domain.UserWorker, true)
	if category != "" {
		q = q.Where("work_category = ?", category)
	}
	if verifiedOnly {
		q = q.Where("is_verified = ?", true)
	}

	var workers []domain.User
	if err := q.Order("created_at DESC").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()}).Error
}

func normalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}
