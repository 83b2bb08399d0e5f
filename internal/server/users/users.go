package users

import (
	"context"
	"errors"

	"kaambuddy/internal/domain"
	"kaambuddy/internal/server/repository"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("user not found")

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	WorkCategory string `json:"workCategory"`
	Experience   string `json:"experience"`
}

type FCMTokenRequest struct {
	FCMToken string `json:"fcmToken" binding:"required"`
}

type Service struct {
	users *repository.UserRepository
}

func NewService(users *repository.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *Service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if user.UserType == domain.UserWorker {
		if req.WorkCategory != "" {
			user.WorkCategory = req.WorkCategory
		}
		if req.Experience != "" {
			user.Experience = req.Experience
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) ListWorkers(ctx context.Context, category string, verifiedOnly bool) ([]domain.User, error) {
	return s.users.ListWorkers(ctx, category, verifiedOnly)
}

func (s *Service) UpdateFCMToken(ctx context.Context, id, token string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	user.FCMToken = token
	return s.users.Update(ctx, user)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.users.Deactivate(ctx, id)
}
