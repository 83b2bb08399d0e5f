package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"time"

	"kaambuddy/internal/domain"
	"kaambuddy/internal/pkg/jwt"
	"kaambuddy/internal/server/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxOTPAttempts = 5

// Service implements phone+OTP authentication. Codes are bcrypt-hashed at
// rest with a TTL and a resend cooldown; in dev mode the plain code is
// printed to the server log since no SMS gateway is wired locally.
type Service struct {
	users          *repository.UserRepository
	otps           *repository.OTPRepository
	jwt            *jwt.Service
	otpTTL         time.Duration
	resendCooldown time.Duration
	logOTP         bool
	onOTP          func(phone, code string)
}

// OnOTP registers a delivery hook invoked with every issued code. This is
// where a real SMS gateway would plug in; the dev server only logs.
func (s *Service) OnOTP(fn func(phone, code string)) { s.onOTP = fn }

type VerifyResult struct {
	User         *domain.User
	Token        string
	RefreshToken string
}

func NewService(
	users *repository.UserRepository,
	otps *repository.OTPRepository,
	jwtService *jwt.Service,
	otpTTL time.Duration,
	resendCooldown time.Duration,
	logOTP bool,
) *Service {
	return &Service{
		users:          users,
		otps:           otps,
		jwt:            jwtService,
		otpTTL:         otpTTL,
		resendCooldown: resendCooldown,
		logOTP:         logOTP,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if _, err := s.users.GetByPhone(ctx, req.Phone); err == nil {
		return nil, ErrPhoneAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	userType := domain.UserType(req.UserType)
	user := &domain.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		UserType: userType,
		IsActive: true,
	}
	if userType == domain.UserWorker {
		user.WorkCategory = req.WorkCategory
		user.Experience = req.Experience
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestOTP issues a fresh code for the phone, respecting the resend
// cooldown. Used by both login and resend-otp.
func (s *Service) RequestOTP(ctx context.Context, phone string) error {
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.IsActive {
		return ErrUserNotFound
	}

	now := time.Now()
	current, err := s.otps.Get(ctx, user.Phone)
	if err != nil {
		return err
	}

	resendCount := 1
	if current != nil {
		if current.LastSentAt.Add(s.resendCooldown).After(now) {
			return ErrResendCooldown
		}
		resendCount = current.ResendCount + 1
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	row := &repository.OTPCode{
		Phone:       user.Phone,
		CodeHash:    string(hash),
		Attempts:    0,
		ResendCount: resendCount,
		LastSentAt:  now,
		ExpiresAt:   now.Add(s.otpTTL),
		CreatedAt:   now,
	}
	if err := s.otps.Upsert(ctx, row); err != nil {
		return err
	}

	if s.logOTP {
		log.Printf("[DEV-SMS] otp phone=%s code=%s", user.Phone, code)
	}
	if s.onOTP != nil {
		s.onOTP(user.Phone, code)
	}

	// Opportunistic cleanup of long-dead codes.
	_ = s.otps.DeleteExpired(ctx)
	return nil
}

// VerifyOTP checks the code and, on success, marks the phone verified and
// issues the session tokens.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyResult, error) {
	user, err := s.users.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	row, err := s.otps.Get(ctx, user.Phone)
	if err != nil {
		return nil, err
	}
	if row == nil || row.UsedAt != nil {
		return nil, ErrNoPendingOTP
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, ErrOTPExpired
	}
	if row.Attempts >= maxOTPAttempts {
		return nil, ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(row.CodeHash), []byte(req.OTP)) != nil {
		_ = s.otps.IncrementAttempts(ctx, user.Phone)
		return nil, ErrOTPMismatch
	}

	if err := s.otps.MarkUsed(ctx, user.Phone); err != nil {
		return nil, err
	}

	if !user.IsPhoneVerified {
		user.IsPhoneVerified = true
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.UserType))
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		User:         user,
		Token:        token,
		RefreshToken: uuid.NewString(),
	}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func generateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	code := n.Int64()
	digits := []byte{
		byte('0' + code/100000%10),
		byte('0' + code/10000%10),
		byte('0' + code/1000%10),
		byte('0' + code/100%10),
		byte('0' + code/10%10),
		byte('0' + code%10),
	}
	return string(digits), nil
}
