package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OTPCode is one active verification code per phone number. Only the bcrypt
// hash of the code is stored.
type OTPCode struct {
	Phone       string     `gorm:"column:phone;primaryKey"`
	CodeHash    string     `gorm:"column:code_hash"`
	Attempts    int        `gorm:"column:attempts"`
	ResendCount int        `gorm:"column:resend_count"`
	LastSentAt  time.Time  `gorm:"column:last_sent_at"`
	ExpiresAt   time.Time  `gorm:"column:expires_at"`
	UsedAt      *time.Time `gorm:"column:used_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (OTPCode) TableName() string { return "otp_codes" }

type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Get(ctx context.Context, phone string) (*OTPCode, error) {
	var row OTPCode
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert replaces the active code for the phone in one statement.
func (r *OTPRepository) Upsert(ctx context.Context, row *OTPCode) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"code_hash", "attempts", "resend_count", "last_sent_at", "expires_at", "used_at",
		}),
	}).Create(row).Error
}

func (r *OTPRepository) MarkUsed(ctx context.Context, phone string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&OTPCode{}).
		Where("phone = ?", phone).
		Update("used_at", &now).Error
}

func (r *OTPRepository) IncrementAttempts(ctx context.Context, phone string) error {
	return r.db.WithContext(ctx).Model(&OTPCode{}).
		Where("phone = ?", phone).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

// DeleteExpired removes stale codes; the cleanup is best-effort and runs
// opportunistically from the auth service.
func (r *OTPRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().Add(-24*time.Hour)).
		Delete(&OTPCode{}).Error
}
