package credstore

import (
	"encoding/json"
	"errors"
	"time"

	"kaambuddy/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type credentialRow struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (credentialRow) TableName() string { return "credentials" }

// GormStore persists credentials in a single key-value table, typically on
// a local sqlite file so a restarted process picks up the session again.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&credentialRow{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) get(key string) (string, error) {
	var row credentialRow
	err := s.db.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *GormStore) set(key, value string) error {
	row := credentialRow{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormStore) Token() (string, error) { return s.get(keyAuthToken) }

func (s *GormStore) SetToken(token string) error { return s.set(keyAuthToken, token) }

func (s *GormStore) RefreshToken() (string, error) { return s.get(keyRefreshToken) }

func (s *GormStore) SetRefreshToken(token string) error { return s.set(keyRefreshToken, token) }

func (s *GormStore) User() (*domain.User, error) {
	raw, err := s.get(keyUserData)
	if err != nil || raw == "" {
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) SetUser(user *domain.User) error {
	if user == nil {
		return s.set(keyUserData, "")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.set(keyUserData, string(raw))
}

func (s *GormStore) Clear() error {
	return s.db.Where("key IN ?", []string{keyAuthToken, keyRefreshToken, keyUserData}).
		Delete(&credentialRow{}).Error
}
