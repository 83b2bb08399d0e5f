package domain

import "time"

type UserType string

const (
	UserCustomer UserType = "customer"
	UserWorker   UserType = "worker"
)

type User struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone" gorm:"uniqueIndex"`
	Email           string    `json:"email,omitempty"`
	UserType        UserType  `json:"userType"`
	WorkCategory    string    `json:"workCategory,omitempty"`
	Experience      string    `json:"experience,omitempty"`
	IsVerified      bool      `json:"isVerified"`
	IsPhoneVerified bool      `json:"isPhoneVerified"`
	FCMToken        string    `json:"-"`
	IsActive        bool      `json:"-" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
