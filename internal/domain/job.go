package domain

import "time"

type JobStatus string

const (
	JobOpen      JobStatus = "open"
	JobFilled    JobStatus = "filled"
	JobCancelled JobStatus = "cancelled"
)

type Job struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category"`
	Budget      float64   `json:"budget"`
	Location    string    `json:"location"`
	CustomerID  string    `json:"customerId" gorm:"index"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
