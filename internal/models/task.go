package model

import "time"

const (
	DefaultCategory = "Other"
	DefaultPriority = "Medium"
)

type Task struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	UserID             string     `gorm:"size:36;not null;index" json:"user_id"`
	Title              string     `gorm:"not null" json:"title"`
	Description        string     `json:"description"`
	Category           string     `gorm:"type:varchar(50);not null" json:"category"`
	Priority           string     `gorm:"type:varchar(20);not null" json:"priority"`
	EstimatedTimeHours *float64   `json:"estimated_time_hours,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	Completed          bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt          time.Time  `json:"created_at"`
}
