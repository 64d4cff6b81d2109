package dto

import "time"

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest is a partial patch: only fields present in the request
// body are applied. Every task column is patchable, owner included.
type UpdateTaskRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Category           *string    `json:"category"`
	Priority           *string    `json:"priority"`
	EstimatedTimeHours *float64   `json:"estimated_time_hours"`
	DueDate            *time.Time `json:"due_date"`
	Completed          *bool      `json:"completed"`
	UserID             *string    `json:"user_id"`
}
