package model

import "time"

type Student struct {
	ID            string    `json:"id"`
	StudentNumber string    `json:"student_number"`
	Name          string    `json:"name"`
	Grade         string    `json:"grade,omitempty"`
	Major         string    `json:"major,omitempty"`
	ClassName     string    `json:"class_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
