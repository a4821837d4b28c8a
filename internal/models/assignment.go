package models

import (
	"time"
)

type Assignment struct {
	ID           string    `json:"id" bson:"_id"`
	CourseID     string    `json:"course_id" bson:"course_id"`
	InstructorID string    `json:"instructor_id" bson:"instructor_id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	DueAt        time.Time `json:"due_at" bson:"due_at"`
	Points       int       `json:"points" bson:"points"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

func (a *Assignment) Overdue(now time.Time) bool {
	return !a.DueAt.IsZero() && now.After(a.DueAt)
}
