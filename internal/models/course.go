package models

import (
	"time"
)

type Course struct {
	ID          string    `json:"id" bson:"_id"`
	OwnerID     string    `json:"owner_id" bson:"owner_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Code        string    `json:"code" bson:"code"`
	StudentIDs  []string  `json:"student_ids" bson:"student_ids"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

func (c *Course) HasStudent(studentID string) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

type CourseWithStats struct {
	Course
	StudentCount    int `json:"student_count"`
	AssignmentCount int `json:"assignment_count"`
	QuizCount       int `json:"quiz_count"`
}
