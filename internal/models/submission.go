package models

import (
	"time"
)

type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

func (s SubmissionStatus) String() string {
	return string(s)
}

type Grade struct {
	Points   int       `json:"points" bson:"points"`
	Comment  string    `json:"comment" bson:"comment"`
	GradedAt time.Time `json:"graded_at" bson:"graded_at"`
}

type Submission struct {
	ID           string           `json:"id" bson:"_id"`
	AssignmentID string           `json:"assignment_id" bson:"assignment_id"`
	CourseID     string           `json:"course_id" bson:"course_id"`
	StudentID    string           `json:"student_id" bson:"student_id"`
	Content      string           `json:"content" bson:"content"`
	Status       SubmissionStatus `json:"status" bson:"status"`
	Grade        *Grade           `json:"grade,omitempty" bson:"grade,omitempty"`
	SubmittedAt  time.Time        `json:"submitted_at" bson:"submitted_at"`
	UpdatedAt    time.Time        `json:"updated_at" bson:"updated_at"`
}

func (s *Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded && s.Grade != nil
}

type SubmissionWithDetails struct {
	Submission
	StudentName     string `json:"student_name"`
	StudentEmail    string `json:"student_email"`
	AssignmentTitle string `json:"assignment_title"`
}
