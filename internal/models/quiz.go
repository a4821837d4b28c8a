package models

import (
	"time"
)

type Question struct {
	Prompt  string   `json:"prompt" bson:"prompt"`
	Options []string `json:"options" bson:"options"`
	Correct int      `json:"correct" bson:"correct"`
	Points  int      `json:"points" bson:"points"`
}

type Quiz struct {
	ID           string     `json:"id" bson:"_id"`
	CourseID     string     `json:"course_id" bson:"course_id"`
	InstructorID string     `json:"instructor_id" bson:"instructor_id"`
	Title        string     `json:"title" bson:"title"`
	Questions    []Question `json:"questions" bson:"questions"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

func (q *Quiz) MaxScore() int {
	var total int
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// Score grades a set of answers against the quiz. Answers are option
// indexes, one per question; -1 marks an unanswered question.
func (q *Quiz) Score(answers []int) int {
	var score int
	for i, question := range q.Questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == question.Correct {
			score += question.Points
		}
	}
	return score
}

type QuizAttempt struct {
	ID        string    `json:"id" bson:"_id"`
	QuizID    string    `json:"quiz_id" bson:"quiz_id"`
	CourseID  string    `json:"course_id" bson:"course_id"`
	StudentID string    `json:"student_id" bson:"student_id"`
	Answers   []int     `json:"answers" bson:"answers"`
	Score     int       `json:"score" bson:"score"`
	MaxScore  int       `json:"max_score" bson:"max_score"`
	TakenAt   time.Time `json:"taken_at" bson:"taken_at"`
}

type QuizAttemptWithDetails struct {
	QuizAttempt
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	QuizTitle    string `json:"quiz_title"`
}
