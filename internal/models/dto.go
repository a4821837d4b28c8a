package models

// Form inputs bound from request bodies.

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=student instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Code        string `json:"code" validate:"required,min=2,max=32"`
}

type CreateAssignmentRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=5000"`
	DueAt       string `json:"due_at" validate:"omitempty,datetime=2006-01-02"`
	Points      int    `json:"points" validate:"required,min=1,max=1000"`
}

type SubmitAssignmentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=50000"`
}

type GradeSubmissionRequest struct {
	Points  int    `json:"points" validate:"min=0,max=1000"`
	Comment string `json:"comment" validate:"max=2000"`
}

type CreateQuizRequest struct {
	Title     string                  `json:"title" validate:"required,min=3,max=255"`
	Questions []CreateQuestionRequest `json:"questions" validate:"required,min=1,max=100,dive"`
}

type CreateQuestionRequest struct {
	Prompt  string   `json:"prompt" validate:"required,min=1,max=2000"`
	Options []string `json:"options" validate:"required,min=2,max=10,dive,required,max=500"`
	Correct int      `json:"correct" validate:"min=0"`
	Points  int      `json:"points" validate:"required,min=1,max=100"`
}

type AttemptQuizRequest struct {
	Answers []int `json:"answers" validate:"required"`
}

// QuizView is what a student sees while taking a quiz: the correct option
// index is never exposed.
type QuizView struct {
	ID        string         `json:"id"`
	CourseID  string         `json:"course_id"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
	MaxScore  int            `json:"max_score"`
}

type QuestionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Points  int      `json:"points"`
}

func NewQuizView(quiz *Quiz) *QuizView {
	view := &QuizView{
		ID:       quiz.ID,
		CourseID: quiz.CourseID,
		Title:    quiz.Title,
		MaxScore: quiz.MaxScore(),
	}
	for _, q := range quiz.Questions {
		view.Questions = append(view.Questions, QuestionView{
			Prompt:  q.Prompt,
			Options: q.Options,
			Points:  q.Points,
		})
	}
	return view
}
