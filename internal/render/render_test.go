package render_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/eduline/internal/middleware"
	"github.com/mkravets/eduline/internal/models"
	"github.com/mkravets/eduline/internal/render"
)

func testCourse() *models.Course {
	return &models.Course{
		ID:          "course-1",
		OwnerID:     "instructor-1",
		Title:       "Intro to Go",
		Description: "Go basics",
		Code:        "GO101",
		StudentIDs:  []string{"student-1"},
	}
}

func testAssignment() *models.Assignment {
	return &models.Assignment{
		ID:           "assignment-1",
		CourseID:     "course-1",
		InstructorID: "instructor-1",
		Title:        "Homework 1",
		Description:  "Write a program",
		DueAt:        time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Points:       100,
	}
}

func testQuiz() *models.Quiz {
	return &models.Quiz{
		ID:           "quiz-1",
		CourseID:     "course-1",
		InstructorID: "instructor-1",
		Title:        "Week 1 quiz",
		Questions: []models.Question{
			{Prompt: "2 + 2?", Options: []string{"3", "4"}, Correct: 1, Points: 10},
		},
	}
}

func testSubmission() *models.Submission {
	return &models.Submission{
		ID:           "submission-1",
		AssignmentID: "assignment-1",
		CourseID:     "course-1",
		StudentID:    "student-1",
		Content:      "my answer",
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  time.Now(),
	}
}

// Every page template renders with the data shape its handler passes.
func TestAllPagesRender(t *testing.T) {
	renderer, err := render.New(zerolog.Nop())
	require.NoError(t, err)

	student := &models.User{ID: "student-1", Role: models.RoleStudent, Name: "Ada"}
	instructor := &models.User{ID: "instructor-1", Role: models.RoleInstructor, Name: "Grace"}

	course := testCourse()
	assignment := testAssignment()
	quiz := testQuiz()
	submission := testSubmission()
	attempt := &models.QuizAttempt{
		ID: "attempt-1", QuizID: quiz.ID, CourseID: course.ID, StudentID: "student-1",
		Answers: []int{1}, Score: 10, MaxScore: 10, TakenAt: time.Now(),
	}

	cases := []struct {
		name     string
		user     *models.User
		data     interface{}
		contains string
	}{
		{"login.html", nil, nil, `name="password"`},
		{"register.html", nil, nil, `name="email"`},
		{"student_dashboard.html", student, []models.Course{*course}, "Intro to Go"},
		{"student_catalog.html", student, []models.Course{*course}, "GO101"},
		{"student_course.html", student, struct {
			Course      *models.Course
			Assignments []models.Assignment
			Quizzes     []models.Quiz
		}{course, []models.Assignment{*assignment}, []models.Quiz{*quiz}}, "Homework 1"},
		{"student_assignment.html", student, struct {
			Assignment *models.Assignment
			Submission *models.Submission
			CanSubmit  bool
		}{assignment, submission, true}, "my answer"},
		{"student_quiz.html", student, struct {
			Quiz    *models.QuizView
			Attempt *models.QuizAttempt
		}{models.NewQuizView(quiz), nil}, "2 + 2?"},
		{"student_grades.html", student, struct {
			Submissions []models.SubmissionWithDetails
			Attempts    []models.QuizAttemptWithDetails
		}{
			[]models.SubmissionWithDetails{{Submission: *submission, AssignmentTitle: "Homework 1"}},
			[]models.QuizAttemptWithDetails{{QuizAttempt: *attempt, QuizTitle: "Week 1 quiz"}},
		}, "Week 1 quiz"},
		{"instructor_dashboard.html", instructor, []models.CourseWithStats{
			{Course: *course, StudentCount: 1, AssignmentCount: 2, QuizCount: 3},
		}, "Intro to Go"},
		{"course_new.html", instructor, nil, `name="code"`},
		{"instructor_course.html", instructor, struct {
			Course      *models.Course
			Roster      []models.User
			Assignments []models.Assignment
			Quizzes     []models.Quiz
		}{course, []models.User{*student}, []models.Assignment{*assignment}, []models.Quiz{*quiz}}, "Ada"},
		{"assignment_new.html", instructor, struct {
			Course *models.Course
		}{course}, `name="due_at"`},
		{"assignment_submissions.html", instructor, struct {
			Assignment  *models.Assignment
			Submissions []models.SubmissionWithDetails
		}{assignment, []models.SubmissionWithDetails{{Submission: *submission, StudentName: "Ada"}}}, "Ada"},
		{"quiz_new.html", instructor, struct {
			Course *models.Course
			Slots  []int
		}{course, []int{1, 2, 3}}, `name="q1_prompt"`},
		{"quiz_results.html", instructor, struct {
			Quiz     *models.Quiz
			Attempts []models.QuizAttemptWithDetails
		}{quiz, []models.QuizAttemptWithDetails{{QuizAttempt: *attempt, StudentName: "Ada"}}}, "Ada"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			renderer.HTML(rec, http.StatusOK, tc.name, render.Page{
				Title: "Test",
				User:  tc.user,
				Data:  tc.data,
			})

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tc.contains)
		})
	}
}

func TestUnknownTemplateIs500(t *testing.T) {
	renderer, err := render.New(zerolog.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	renderer.HTML(rec, http.StatusOK, "missing.html", render.Page{})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFlashRenders(t *testing.T) {
	renderer, err := render.New(zerolog.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	renderer.HTML(rec, http.StatusOK, "login.html", render.Page{
		Title: "Sign in",
		Flash: &middleware.Flash{Type: "error", Message: "Invalid credentials"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Contains(t, rec.Body.String(), "flash-error")
}
