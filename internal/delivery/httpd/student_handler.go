package httpd

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkravets/eduline/internal/middleware"
	"github.com/mkravets/eduline/internal/models"
)

type studentCoursePage struct {
	Course      *models.Course
	Assignments []models.Assignment
	Quizzes     []models.Quiz
}

type studentAssignmentPage struct {
	Assignment *models.Assignment
	Submission *models.Submission
	CanSubmit  bool
}

type studentQuizPage struct {
	Quiz    *models.QuizView
	Attempt *models.QuizAttempt
}

type studentGradesPage struct {
	Submissions []models.SubmissionWithDetails
	Attempts    []models.QuizAttemptWithDetails
}

func (h *Handler) StudentDashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	courses, err := h.courseService.ListEnrolled(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	h.renderer.HTML(w, http.StatusOK, "student_dashboard.html", h.page(r, "My courses", courses))
}

func (h *Handler) CourseCatalog(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	courses, err := h.courseService.ListCatalog(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	h.renderer.HTML(w, http.StatusOK, "student_catalog.html", h.page(r, "Catalog", courses))
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	course, err := h.courseService.Enroll(r.Context(), user.ID, courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/courses")
		return
	}

	h.redirectSuccess(w, r, "/student/courses/"+course.ID, fmt.Sprintf("Enrolled in %s", course.Title))
}

func (h *Handler) StudentCourse(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	course, err := h.courseService.CourseForStudent(r.Context(), user.ID, courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	assignments, err := h.assignmentService.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	quizzes, err := h.quizService.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	data := studentCoursePage{
		Course:      course,
		Assignments: assignments,
		Quizzes:     quizzes,
	}
	h.renderer.HTML(w, http.StatusOK, "student_course.html", h.page(r, course.Title, data))
}

func (h *Handler) StudentAssignment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	assignmentID := chi.URLParam(r, "assignmentID")

	assignment, submission, err := h.assignmentService.AssignmentForStudent(r.Context(), user.ID, assignmentID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	data := studentAssignmentPage{
		Assignment: assignment,
		Submission: submission,
		CanSubmit:  submission == nil || !submission.IsGraded(),
	}
	h.renderer.HTML(w, http.StatusOK, "student_assignment.html", h.page(r, assignment.Title, data))
}

func (h *Handler) SubmitAssignment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	assignmentID := chi.URLParam(r, "assignmentID")
	backURL := "/student/assignments/" + assignmentID

	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, backURL, "Invalid form data")
		return
	}

	req := &models.SubmitAssignmentRequest{
		Content: r.FormValue("content"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.redirectError(w, r, backURL, "Submission content is required")
		return
	}

	if _, err := h.submissionService.Submit(r.Context(), user.ID, assignmentID, req); err != nil {
		h.handleServiceError(w, r, err, backURL)
		return
	}

	h.redirectSuccess(w, r, backURL, "Submission received")
}

func (h *Handler) StudentQuiz(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	quizID := chi.URLParam(r, "quizID")

	quiz, attempt, err := h.quizService.QuizForStudent(r.Context(), user.ID, quizID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	data := studentQuizPage{
		Quiz:    quiz,
		Attempt: attempt,
	}
	h.renderer.HTML(w, http.StatusOK, "student_quiz.html", h.page(r, quiz.Title, data))
}

func (h *Handler) AttemptQuiz(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	quizID := chi.URLParam(r, "quizID")
	backURL := "/student/quizzes/" + quizID

	quiz, _, err := h.quizService.QuizForStudent(r.Context(), user.ID, quizID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, backURL, "Invalid form data")
		return
	}

	answers := make([]int, len(quiz.Questions))
	for i := range quiz.Questions {
		answers[i] = formInt(r, fmt.Sprintf("q%d", i), -1)
	}

	req := &models.AttemptQuizRequest{Answers: answers}
	attempt, err := h.quizService.Attempt(r.Context(), user.ID, quizID, req)
	if err != nil {
		h.handleServiceError(w, r, err, backURL)
		return
	}

	h.redirectSuccess(w, r, backURL, fmt.Sprintf("Scored %d of %d", attempt.Score, attempt.MaxScore))
}

func (h *Handler) StudentGrades(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	submissions, err := h.submissionService.GradesForStudent(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	attempts, err := h.quizService.AttemptsForStudent(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, r, err, "/student/dashboard")
		return
	}

	data := studentGradesPage{
		Submissions: submissions,
		Attempts:    attempts,
	}
	h.renderer.HTML(w, http.StatusOK, "student_grades.html", h.page(r, "My grades", data))
}
