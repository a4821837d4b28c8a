package httpd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkravets/eduline/internal/middleware"
	"github.com/mkravets/eduline/internal/models"
)

// Question slots offered on the new-quiz form.
const quizFormSlots = 5

type instructorCoursePage struct {
	Course      *models.Course
	Roster      []models.User
	Assignments []models.Assignment
	Quizzes     []models.Quiz
}

type coursePage struct {
	Course *models.Course
}

type quizNewPage struct {
	Course *models.Course
	Slots  []int
}

type submissionsPage struct {
	Assignment  *models.Assignment
	Submissions []models.SubmissionWithDetails
}

type quizResultsPage struct {
	Quiz     *models.Quiz
	Attempts []models.QuizAttemptWithDetails
}

func (h *Handler) InstructorDashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	courses, err := h.courseService.ListOwned(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	h.renderer.HTML(w, http.StatusOK, "instructor_dashboard.html", h.page(r, "My courses", courses))
}

func (h *Handler) NewCourseForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, http.StatusOK, "course_new.html", h.page(r, "New course", nil))
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, "/instructor/courses/new", "Invalid form data")
		return
	}

	req := &models.CreateCourseRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Code:        r.FormValue("code"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.redirectError(w, r, "/instructor/courses/new", "Title and code are required")
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), user.ID, req)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/courses/new")
		return
	}

	h.redirectSuccess(w, r, "/instructor/courses/"+course.ID, "Course created")
}

func (h *Handler) InstructorCourse(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	course, roster, err := h.courseService.CourseForInstructor(r.Context(), user.ID, courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	assignments, err := h.assignmentService.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	quizzes, err := h.quizService.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	data := instructorCoursePage{
		Course:      course,
		Roster:      roster,
		Assignments: assignments,
		Quizzes:     quizzes,
	}
	h.renderer.HTML(w, http.StatusOK, "instructor_course.html", h.page(r, course.Title, data))
}

func (h *Handler) NewAssignmentForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	course, _, err := h.courseService.CourseForInstructor(r.Context(), user.ID, courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	h.renderer.HTML(w, http.StatusOK, "assignment_new.html", h.page(r, "New assignment", coursePage{Course: course}))
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	backURL := "/instructor/courses/" + courseID + "/assignments/new"

	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, backURL, "Invalid form data")
		return
	}

	req := &models.CreateAssignmentRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		DueAt:       r.FormValue("due_at"),
		Points:      formInt(r, "points", 0),
	}
	if err := h.validate.Struct(req); err != nil {
		h.redirectError(w, r, backURL, "Title and a points value between 1 and 1000 are required")
		return
	}

	if _, err := h.assignmentService.CreateAssignment(r.Context(), user.ID, courseID, req); err != nil {
		h.handleServiceError(w, r, err, backURL)
		return
	}

	h.redirectSuccess(w, r, "/instructor/courses/"+courseID, "Assignment created")
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	assignmentID := chi.URLParam(r, "assignmentID")

	assignment, submissions, err := h.submissionService.ListByAssignment(r.Context(), user.ID, assignmentID)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	data := submissionsPage{
		Assignment:  assignment,
		Submissions: submissions,
	}
	h.renderer.HTML(w, http.StatusOK, "assignment_submissions.html", h.page(r, assignment.Title, data))
}

func (h *Handler) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	submissionID := chi.URLParam(r, "submissionID")

	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, "/instructor/dashboard", "Invalid form data")
		return
	}

	req := &models.GradeSubmissionRequest{
		Points:  formInt(r, "points", -1),
		Comment: r.FormValue("comment"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.redirectError(w, r, "/instructor/dashboard", "Points must be zero or more")
		return
	}

	submission, err := h.submissionService.GradeSubmission(r.Context(), user.ID, submissionID, req)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	backURL := "/instructor/assignments/" + submission.AssignmentID + "/submissions"
	h.redirectSuccess(w, r, backURL, "Grade saved")
}

func (h *Handler) NewQuizForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	course, _, err := h.courseService.CourseForInstructor(r.Context(), user.ID, courseID)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	slots := make([]int, quizFormSlots)
	for i := range slots {
		slots[i] = i + 1
	}

	h.renderer.HTML(w, http.StatusOK, "quiz_new.html", h.page(r, "New quiz", quizNewPage{Course: course, Slots: slots}))
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	backURL := "/instructor/courses/" + courseID + "/quizzes/new"

	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, backURL, "Invalid form data")
		return
	}

	req := &models.CreateQuizRequest{
		Title:     r.FormValue("title"),
		Questions: parseQuestionForm(r),
	}
	if err := h.validate.Struct(req); err != nil {
		h.redirectError(w, r, backURL, "A quiz needs a title and at least one complete question")
		return
	}

	if _, err := h.quizService.CreateQuiz(r.Context(), user.ID, courseID, req); err != nil {
		h.handleServiceError(w, r, err, backURL)
		return
	}

	h.redirectSuccess(w, r, "/instructor/courses/"+courseID, "Quiz created")
}

func (h *Handler) QuizResults(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	quizID := chi.URLParam(r, "quizID")

	quiz, attempts, err := h.quizService.ResultsForInstructor(r.Context(), user.ID, quizID)
	if err != nil {
		h.handleServiceError(w, r, err, "/instructor/dashboard")
		return
	}

	data := quizResultsPage{
		Quiz:     quiz,
		Attempts: attempts,
	}
	h.renderer.HTML(w, http.StatusOK, "quiz_results.html", h.page(r, quiz.Title, data))
}

// parseQuestionForm collects the filled-in question slots from the new-quiz
// form. The form numbers slots and options from 1, the model from 0.
func parseQuestionForm(r *http.Request) []models.CreateQuestionRequest {
	var questions []models.CreateQuestionRequest
	for slot := 1; slot <= quizFormSlots; slot++ {
		prompt := strings.TrimSpace(r.FormValue(fmt.Sprintf("q%d_prompt", slot)))
		if prompt == "" {
			continue
		}

		// Blank option slots are dropped, so the 1-based correct choice has
		// to be remapped onto whatever options survive. A correct choice
		// pointing at a blank slot stays -1 and fails validation.
		correctSlot := formInt(r, fmt.Sprintf("q%d_correct", slot), 1) - 1
		correct := -1
		var options []string
		for opt := 0; opt < 4; opt++ {
			value := strings.TrimSpace(r.FormValue(fmt.Sprintf("q%d_opt%d", slot, opt)))
			if value == "" {
				continue
			}
			if opt == correctSlot {
				correct = len(options)
			}
			options = append(options, value)
		}

		questions = append(questions, models.CreateQuestionRequest{
			Prompt:  prompt,
			Options: options,
			Correct: correct,
			Points:  formInt(r, fmt.Sprintf("q%d_points", slot), 10),
		})
	}
	return questions
}
