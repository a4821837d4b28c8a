package httpd

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mkravets/eduline/internal/config"
	"github.com/mkravets/eduline/internal/middleware"
	"github.com/mkravets/eduline/internal/models"
	"github.com/mkravets/eduline/internal/render"
	"github.com/mkravets/eduline/internal/service"
	"github.com/mkravets/eduline/pkg/utils"
)

type Handler struct {
	authService       service.AuthService
	courseService     service.CourseService
	assignmentService service.AssignmentService
	submissionService service.SubmissionService
	quizService       service.QuizService
	renderer          *render.Renderer
	validate          *validator.Validate
	sessionCfg        config.SessionConfig
	secureCookies     bool
	logger            zerolog.Logger
}

func NewHandler(
	authService service.AuthService,
	courseService service.CourseService,
	assignmentService service.AssignmentService,
	submissionService service.SubmissionService,
	quizService service.QuizService,
	renderer *render.Renderer,
	sessionCfg config.SessionConfig,
	secureCookies bool,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authService:       authService,
		courseService:     courseService,
		assignmentService: assignmentService,
		submissionService: submissionService,
		quizService:       quizService,
		renderer:          renderer,
		validate:          validator.New(),
		sessionCfg:        sessionCfg,
		secureCookies:     secureCookies,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/api/health", h.HealthCheck)

	router.Get("/", h.Home)
	router.Get("/login", h.ShowLogin)
	router.Post("/login", h.Login)
	router.Get("/register", h.ShowRegister)
	router.Post("/register", h.Register)
	router.Post("/logout", h.Logout)

	router.Route("/student", func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleStudent))
		r.Get("/dashboard", h.StudentDashboard)
		r.Get("/courses", h.CourseCatalog)
		r.Get("/courses/{courseID}", h.StudentCourse)
		r.Post("/courses/{courseID}/enroll", h.Enroll)
		r.Get("/assignments/{assignmentID}", h.StudentAssignment)
		r.Post("/assignments/{assignmentID}/submit", h.SubmitAssignment)
		r.Get("/quizzes/{quizID}", h.StudentQuiz)
		r.Post("/quizzes/{quizID}/attempt", h.AttemptQuiz)
		r.Get("/grades", h.StudentGrades)
	})

	router.Route("/instructor", func(r chi.Router) {
		r.Use(middleware.RequireRole(models.RoleInstructor))
		r.Get("/dashboard", h.InstructorDashboard)
		r.Get("/courses/new", h.NewCourseForm)
		r.Post("/courses", h.CreateCourse)
		r.Get("/courses/{courseID}", h.InstructorCourse)
		r.Get("/courses/{courseID}/assignments/new", h.NewAssignmentForm)
		r.Post("/courses/{courseID}/assignments", h.CreateAssignment)
		r.Get("/assignments/{assignmentID}/submissions", h.ListSubmissions)
		r.Post("/submissions/{submissionID}/grade", h.GradeSubmission)
		r.Get("/courses/{courseID}/quizzes/new", h.NewQuizForm)
		r.Post("/courses/{courseID}/quizzes", h.CreateQuiz)
		r.Get("/quizzes/{quizID}/results", h.QuizResults)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Home routes a visitor to their dashboard, or to the login page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	http.Redirect(w, r, middleware.DashboardPath(user), http.StatusSeeOther)
}

func (h *Handler) page(r *http.Request, title string, data interface{}) render.Page {
	return render.Page{
		Title: title,
		User:  middleware.UserFromContext(r.Context()),
		Flash: middleware.FlashFromContext(r.Context()),
		Data:  data,
	}
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, url, message string) {
	middleware.SetFlash(w, "error", message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *Handler) redirectSuccess(w http.ResponseWriter, r *http.Request, url, message string) {
	middleware.SetFlash(w, "success", message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

var domainErrors = []error{
	models.ErrInvalidCredentials,
	models.ErrEmailTaken,
	models.ErrCourseNotFound,
	models.ErrAssignmentNotFound,
	models.ErrSubmissionNotFound,
	models.ErrQuizNotFound,
	models.ErrAlreadyEnrolled,
	models.ErrNotEnrolled,
	models.ErrAlreadyGraded,
	models.ErrAlreadySubmitted,
	models.ErrAlreadyAttempted,
	models.ErrInvalidGrade,
	models.ErrInvalidQuestion,
	models.ErrForbidden,
}

func isDomainError(err error) bool {
	for _, sentinel := range domainErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// handleServiceError flashes domain errors back to the user and returns a
// bare 500 for everything else.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, backURL string) {
	if isDomainError(err) {
		h.redirectError(w, r, backURL, err.Error())
		return
	}

	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Service error")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func formInt(r *http.Request, key string, defaultValue int) int {
	value := r.FormValue(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
