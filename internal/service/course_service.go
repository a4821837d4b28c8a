package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkravets/eduline/internal/models"
	"github.com/mkravets/eduline/internal/repository"
)

type CourseService interface {
	CreateCourse(ctx context.Context, ownerID string, req *models.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListOwned(ctx context.Context, ownerID string) ([]models.CourseWithStats, error)
	ListEnrolled(ctx context.Context, studentID string) ([]models.Course, error)
	ListCatalog(ctx context.Context, studentID string) ([]models.Course, error)
	Enroll(ctx context.Context, studentID, courseID string) (*models.Course, error)
	CourseForStudent(ctx context.Context, studentID, courseID string) (*models.Course, error)
	CourseForInstructor(ctx context.Context, ownerID, courseID string) (*models.Course, []models.User, error)
}

type courseService struct {
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
	assignmentRepo repository.AssignmentRepository
	quizRepo       repository.QuizRepository
	logger         zerolog.Logger
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	quizRepo repository.QuizRepository,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		quizRepo:       quizRepo,
		logger:         logger,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, ownerID string, req *models.CreateCourseRequest) (*models.Course, error) {
	now := time.Now().UTC()
	course := &models.Course{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		StudentIDs:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info().
		Str("course_id", course.ID).
		Str("owner_id", ownerID).
		Msg("Course created")

	return course, nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, models.ErrCourseNotFound
	}
	return course, nil
}

func (s *courseService) ListOwned(ctx context.Context, ownerID string) ([]models.CourseWithStats, error) {
	courses, err := s.courseRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	stats := make([]models.CourseWithStats, 0, len(courses))
	for _, course := range courses {
		assignments, err := s.assignmentRepo.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count assignments: %w", err)
		}
		quizzes, err := s.quizRepo.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count quizzes: %w", err)
		}
		stats = append(stats, models.CourseWithStats{
			Course:          course,
			StudentCount:    len(course.StudentIDs),
			AssignmentCount: int(assignments),
			QuizCount:       int(quizzes),
		})
	}

	return stats, nil
}

func (s *courseService) ListEnrolled(ctx context.Context, studentID string) ([]models.Course, error) {
	courses, err := s.courseRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
	}
	return courses, nil
}

// ListCatalog returns courses the student has not joined yet.
func (s *courseService) ListCatalog(ctx context.Context, studentID string) ([]models.Course, error) {
	all, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	var open []models.Course
	for _, course := range all {
		if !course.HasStudent(studentID) {
			open = append(open, course)
		}
	}
	return open, nil
}

func (s *courseService) Enroll(ctx context.Context, studentID, courseID string) (*models.Course, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course.HasStudent(studentID) {
		return nil, models.ErrAlreadyEnrolled
	}

	if err := s.courseRepo.AddStudent(ctx, courseID, studentID); err != nil {
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("student_id", studentID).
		Msg("Student enrolled")

	course.StudentIDs = append(course.StudentIDs, studentID)
	return course, nil
}

func (s *courseService) CourseForStudent(ctx context.Context, studentID, courseID string) (*models.Course, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.HasStudent(studentID) {
		return nil, models.ErrNotEnrolled
	}
	return course, nil
}

func (s *courseService) CourseForInstructor(ctx context.Context, ownerID, courseID string) (*models.Course, []models.User, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	if course.OwnerID != ownerID {
		return nil, nil, models.ErrForbidden
	}

	roster, err := s.userRepo.GetByIDs(ctx, course.StudentIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load roster: %w", err)
	}

	return course, roster, nil
}
