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

type AssignmentService interface {
	CreateAssignment(ctx context.Context, ownerID, courseID string, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	AssignmentForStudent(ctx context.Context, studentID, assignmentID string) (*models.Assignment, *models.Submission, error)
	AssignmentForInstructor(ctx context.Context, ownerID, assignmentID string) (*models.Assignment, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	courseRepo     repository.CourseRepository
	logger         zerolog.Logger
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	courseRepo repository.CourseRepository,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		courseRepo:     courseRepo,
		logger:         logger,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, ownerID, courseID string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, models.ErrCourseNotFound
	}
	if course.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}

	var dueAt time.Time
	if req.DueAt != "" {
		dueAt, err = time.Parse("2006-01-02", req.DueAt)
		if err != nil {
			return nil, fmt.Errorf("invalid due date: %w", err)
		}
	}

	now := time.Now().UTC()
	assignment := &models.Assignment{
		ID:           uuid.New().String(),
		CourseID:     courseID,
		InstructorID: ownerID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		DueAt:        dueAt,
		Points:       req.Points,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info().
		Str("assignment_id", assignment.ID).
		Str("course_id", courseID).
		Msg("Assignment created")

	return assignment, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, models.ErrAssignmentNotFound
	}
	return assignment, nil
}

func (s *assignmentService) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// AssignmentForStudent checks enrollment and returns the student's existing
// submission, if any, next to the assignment.
func (s *assignmentService) AssignmentForStudent(ctx context.Context, studentID, assignmentID string) (*models.Assignment, *models.Submission, error) {
	assignment, err := s.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, assignment.CourseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil || !course.HasStudent(studentID) {
		return nil, nil, models.ErrNotEnrolled
	}

	submission, err := s.submissionRepo.GetByStudentAndAssignment(ctx, studentID, assignmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return assignment, submission, nil
}

func (s *assignmentService) AssignmentForInstructor(ctx context.Context, ownerID, assignmentID string) (*models.Assignment, error) {
	assignment, err := s.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.InstructorID != ownerID {
		return nil, models.ErrForbidden
	}
	return assignment, nil
}
