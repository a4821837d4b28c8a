package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkravets/eduline/internal/models"
	"github.com/mkravets/eduline/internal/repository"
	"github.com/mkravets/eduline/internal/service/integration"
)

type SubmissionService interface {
	Submit(ctx context.Context, studentID, assignmentID string, req *models.SubmitAssignmentRequest) (*models.Submission, error)
	GradeSubmission(ctx context.Context, ownerID, submissionID string, req *models.GradeSubmissionRequest) (*models.Submission, error)
	ListByAssignment(ctx context.Context, ownerID, assignmentID string) (*models.Assignment, []models.SubmissionWithDetails, error)
	GradesForStudent(ctx context.Context, studentID string) ([]models.SubmissionWithDetails, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	assignmentRepo repository.AssignmentRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
	publisher      integration.EventPublisher
	logger         zerolog.Logger
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

// Submit creates the student's submission for an assignment. Until the
// submission is graded a repeated submit replaces the content; after grading
// it is rejected so the grade record stays attached to what was graded.
func (s *submissionService) Submit(ctx context.Context, studentID, assignmentID string, req *models.SubmitAssignmentRequest) (*models.Submission, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, models.ErrAssignmentNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, assignment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil || !course.HasStudent(studentID) {
		return nil, models.ErrNotEnrolled
	}

	content := strings.TrimSpace(req.Content)

	existing, err := s.submissionRepo.GetByStudentAndAssignment(ctx, studentID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}

	if existing != nil {
		if existing.IsGraded() {
			return nil, models.ErrAlreadyGraded
		}
		if err := s.submissionRepo.UpdateContent(ctx, existing.ID, content); err != nil {
			return nil, fmt.Errorf("failed to update submission: %w", err)
		}

		s.logger.Info().
			Str("submission_id", existing.ID).
			Str("student_id", studentID).
			Msg("Submission replaced")

		existing.Content = content
		existing.SubmittedAt = time.Now().UTC()
		return existing, nil
	}

	now := time.Now().UTC()
	submission := &models.Submission{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		CourseID:     assignment.CourseID,
		StudentID:    studentID,
		Content:      content,
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		if errors.Is(err, models.ErrAlreadySubmitted) {
			return nil, models.ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("student_id", studentID).
		Str("assignment_id", assignmentID).
		Msg("Submission created")

	if s.publisher != nil {
		event := &models.SubmissionCreatedEvent{
			SubmissionID: submission.ID,
			AssignmentID: assignmentID,
			CourseID:     assignment.CourseID,
			StudentID:    studentID,
			Timestamp:    now.Unix(),
		}
		if err := s.publisher.PublishSubmissionCreated(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish submission created event")
		}
	}

	return submission, nil
}

func (s *submissionService) GradeSubmission(ctx context.Context, ownerID, submissionID string, req *models.GradeSubmissionRequest) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, models.ErrSubmissionNotFound
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, models.ErrAssignmentNotFound
	}
	if assignment.InstructorID != ownerID {
		return nil, models.ErrForbidden
	}

	if req.Points > assignment.Points {
		return nil, models.ErrInvalidGrade
	}

	grade := &models.Grade{
		Points:   req.Points,
		Comment:  strings.TrimSpace(req.Comment),
		GradedAt: time.Now().UTC(),
	}

	// Regrading is allowed; the new grade overwrites the old one.
	if err := s.submissionRepo.SetGrade(ctx, submissionID, grade); err != nil {
		return nil, fmt.Errorf("failed to set grade: %w", err)
	}

	s.logger.Info().
		Str("submission_id", submissionID).
		Int("points", req.Points).
		Msg("Submission graded")

	if s.publisher != nil {
		event := &models.SubmissionGradedEvent{
			SubmissionID: submissionID,
			AssignmentID: submission.AssignmentID,
			StudentID:    submission.StudentID,
			Points:       req.Points,
			Timestamp:    grade.GradedAt.Unix(),
		}
		if err := s.publisher.PublishSubmissionGraded(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to publish submission graded event")
		}
	}

	submission.Grade = grade
	submission.Status = models.SubmissionStatusGraded
	return submission, nil
}

func (s *submissionService) ListByAssignment(ctx context.Context, ownerID, assignmentID string) (*models.Assignment, []models.SubmissionWithDetails, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, nil, models.ErrAssignmentNotFound
	}
	if assignment.InstructorID != ownerID {
		return nil, nil, models.ErrForbidden
	}

	submissions, err := s.submissionRepo.GetByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	details, err := s.withDetails(ctx, submissions, map[string]string{assignment.ID: assignment.Title})
	if err != nil {
		return nil, nil, err
	}

	return assignment, details, nil
}

func (s *submissionService) GradesForStudent(ctx context.Context, studentID string) ([]models.SubmissionWithDetails, error) {
	submissions, err := s.submissionRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	titles := make(map[string]string)
	for _, sub := range submissions {
		if _, ok := titles[sub.AssignmentID]; ok {
			continue
		}
		assignment, err := s.assignmentRepo.GetByID(ctx, sub.AssignmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get assignment: %w", err)
		}
		if assignment != nil {
			titles[sub.AssignmentID] = assignment.Title
		}
	}

	return s.withDetails(ctx, submissions, titles)
}

func (s *submissionService) withDetails(ctx context.Context, submissions []models.Submission, titles map[string]string) ([]models.SubmissionWithDetails, error) {
	ids := make([]string, 0, len(submissions))
	seen := make(map[string]bool)
	for _, sub := range submissions {
		if !seen[sub.StudentID] {
			seen[sub.StudentID] = true
			ids = append(ids, sub.StudentID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	details := make([]models.SubmissionWithDetails, 0, len(submissions))
	for _, sub := range submissions {
		d := models.SubmissionWithDetails{
			Submission:      sub,
			AssignmentTitle: titles[sub.AssignmentID],
		}
		if u, ok := byID[sub.StudentID]; ok {
			d.StudentName = u.Name
			d.StudentEmail = u.Email
		}
		details = append(details, d)
	}

	return details, nil
}
