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
)

type QuizService interface {
	CreateQuiz(ctx context.Context, ownerID, courseID string, req *models.CreateQuizRequest) (*models.Quiz, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Quiz, error)
	QuizForStudent(ctx context.Context, studentID, quizID string) (*models.QuizView, *models.QuizAttempt, error)
	Attempt(ctx context.Context, studentID, quizID string, req *models.AttemptQuizRequest) (*models.QuizAttempt, error)
	ResultsForInstructor(ctx context.Context, ownerID, quizID string) (*models.Quiz, []models.QuizAttemptWithDetails, error)
	AttemptsForStudent(ctx context.Context, studentID string) ([]models.QuizAttemptWithDetails, error)
}

type quizService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.QuizAttemptRepository
	courseRepo  repository.CourseRepository
	userRepo    repository.UserRepository
	logger      zerolog.Logger
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.QuizAttemptRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) QuizService {
	return &quizService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		courseRepo:  courseRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, ownerID, courseID string, req *models.CreateQuizRequest) (*models.Quiz, error) {
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

	questions := make([]models.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return nil, models.ErrInvalidQuestion
		}
		questions = append(questions, models.Question{
			Prompt:  strings.TrimSpace(q.Prompt),
			Options: q.Options,
			Correct: q.Correct,
			Points:  q.Points,
		})
	}

	now := time.Now().UTC()
	quiz := &models.Quiz{
		ID:           uuid.New().String(),
		CourseID:     courseID,
		InstructorID: ownerID,
		Title:        strings.TrimSpace(req.Title),
		Questions:    questions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info().
		Str("quiz_id", quiz.ID).
		Str("course_id", courseID).
		Int("questions", len(questions)).
		Msg("Quiz created")

	return quiz, nil
}

func (s *quizService) ListByCourse(ctx context.Context, courseID string) ([]models.Quiz, error) {
	quizzes, err := s.quizRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// QuizForStudent returns the answer-free view of a quiz, plus the student's
// attempt when one exists.
func (s *quizService) QuizForStudent(ctx context.Context, studentID, quizID string) (*models.QuizView, *models.QuizAttempt, error) {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.requireEnrollment(ctx, studentID, quiz.CourseID); err != nil {
		return nil, nil, err
	}

	attempt, err := s.attemptRepo.GetByQuizAndStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	return models.NewQuizView(quiz), attempt, nil
}

// Attempt scores the quiz and records the result. One attempt per student.
func (s *quizService) Attempt(ctx context.Context, studentID, quizID string, req *models.AttemptQuizRequest) (*models.QuizAttempt, error) {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEnrollment(ctx, studentID, quiz.CourseID); err != nil {
		return nil, err
	}

	existing, err := s.attemptRepo.GetByQuizAndStudent(ctx, quizID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing attempt: %w", err)
	}
	if existing != nil {
		return nil, models.ErrAlreadyAttempted
	}

	attempt := &models.QuizAttempt{
		ID:        uuid.New().String(),
		QuizID:    quizID,
		CourseID:  quiz.CourseID,
		StudentID: studentID,
		Answers:   req.Answers,
		Score:     quiz.Score(req.Answers),
		MaxScore:  quiz.MaxScore(),
		TakenAt:   time.Now().UTC(),
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		if errors.Is(err, models.ErrAlreadyAttempted) {
			return nil, models.ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	s.logger.Info().
		Str("quiz_id", quizID).
		Str("student_id", studentID).
		Int("score", attempt.Score).
		Int("max_score", attempt.MaxScore).
		Msg("Quiz attempted")

	return attempt, nil
}

func (s *quizService) ResultsForInstructor(ctx context.Context, ownerID, quizID string) (*models.Quiz, []models.QuizAttemptWithDetails, error) {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	if quiz.InstructorID != ownerID {
		return nil, nil, models.ErrForbidden
	}

	attempts, err := s.attemptRepo.GetByQuiz(ctx, quizID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	details, err := s.withDetails(ctx, attempts, map[string]string{quiz.ID: quiz.Title})
	if err != nil {
		return nil, nil, err
	}

	return quiz, details, nil
}

func (s *quizService) AttemptsForStudent(ctx context.Context, studentID string) ([]models.QuizAttemptWithDetails, error) {
	attempts, err := s.attemptRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	titles := make(map[string]string)
	for _, attempt := range attempts {
		if _, ok := titles[attempt.QuizID]; ok {
			continue
		}
		quiz, err := s.quizRepo.GetByID(ctx, attempt.QuizID)
		if err != nil {
			return nil, fmt.Errorf("failed to get quiz: %w", err)
		}
		if quiz != nil {
			titles[attempt.QuizID] = quiz.Title
		}
	}

	return s.withDetails(ctx, attempts, titles)
}

func (s *quizService) getQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil {
		return nil, models.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *quizService) requireEnrollment(ctx context.Context, studentID, courseID string) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil || !course.HasStudent(studentID) {
		return models.ErrNotEnrolled
	}
	return nil
}

func (s *quizService) withDetails(ctx context.Context, attempts []models.QuizAttempt, titles map[string]string) ([]models.QuizAttemptWithDetails, error) {
	ids := make([]string, 0, len(attempts))
	seen := make(map[string]bool)
	for _, attempt := range attempts {
		if !seen[attempt.StudentID] {
			seen[attempt.StudentID] = true
			ids = append(ids, attempt.StudentID)
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

	details := make([]models.QuizAttemptWithDetails, 0, len(attempts))
	for _, attempt := range attempts {
		d := models.QuizAttemptWithDetails{
			QuizAttempt: attempt,
			QuizTitle:   titles[attempt.QuizID],
		}
		if u, ok := byID[attempt.StudentID]; ok {
			d.StudentName = u.Name
			d.StudentEmail = u.Email
		}
		details = append(details, d)
	}

	return details, nil
}
