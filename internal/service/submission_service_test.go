package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/eduline/internal/models"
	"github.com/mkravets/eduline/internal/service"
)

type submissionFixture struct {
	svc         service.SubmissionService
	submissions *fakeSubmissionRepo
	assignments *fakeAssignmentRepo
	courses     *fakeCourseRepo
	users       *fakeUserRepo
	publisher   *fakePublisher

	instructor *models.User
	student    *models.User
	course     *models.Course
	assignment *models.Assignment
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()
	f := &submissionFixture{
		submissions: newFakeSubmissionRepo(),
		assignments: newFakeAssignmentRepo(),
		courses:     newFakeCourseRepo(),
		users:       newFakeUserRepo(),
		publisher:   &fakePublisher{},
	}
	f.svc = service.NewSubmissionService(f.submissions, f.assignments, f.courses, f.users, f.publisher, zerolog.Nop())

	ctx := context.Background()

	f.instructor = &models.User{ID: uuid.New().String(), Role: models.RoleInstructor, Name: "Grace", Email: "grace@example.com"}
	f.student = &models.User{ID: uuid.New().String(), Role: models.RoleStudent, Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, f.users.Create(ctx, f.instructor))
	require.NoError(t, f.users.Create(ctx, f.student))

	f.course = &models.Course{
		ID:         uuid.New().String(),
		OwnerID:    f.instructor.ID,
		Title:      "Intro to Go",
		StudentIDs: []string{f.student.ID},
	}
	require.NoError(t, f.courses.Create(ctx, f.course))

	f.assignment = &models.Assignment{
		ID:           uuid.New().String(),
		CourseID:     f.course.ID,
		InstructorID: f.instructor.ID,
		Title:        "Homework 1",
		Points:       100,
		DueAt:        time.Now().UTC().Add(7 * 24 * time.Hour),
	}
	require.NoError(t, f.assignments.Create(ctx, f.assignment))

	return f
}

func TestSubmissionServiceSubmit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newSubmissionFixture(t)

		sub, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "my answer",
		})
		require.NoError(t, err)

		assert.Equal(t, models.SubmissionStatusSubmitted, sub.Status)
		assert.Equal(t, "my answer", sub.Content)
		assert.False(t, sub.IsGraded())

		require.Len(t, f.publisher.created, 1)
		assert.Equal(t, sub.ID, f.publisher.created[0].SubmissionID)
	})

	t.Run("ResubmitReplacesContent", func(t *testing.T) {
		f := newSubmissionFixture(t)

		first, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "draft",
		})
		require.NoError(t, err)

		second, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "final",
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "final", second.Content)

		stored, err := f.submissions.GetByID(context.Background(), first.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", stored.Content)

		// Only the first submit announces a new submission.
		assert.Len(t, f.publisher.created, 1)
	})

	t.Run("ResubmitAfterGradeRejected", func(t *testing.T) {
		f := newSubmissionFixture(t)

		sub, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "draft",
		})
		require.NoError(t, err)

		_, err = f.svc.GradeSubmission(context.Background(), f.instructor.ID, sub.ID, &models.GradeSubmissionRequest{
			Points: 80,
		})
		require.NoError(t, err)

		_, err = f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "too late",
		})
		assert.ErrorIs(t, err, models.ErrAlreadyGraded)
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		f := newSubmissionFixture(t)
		outsider := &models.User{ID: uuid.New().String(), Role: models.RoleStudent, Name: "Bob", Email: "bob@example.com"}
		require.NoError(t, f.users.Create(context.Background(), outsider))

		_, err := f.svc.Submit(context.Background(), outsider.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "sneaky",
		})
		assert.ErrorIs(t, err, models.ErrNotEnrolled)
	})

	t.Run("AssignmentNotFound", func(t *testing.T) {
		f := newSubmissionFixture(t)

		_, err := f.svc.Submit(context.Background(), f.student.ID, "missing", &models.SubmitAssignmentRequest{
			Content: "answer",
		})
		assert.ErrorIs(t, err, models.ErrAssignmentNotFound)
	})

	// Two submits can race past the existing-submission lookup. The compound
	// unique index rejects the second insert and the service surfaces
	// ErrAlreadySubmitted.
	t.Run("DuplicateCaughtOnInsert", func(t *testing.T) {
		f := newSubmissionFixture(t)
		svc := service.NewSubmissionService(
			&blindSubmissionLookup{f.submissions}, f.assignments, f.courses, f.users, f.publisher, zerolog.Nop(),
		)

		_, err := svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "first",
		})
		require.NoError(t, err)

		_, err = svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "second",
		})
		assert.ErrorIs(t, err, models.ErrAlreadySubmitted)
	})
}

// blindSubmissionLookup never finds an existing submission, so inserts hit
// the uniqueness constraint the way concurrent submits would.
type blindSubmissionLookup struct {
	*fakeSubmissionRepo
}

func (r *blindSubmissionLookup) GetByStudentAndAssignment(_ context.Context, _, _ string) (*models.Submission, error) {
	return nil, nil
}

func TestSubmissionServiceGrade(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newSubmissionFixture(t)

		sub, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "answer",
		})
		require.NoError(t, err)

		graded, err := f.svc.GradeSubmission(context.Background(), f.instructor.ID, sub.ID, &models.GradeSubmissionRequest{
			Points:  85,
			Comment: "good work",
		})
		require.NoError(t, err)

		assert.True(t, graded.IsGraded())
		assert.Equal(t, 85, graded.Grade.Points)
		assert.Equal(t, "good work", graded.Grade.Comment)

		require.Len(t, f.publisher.graded, 1)
		assert.Equal(t, 85, f.publisher.graded[0].Points)
	})

	t.Run("PointsAboveMaximum", func(t *testing.T) {
		f := newSubmissionFixture(t)

		sub, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "answer",
		})
		require.NoError(t, err)

		_, err = f.svc.GradeSubmission(context.Background(), f.instructor.ID, sub.ID, &models.GradeSubmissionRequest{
			Points: f.assignment.Points + 1,
		})
		assert.ErrorIs(t, err, models.ErrInvalidGrade)
	})

	t.Run("RegradeOverwrites", func(t *testing.T) {
		f := newSubmissionFixture(t)

		sub, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "answer",
		})
		require.NoError(t, err)

		_, err = f.svc.GradeSubmission(context.Background(), f.instructor.ID, sub.ID, &models.GradeSubmissionRequest{Points: 60})
		require.NoError(t, err)

		regraded, err := f.svc.GradeSubmission(context.Background(), f.instructor.ID, sub.ID, &models.GradeSubmissionRequest{Points: 90})
		require.NoError(t, err)
		assert.Equal(t, 90, regraded.Grade.Points)

		stored, err := f.submissions.GetByID(context.Background(), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, 90, stored.Grade.Points)
	})

	t.Run("NotOwner", func(t *testing.T) {
		f := newSubmissionFixture(t)
		other := &models.User{ID: uuid.New().String(), Role: models.RoleInstructor, Name: "Alan", Email: "alan@example.com"}
		require.NoError(t, f.users.Create(context.Background(), other))

		sub, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
			Content: "answer",
		})
		require.NoError(t, err)

		_, err = f.svc.GradeSubmission(context.Background(), other.ID, sub.ID, &models.GradeSubmissionRequest{Points: 50})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestSubmissionServiceListByAssignment(t *testing.T) {
	f := newSubmissionFixture(t)

	sub, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
		Content: "answer",
	})
	require.NoError(t, err)

	assignment, details, err := f.svc.ListByAssignment(context.Background(), f.instructor.ID, f.assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, f.assignment.ID, assignment.ID)
	require.Len(t, details, 1)
	assert.Equal(t, sub.ID, details[0].ID)
	assert.Equal(t, f.student.Name, details[0].StudentName)
	assert.Equal(t, f.assignment.Title, details[0].AssignmentTitle)

	_, _, err = f.svc.ListByAssignment(context.Background(), f.student.ID, f.assignment.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestSubmissionServiceGradesForStudent(t *testing.T) {
	f := newSubmissionFixture(t)

	_, err := f.svc.Submit(context.Background(), f.student.ID, f.assignment.ID, &models.SubmitAssignmentRequest{
		Content: "answer",
	})
	require.NoError(t, err)

	grades, err := f.svc.GradesForStudent(context.Background(), f.student.ID)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, f.assignment.Title, grades[0].AssignmentTitle)
	assert.False(t, grades[0].IsGraded())
}
