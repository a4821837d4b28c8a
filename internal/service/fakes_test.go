package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/mkravets/eduline/internal/models"
)

// In-memory repositories backing the service tests.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return models.ErrEmailTaken
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeCourseRepo struct {
	courses map[string]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*models.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.StudentIDs = append([]string(nil), c.StudentIDs...)
	return &cp, nil
}

func (r *fakeCourseRepo) GetByOwner(_ context.Context, ownerID string) ([]models.Course, error) {
	var out []models.Course
	for _, c := range r.courses {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sortCourses(out)
	return out, nil
}

func (r *fakeCourseRepo) GetByStudent(_ context.Context, studentID string) ([]models.Course, error) {
	var out []models.Course
	for _, c := range r.courses {
		if c.HasStudent(studentID) {
			out = append(out, *c)
		}
	}
	sortCourses(out)
	return out, nil
}

func (r *fakeCourseRepo) GetAll(_ context.Context) ([]models.Course, error) {
	var out []models.Course
	for _, c := range r.courses {
		out = append(out, *c)
	}
	sortCourses(out)
	return out, nil
}

func (r *fakeCourseRepo) AddStudent(_ context.Context, courseID, studentID string) error {
	c, ok := r.courses[courseID]
	if !ok {
		return models.ErrCourseNotFound
	}
	if !c.HasStudent(studentID) {
		c.StudentIDs = append(c.StudentIDs, studentID)
	}
	return nil
}

func sortCourses(courses []models.Course) {
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
}

type fakeAssignmentRepo struct {
	assignments map[string]*models.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]*models.Assignment)}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	cp := *assignment
	r.assignments[assignment.ID] = &cp
	return nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id string) (*models.Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) GetByCourse(_ context.Context, courseID string) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range r.assignments {
		if a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

func (r *fakeAssignmentRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, a := range r.assignments {
		if a.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

type fakeSubmissionRepo struct {
	submissions map[string]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string]*models.Submission)}
}

func (r *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	for _, s := range r.submissions {
		if s.StudentID == submission.StudentID && s.AssignmentID == submission.AssignmentID {
			return models.ErrAlreadySubmitted
		}
	}
	cp := *submission
	r.submissions[submission.ID] = &cp
	return nil
}

func (r *fakeSubmissionRepo) GetByID(_ context.Context, id string) (*models.Submission, error) {
	s, ok := r.submissions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubmissionRepo) GetByStudentAndAssignment(_ context.Context, studentID, assignmentID string) (*models.Submission, error) {
	for _, s := range r.submissions {
		if s.StudentID == studentID && s.AssignmentID == assignmentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) GetByAssignment(_ context.Context, assignmentID string) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSubmissionRepo) GetByStudent(_ context.Context, studentID string) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range r.submissions {
		if s.StudentID == studentID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSubmissionRepo) UpdateContent(_ context.Context, id, content string) error {
	s, ok := r.submissions[id]
	if !ok {
		return models.ErrSubmissionNotFound
	}
	s.Content = content
	s.SubmittedAt = time.Now().UTC()
	s.UpdatedAt = s.SubmittedAt
	return nil
}

func (r *fakeSubmissionRepo) SetGrade(_ context.Context, id string, grade *models.Grade) error {
	s, ok := r.submissions[id]
	if !ok {
		return models.ErrSubmissionNotFound
	}
	cp := *grade
	s.Grade = &cp
	s.Status = models.SubmissionStatusGraded
	s.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeQuizRepo struct {
	quizzes map[string]*models.Quiz
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: make(map[string]*models.Quiz)}
}

func (r *fakeQuizRepo) Create(_ context.Context, quiz *models.Quiz) error {
	cp := *quiz
	r.quizzes[quiz.ID] = &cp
	return nil
}

func (r *fakeQuizRepo) GetByID(_ context.Context, id string) (*models.Quiz, error) {
	q, ok := r.quizzes[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuizRepo) GetByCourse(_ context.Context, courseID string) ([]models.Quiz, error) {
	var out []models.Quiz
	for _, q := range r.quizzes {
		if q.CourseID == courseID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuizRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, q := range r.quizzes {
		if q.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

type fakeQuizAttemptRepo struct {
	attempts map[string]*models.QuizAttempt
}

func newFakeQuizAttemptRepo() *fakeQuizAttemptRepo {
	return &fakeQuizAttemptRepo{attempts: make(map[string]*models.QuizAttempt)}
}

func (r *fakeQuizAttemptRepo) Create(_ context.Context, attempt *models.QuizAttempt) error {
	for _, a := range r.attempts {
		if a.QuizID == attempt.QuizID && a.StudentID == attempt.StudentID {
			return models.ErrAlreadyAttempted
		}
	}
	cp := *attempt
	r.attempts[attempt.ID] = &cp
	return nil
}

func (r *fakeQuizAttemptRepo) GetByQuizAndStudent(_ context.Context, quizID, studentID string) (*models.QuizAttempt, error) {
	for _, a := range r.attempts {
		if a.QuizID == quizID && a.StudentID == studentID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuizAttemptRepo) GetByQuiz(_ context.Context, quizID string) ([]models.QuizAttempt, error) {
	var out []models.QuizAttempt
	for _, a := range r.attempts {
		if a.QuizID == quizID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuizAttemptRepo) GetByStudent(_ context.Context, studentID string) ([]models.QuizAttempt, error) {
	var out []models.QuizAttempt
	for _, a := range r.attempts {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	cp := *session
	r.sessions[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByToken(_ context.Context, token string) (*models.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

type fakePublisher struct {
	created []*models.SubmissionCreatedEvent
	graded  []*models.SubmissionGradedEvent
}

func (p *fakePublisher) PublishSubmissionCreated(_ context.Context, event *models.SubmissionCreatedEvent) error {
	p.created = append(p.created, event)
	return nil
}

func (p *fakePublisher) PublishSubmissionGraded(_ context.Context, event *models.SubmissionGradedEvent) error {
	p.graded = append(p.graded, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }
