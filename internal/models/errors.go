package models

import "errors"

// Sentinel errors surfaced by the service layer. Handlers map them to
// status codes or flash messages.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrAlreadyGraded      = errors.New("submission already graded")
	ErrAlreadySubmitted   = errors.New("submission already received")
	ErrInvalidGrade       = errors.New("grade exceeds assignment points")
	ErrInvalidQuestion    = errors.New("correct option out of range")
	ErrAlreadyAttempted   = errors.New("quiz already attempted")
	ErrForbidden          = errors.New("not allowed")
)
