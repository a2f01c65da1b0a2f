package services

import "errors"

// Typed failures let callers tell "the row does not exist, nothing was
// touched" apart from "the write was attempted but did not commit". Lifecycle
// operations wrap everything else, so a non-sentinel error always means the
// whole atomic group rolled back.
var (
	ErrClaimNotFound    = errors.New("claim not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrPolicyNotFound   = errors.New("insurance policy not found")
	ErrAssessorNotFound = errors.New("loss assessor not found")
	ErrInvalidStatus    = errors.New("invalid claim status")
	ErrInvalidNote      = errors.New("invalid note")
)
