package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Transcript errors
	ErrAnalysisNotFound = errors.New("no analysis for room")
	ErrInvalidSpeaker   = errors.New("invalid speaker")
)
