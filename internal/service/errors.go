// Package service provides business logic for the application.
package service

import "errors"

// Service errors. Handlers map these to HTTP responses.
var (
	// Validation
	ErrMissingFields     = errors.New("required fields are missing")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrMissingKeyword    = errors.New("search keyword is required")
	ErrMissingPlaceID    = errors.New("place id is required")
	ErrMissingName       = errors.New("business name is required")
	ErrInvalidRating     = errors.New("rating must be between 0 and 5")
	ErrInvalidStatus     = errors.New("invalid lead status")
	ErrNoUpdates         = errors.New("no updates provided")
	ErrMissingTemplate   = errors.New("template name and body are required")
	ErrMissingRecipient  = errors.New("recipient, subject, and body are required")
	ErrMailNotConfigured = errors.New("smtp credentials are not set in the server environment")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Absence, including records owned by someone else
	ErrUserNotFound     = errors.New("user not found")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrTemplateNotFound = errors.New("template not found")

	// Conflicts
	ErrEmailExists = errors.New("email already registered")
	ErrLeadExists  = errors.New("lead already saved")
)
