package service

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotApproved          = errors.New("account pending approval")
	ErrEmailTaken           = errors.New("email already registered")
	ErrOptimizerUnavailable = errors.New("route optimizer unavailable")
)
