package domain

import "errors"

// Common domain errors
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("date range conflicts with an existing entry")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrAuthorization     = errors.New("actor is not allowed to perform this action")
	ErrStaleState        = errors.New("record was modified by a concurrent request")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeInactive   = errors.New("employee account is inactive")
)
