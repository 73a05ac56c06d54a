package auth

import "errors"

var (
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access denied")
	ErrNotFound           = errors.New("user not found")
	ErrStore              = errors.New("store failure")
)
