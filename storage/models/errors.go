package models

import "errors"

var (
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrDuplicateLike      = errors.New("post already liked")
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("operation only allowed for the owner")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
