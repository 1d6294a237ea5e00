package user

import "errors"

var (
	ErrMissingID    = errors.New("user id is required")
	ErrUserNotFound = errors.New("user not found")
)
