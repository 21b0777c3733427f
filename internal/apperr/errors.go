// Package apperr defines the sentinel errors shared across the board.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("password mismatch")
	ErrValidation   = errors.New("validation failed")
	ErrStorage      = errors.New("image storage failed")
)
