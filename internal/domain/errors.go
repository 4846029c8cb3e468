package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound      = errors.New("domain: not found")
	ErrTitleTooShort = errors.New("domain: title too short")
	ErrInvalidEvent  = errors.New("domain: invalid change event")
)
