package models

import "errors"

// Common model errors
var (
	ErrNotFound = errors.New("record not found")
)
