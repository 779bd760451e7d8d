package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidProject  = errors.New("name and schema are required")
)
