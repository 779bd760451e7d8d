package domain

import "errors"

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrInvalidUpload    = errors.New("invalid upload")
)
