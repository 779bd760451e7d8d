package gateway

import "time"

const (
	// DefaultTimeout is the standard timeout for status lookups
	DefaultTimeout = 30 * time.Second

	// DispatchTimeout is for process dispatches, which upload file content
	DispatchTimeout = 90 * time.Second
)
