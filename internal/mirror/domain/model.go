package domain

import (
	"errors"
	"time"
)

// Record is the non-authoritative mirror of a project kept in the secondary
// metadata store. It may be absent or stale; readers treat it as
// enrichment only.
type Record struct {
	ProjectID       string    `json:"project_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Schema          string    `json:"schema"`
	OriginalFileURL string    `json:"original_file_url,omitempty"`
	DemoURL         string    `json:"demo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var ErrRecordNotFound = errors.New("mirror record not found")
