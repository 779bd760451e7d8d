package domain

import "time"

// Project is a named container with a user-defined field schema against which
// documents are uploaded. The relational store is authoritative; the mirror
// fields (OriginalFileURL, DemoURL) are read-enrichment only.
type Project struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Schema          string    `json:"schema"`
	OriginalFileURL string    `json:"original_file_url,omitempty"`
	DemoURL         string    `json:"demo_url,omitempty"`
	ProposalCount   int64     `json:"proposal_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateProjectRequest carries the fields required to create a project.
// Schema is opaque JSON text; it is required but not validated beyond presence.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

// UpdateProjectRequest is a full-field replace; there is no partial patch.
type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}
