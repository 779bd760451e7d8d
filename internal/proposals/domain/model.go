package domain

import "time"

// Proposal status values written by this service. Later states belong to the
// processing pipeline and are not modeled here.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
)

// Proposal is one uploaded document and its processing metadata, owned by
// exactly one project.
type Proposal struct {
	ID               string            `json:"id"`
	ProjectID        string            `json:"project_id"`
	Filename         string            `json:"filename"`
	OriginalFileKey  string            `json:"original_file_key"`
	ProcessedFiles   map[string]string `json:"processed_files"`
	Status           string            `json:"status"`
	FileSize         int64             `json:"file_size"`
	ProcessingTaskID string            `json:"processing_task_id,omitempty"`
	UploadedAt       time.Time         `json:"uploaded_at"`
}
