package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/docuflow/docuflow-backend/internal/proposals/domain"
	"github.com/docuflow/docuflow-backend/internal/upload"
)

// ObjectStore uploads raw files to the document bucket.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error
	ProposalKey(projectID, proposalID, filename, role string) string
	RelayKey(projectID, filename string) string
	URI(key string) string
}

// Dispatcher hands documents to the external processing gateway.
type Dispatcher interface {
	Process(ctx context.Context, projectID, filename string, file io.Reader) (string, error)
	ProcessStored(ctx context.Context, projectID, storagePath, filename string) (string, error)
}

// ProposalStore is the relational store for proposal rows.
type ProposalStore interface {
	Insert(ctx context.Context, p *domain.Proposal) error
	List(ctx context.Context) ([]domain.Proposal, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Proposal, error)
	SetTask(ctx context.Context, id, taskID string) error
}

// ProjectChecker verifies that an upload references an existing project.
type ProjectChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ErrProjectNotFound is returned when an upload references a missing project.
var ErrProjectNotFound = fmt.Errorf("project not found")

// UploadService orchestrates the non-streaming upload path: object storage,
// proposal row, then gateway dispatch.
type UploadService struct {
	proposals ProposalStore
	projects  ProjectChecker
	store     ObjectStore
	gateway   Dispatcher
}

func NewUploadService(proposals ProposalStore, projects ProjectChecker, store ObjectStore, gateway Dispatcher) *UploadService {
	return &UploadService{
		proposals: proposals,
		projects:  projects,
		store:     store,
		gateway:   gateway,
	}
}

// Upload stores the file, inserts the proposal, and dispatches processing.
// A gateway failure leaves the proposal in status "uploaded"; the row is
// still returned so the caller sees the persisted state.
func (s *UploadService) Upload(ctx context.Context, projectID, filename, contentType string, size int64, file io.Reader) (*domain.Proposal, error) {
	if err := upload.Validate(filename, size); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidUpload, err)
	}

	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("check project: %w", err)
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	// The file is forwarded twice (object storage, then the gateway), so it
	// is buffered once up front. Size is capped at 50 MiB by validation.
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	proposalID := uuid.New().String()
	key := s.store.ProposalKey(projectID, proposalID, filename, "original")

	err = s.store.Put(ctx, key, bytes.NewReader(data), contentType, map[string]string{
		"originalname": filename,
		"projectid":    projectID,
		"uploadedat":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	p := &domain.Proposal{
		ID:              proposalID,
		ProjectID:       projectID,
		Filename:        filename,
		OriginalFileKey: key,
		ProcessedFiles:  map[string]string{},
		Status:          domain.StatusUploaded,
		FileSize:        size,
	}
	if err := s.proposals.Insert(ctx, p); err != nil {
		return nil, err
	}

	taskID, err := s.gateway.Process(ctx, projectID, filename, bytes.NewReader(data))
	if err != nil {
		// Fire-and-forget dispatch: the proposal stays "uploaded".
		log.Printf("[warn] operation=gateway_process proposal_id=%s error=%v", proposalID, err)
		return p, nil
	}

	if err := s.proposals.SetTask(ctx, proposalID, taskID); err != nil {
		log.Printf("[warn] operation=set_task proposal_id=%s error=%v", proposalID, err)
		return p, nil
	}
	p.ProcessingTaskID = taskID
	p.Status = domain.StatusProcessing
	return p, nil
}

// List returns proposals, optionally filtered by project.
func (s *UploadService) List(ctx context.Context, projectID string) ([]domain.Proposal, error) {
	if projectID != "" {
		return s.proposals.ListByProject(ctx, projectID)
	}
	return s.proposals.List(ctx)
}
