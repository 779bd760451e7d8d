package service

import (
	"context"
	"log"

	mirrordomain "github.com/docuflow/docuflow-backend/internal/mirror/domain"
	"github.com/docuflow/docuflow-backend/internal/projects/domain"
)

// ProjectStore is the authoritative relational store for projects.
type ProjectStore interface {
	Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, id string, req *domain.UpdateProjectRequest) (*domain.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountProposals(ctx context.Context, projectID string) (int64, error)
	ProposalCounts(ctx context.Context) (map[string]int64, error)
}

// MirrorStore is the best-effort secondary metadata store. Every method may
// fail without affecting the primary flow.
type MirrorStore interface {
	Upsert(ctx context.Context, rec *mirrordomain.Record) error
	Get(ctx context.Context, projectID string) (*mirrordomain.Record, error)
	Delete(ctx context.Context, projectID string) error
	MarkPending(ctx context.Context, projectID string) error
}

// ProjectService handles business logic for projects: authoritative CRUD plus
// opportunistic enrichment from the mirror store.
type ProjectService struct {
	repo   ProjectStore
	mirror MirrorStore
}

func NewProjectService(repo ProjectStore, mirror MirrorStore) *ProjectService {
	return &ProjectService{repo: repo, mirror: mirror}
}

// Create inserts the project into the relational store, then mirrors it
// best-effort. A mirror failure is logged, queued for reconciliation, and
// never surfaced to the caller.
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.Project, error) {
	p, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mirrorUpsert(ctx, p)
	return p, nil
}

// List returns all projects with proposal counts and mirror enrichment.
// When the mirror store is unreachable the base fields are returned as-is.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ProposalCounts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].ProposalCount = counts[items[i].ID]
		s.enrich(ctx, &items[i])
	}
	return items, nil
}

// Get fetches one project with its proposal count and mirror enrichment.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountProposals(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ProposalCount = count

	s.enrich(ctx, p)
	return p, nil
}

// Update replaces name/description/schema and re-mirrors best-effort.
func (s *ProjectService) Update(ctx context.Context, id string, req *domain.UpdateProjectRequest) (*domain.Project, error) {
	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.mirrorUpsert(ctx, p)
	return p, nil
}

// Delete removes the project and its proposals, then the mirror record.
func (s *ProjectService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}

	if err := s.mirror.Delete(ctx, id); err != nil {
		log.Printf("[warn] operation=mirror_delete project_id=%s error=%v", id, err)
		s.markPending(ctx, id)
	}
	return true, nil
}

func (s *ProjectService) mirrorUpsert(ctx context.Context, p *domain.Project) {
	err := s.mirror.Upsert(ctx, &mirrordomain.Record{
		ProjectID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Schema:      p.Schema,
		CreatedAt:   p.CreatedAt,
	})
	if err != nil {
		log.Printf("[warn] operation=mirror_upsert project_id=%s error=%v", p.ID, err)
		s.markPending(ctx, p.ID)
	}
}

func (s *ProjectService) markPending(ctx context.Context, projectID string) {
	if err := s.mirror.MarkPending(ctx, projectID); err != nil {
		log.Printf("[warn] operation=mirror_mark_pending project_id=%s error=%v", projectID, err)
	}
}

// enrich overlays mirror fields onto the project. Absence or failure of the
// mirror record leaves the project untouched.
func (s *ProjectService) enrich(ctx context.Context, p *domain.Project) {
	rec, err := s.mirror.Get(ctx, p.ID)
	if err != nil {
		if err != mirrordomain.ErrRecordNotFound {
			log.Printf("[warn] operation=mirror_get project_id=%s error=%v", p.ID, err)
		}
		return
	}

	if rec.Schema != "" {
		p.Schema = rec.Schema
	}
	p.OriginalFileURL = rec.OriginalFileURL
	p.DemoURL = rec.DemoURL
}
