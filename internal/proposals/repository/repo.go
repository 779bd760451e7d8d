package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docuflow/docuflow-backend/internal/proposals/domain"
)

const selectCols = `id, project_id, filename, original_file_key, processed_files,
status, file_size, coalesce(processing_task_id, ''), uploaded_at`

// Repo provides persistence operations for proposals.
type Repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Insert stores a new proposal row. The caller assigns the id.
func (r *Repo) Insert(ctx context.Context, p *domain.Proposal) error {
	if p.ID == "" {
		return fmt.Errorf("proposal id required")
	}
	if p.ProcessedFiles == nil {
		p.ProcessedFiles = map[string]string{}
	}

	const q = `
insert into proposals (id, project_id, filename, original_file_key, processed_files, status, file_size)
values ($1::uuid, $2::uuid, $3, $4, $5, $6, $7)
returning uploaded_at;
`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.ProjectID, p.Filename, p.OriginalFileKey, p.ProcessedFiles, p.Status, p.FileSize).
		Scan(&p.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

// List returns all proposals ordered by upload time descending.
func (r *Repo) List(ctx context.Context) ([]domain.Proposal, error) {
	const q = `select ` + selectCols + ` from proposals order by uploaded_at desc;`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProposals(rows)
}

// ListByProject returns the proposals owned by one project, newest first.
func (r *Repo) ListByProject(ctx context.Context, projectID string) ([]domain.Proposal, error) {
	const q = `select ` + selectCols + ` from proposals where project_id = $1::uuid order by uploaded_at desc;`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProposals(rows)
}

// Get fetches a proposal by id.
func (r *Repo) Get(ctx context.Context, id string) (*domain.Proposal, error) {
	const q = `select ` + selectCols + ` from proposals where id = $1::uuid;`
	var p domain.Proposal
	err := r.db.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.ProjectID, &p.Filename, &p.OriginalFileKey, &p.ProcessedFiles,
		&p.Status, &p.FileSize, &p.ProcessingTaskID, &p.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SetTask records the gateway task id and moves the proposal to processing.
func (r *Repo) SetTask(ctx context.Context, id, taskID string) error {
	const q = `
update proposals
set processing_task_id = $2, status = $3
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, id, taskID, domain.StatusProcessing)
	if err != nil {
		return fmt.Errorf("set task: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrProposalNotFound
	}
	return nil
}

func scanProposals(rows pgx.Rows) ([]domain.Proposal, error) {
	out := make([]domain.Proposal, 0, 16)
	for rows.Next() {
		var p domain.Proposal
		if err := rows.Scan(
			&p.ID, &p.ProjectID, &p.Filename, &p.OriginalFileKey, &p.ProcessedFiles,
			&p.Status, &p.FileSize, &p.ProcessingTaskID, &p.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
