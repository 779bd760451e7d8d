package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docuflow/docuflow-backend/internal/projects/domain"
)

// Repo provides persistence operations for projects against the
// authoritative relational store.
type Repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Create inserts a new project. Name and schema must be non-empty.
func (r *Repo) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.Project, error) {
	if req.Name == "" || req.Schema == "" {
		return nil, domain.ErrInvalidProject
	}

	const q = `
insert into projects (name, description, schema)
values ($1, nullif($2, ''), $3)
returning id, name, coalesce(description, ''), schema, created_at, updated_at;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, req.Name, req.Description, req.Schema).
		Scan(&p.ID, &p.Name, &p.Description, &p.Schema, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return &p, nil
}

// List returns all projects ordered by creation time descending.
func (r *Repo) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
select id, name, coalesce(description, ''), schema, created_at, updated_at
from projects
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Schema, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get fetches a project by id, returning domain.ErrProjectNotFound when absent.
func (r *Repo) Get(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
select id, name, coalesce(description, ''), schema, created_at, updated_at
from projects
where id = $1::uuid;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Schema, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Exists reports whether a project with the given id exists.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	const q = `select exists (select 1 from projects where id = $1::uuid);`
	var ok bool
	if err := r.db.QueryRow(ctx, q, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Update replaces name, description and schema in full.
func (r *Repo) Update(ctx context.Context, id string, req *domain.UpdateProjectRequest) (*domain.Project, error) {
	if req.Name == "" || req.Schema == "" {
		return nil, domain.ErrInvalidProject
	}

	const q = `
update projects
set name = $2, description = nullif($3, ''), schema = $4, updated_at = now()
where id = $1::uuid
returning id, name, coalesce(description, ''), schema, created_at, updated_at;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, id, req.Name, req.Description, req.Schema).
		Scan(&p.ID, &p.Name, &p.Description, &p.Schema, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the project row and its proposals in one transaction.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `delete from proposals where project_id = $1::uuid;`, id); err != nil {
		return false, fmt.Errorf("delete proposals: %w", err)
	}

	ct, err := tx.Exec(ctx, `delete from projects where id = $1::uuid;`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// CountProposals returns the number of proposals owned by a project.
func (r *Repo) CountProposals(ctx context.Context, projectID string) (int64, error) {
	const q = `select count(*) from proposals where project_id = $1::uuid;`
	var n int64
	if err := r.db.QueryRow(ctx, q, projectID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ProposalCounts returns proposal counts grouped by project id, so listing
// does not issue one count query per project.
func (r *Repo) ProposalCounts(ctx context.Context) (map[string]int64, error) {
	const q = `select project_id, count(*) from proposals group by project_id;`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
