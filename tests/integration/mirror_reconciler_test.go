package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cronjob "github.com/docuflow/docuflow-backend/internal/mirror/cron"
	mirrordomain "github.com/docuflow/docuflow-backend/internal/mirror/domain"
	"github.com/docuflow/docuflow-backend/internal/mirror/repository"
	projdomain "github.com/docuflow/docuflow-backend/internal/projects/domain"
)

type stubProjectSource struct {
	projects map[string]*projdomain.Project
	err      error
}

func (s *stubProjectSource) Get(ctx context.Context, id string) (*projdomain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, projdomain.ErrProjectNotFound
	}
	return p, nil
}

func TestReconciler_ReplaysPendingUpserts(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	repo := repository.NewMirrorRepository(client)
	ctx := context.Background()

	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	source := &stubProjectSource{projects: map[string]*projdomain.Project{
		"proj-1": {
			ID:        "proj-1",
			Name:      "Contracts",
			Schema:    `{"party":"string"}`,
			CreatedAt: created,
		},
	}}

	require.NoError(t, repo.MarkPending(ctx, "proj-1"))

	cronjob.NewReconciler(repo, source).Run(ctx)

	got, err := repo.Get(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "Contracts", got.Name)
	assert.Equal(t, `{"party":"string"}`, got.Schema)

	ids, err := repo.PendingIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReconciler_DeletesRecordForRemovedProject(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	repo := repository.NewMirrorRepository(client)
	ctx := context.Background()

	// Stale mirror record for a project that no longer exists upstream.
	require.NoError(t, repo.Upsert(ctx, &mirrordomain.Record{
		ProjectID: "proj-gone",
		Name:      "Old",
		Schema:    "{}",
	}))
	require.NoError(t, repo.MarkPending(ctx, "proj-gone"))

	source := &stubProjectSource{projects: map[string]*projdomain.Project{}}
	cronjob.NewReconciler(repo, source).Run(ctx)

	_, err := repo.Get(ctx, "proj-gone")
	assert.ErrorIs(t, err, mirrordomain.ErrRecordNotFound)

	ids, err := repo.PendingIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReconciler_KeepsPendingOnSourceError(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	repo := repository.NewMirrorRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.MarkPending(ctx, "proj-1"))

	source := &stubProjectSource{err: errors.New("db down")}
	cronjob.NewReconciler(repo, source).Run(ctx)

	// The id stays queued so a later pass can retry.
	ids, err := repo.PendingIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"proj-1"}, ids)
}
