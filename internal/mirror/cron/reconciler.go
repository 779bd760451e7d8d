package cronjob

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	mirrordomain "github.com/docuflow/docuflow-backend/internal/mirror/domain"
	"github.com/docuflow/docuflow-backend/internal/mirror/repository"
	projdomain "github.com/docuflow/docuflow-backend/internal/projects/domain"
)

// ProjectSource reads the authoritative project state.
type ProjectSource interface {
	Get(ctx context.Context, id string) (*projdomain.Project, error)
}

// Reconciler retries mirror writes that failed inline. Project ids land in
// the pending set when an upsert or delete fails; every minute the
// reconciler replays them from the authoritative store.
type Reconciler struct {
	c        *cron.Cron
	mirror   *repository.MirrorRepository
	projects ProjectSource
}

func NewReconciler(mirror *repository.MirrorRepository, projects ProjectSource) *Reconciler {
	return &Reconciler{
		c:        cron.New(cron.WithSeconds()),
		mirror:   mirror,
		projects: projects,
	}
}

// Start schedules the reconciliation run at the top of every minute.
func (r *Reconciler) Start() {
	_, err := r.c.AddFunc("0 * * * * *", func() {
		r.Run(context.Background())
	})
	if err != nil {
		log.Printf("Failed to create mirror reconciler job: %v", err)
		return
	}

	log.Println("Mirror reconciler started (running every minute)")
	r.c.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Reconciler) Stop() {
	ctx := r.c.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

// Run drains the pending set once. Exported so tests and operators can
// trigger a pass without the schedule.
func (r *Reconciler) Run(ctx context.Context) {
	ids, err := r.mirror.PendingIDs(ctx)
	if err != nil {
		log.Printf("[warn] operation=mirror_reconcile error=%v", err)
		return
	}

	for _, id := range ids {
		if err := r.reconcile(ctx, id); err != nil {
			log.Printf("[warn] operation=mirror_reconcile project_id=%s error=%v", id, err)
			continue
		}
		if err := r.mirror.ClearPending(ctx, id); err != nil {
			log.Printf("[warn] operation=mirror_reconcile project_id=%s error=%v", id, err)
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context, projectID string) error {
	p, err := r.projects.Get(ctx, projectID)
	if errors.Is(err, projdomain.ErrProjectNotFound) {
		// Project was deleted; drop the stale mirror record too.
		if err := r.mirror.Delete(ctx, projectID); err != nil {
			return err
		}
		return nil
	}
	if err != nil {
		return err
	}

	return r.mirror.Upsert(ctx, &mirrordomain.Record{
		ProjectID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Schema:      p.Schema,
		CreatedAt:   p.CreatedAt,
	})
}
