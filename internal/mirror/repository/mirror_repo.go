package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docuflow/docuflow-backend/internal/mirror/domain"
)

const (
	recordKeyPrefix = "docuflow:project:" // Mirror record per project: docuflow:project:{project_id}
	pendingSetKey   = "docuflow:mirror:pending"
)

// MirrorRepository stores project mirror records in Redis, keyed by the
// authoritative project id. Writes are best-effort; callers queue failed
// project ids in the pending set for the reconciler.
type MirrorRepository struct {
	client *redis.Client
}

func NewMirrorRepository(client *redis.Client) *MirrorRepository {
	return &MirrorRepository{client: client}
}

// Upsert writes the record, preserving created_at and any file URLs already
// present on an existing record.
func (r *MirrorRepository) Upsert(ctx context.Context, rec *domain.Record) error {
	if rec.ProjectID == "" {
		return fmt.Errorf("project id required")
	}

	now := time.Now().UTC()
	if existing, err := r.Get(ctx, rec.ProjectID); err == nil {
		rec.CreatedAt = existing.CreatedAt
		if rec.OriginalFileURL == "" {
			rec.OriginalFileURL = existing.OriginalFileURL
		}
		if rec.DemoURL == "" {
			rec.DemoURL = existing.DemoURL
		}
	} else if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal mirror record: %w", err)
	}

	if err := r.client.Set(ctx, r.recordKey(rec.ProjectID), data, 0).Err(); err != nil {
		return fmt.Errorf("set mirror record: %w", err)
	}
	return nil
}

// Get retrieves the mirror record for a project.
func (r *MirrorRepository) Get(ctx context.Context, projectID string) (*domain.Record, error) {
	data, err := r.client.Get(ctx, r.recordKey(projectID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get mirror record: %w", err)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal mirror record: %w", err)
	}
	return &rec, nil
}

// Delete removes the mirror record for a project.
func (r *MirrorRepository) Delete(ctx context.Context, projectID string) error {
	if err := r.client.Del(ctx, r.recordKey(projectID)).Err(); err != nil {
		return fmt.Errorf("delete mirror record: %w", err)
	}
	return nil
}

// MarkPending queues a project id whose mirror write failed so the
// reconciler can retry it.
func (r *MirrorRepository) MarkPending(ctx context.Context, projectID string) error {
	return r.client.SAdd(ctx, pendingSetKey, projectID).Err()
}

// PendingIDs returns the project ids awaiting reconciliation.
func (r *MirrorRepository) PendingIDs(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, pendingSetKey).Result()
}

// ClearPending removes a project id from the pending set.
func (r *MirrorRepository) ClearPending(ctx context.Context, projectID string) error {
	return r.client.SRem(ctx, pendingSetKey, projectID).Err()
}

func (r *MirrorRepository) recordKey(projectID string) string {
	return recordKeyPrefix + projectID
}
