package sqlitestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	"github.com/flowmq/taskq/job"
)

// Producer implements taskq.Producer on a *bun.DB.
type Producer struct {
	db *bun.DB
}

// NewProducer wraps db. InitSchema must have been run against db already.
func NewProducer(db *bun.DB) *Producer {
	return &Producer{db: db}
}

// Publish persists j. If j.UniqueKey is set, insertion and the duplicate
// check happen as one INSERT ... SELECT ... WHERE NOT EXISTS statement, so
// a second Publish racing with the first can never both succeed.
//
// A duplicate is any row sharing (queue, kind, *unique_key) with
// attempts < max_attempts (a dead row, attempts == max_attempts, no longer
// blocks reuse of its unique key).
func (p *Producer) Publish(ctx context.Context, j *job.Job) error {
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now
	j.LockedAt = nil
	j.Attempts = 0
	j.ErrorReason = nil
	if j.ScheduledAt.IsZero() {
		j.ScheduledAt = now
	}

	payload, err := json.Marshal(j.Payload)
	if err != nil {
		return err
	}

	if j.UniqueKey == nil {
		_, err := p.db.NewInsert().Model(fromJob(j)).Exec(ctx)
		return err
	}

	const query = `
INSERT INTO jobs (id, queue, kind, created_at, updated_at, scheduled_at, locked_at,
                   attempts, max_attempts, lease_seconds, priority, unique_key, payload, error_reason)
SELECT ?, ?, ?, ?, ?, ?, NULL, 0, ?, ?, ?, ?, ?, NULL
WHERE NOT EXISTS (
    SELECT 1 FROM jobs
    WHERE queue = ? AND kind = ? AND unique_key = ? AND attempts < max_attempts
)`
	_, err = p.db.ExecContext(ctx, query,
		j.Id, j.Queue, j.Kind, j.CreatedAt, j.UpdatedAt, j.ScheduledAt,
		j.MaxAttempts, int64(j.LeaseTime/time.Second), j.Priority, *j.UniqueKey, payload,
		j.Queue, j.Kind, *j.UniqueKey,
	)
	return err
}

// Exists reports whether a row matching (queue, kind, id) currently
// exists.
func (p *Producer) Exists(ctx context.Context, queue, kind, id string) (bool, error) {
	count, err := p.db.NewSelect().
		Model((*jobModel)(nil)).
		Where("queue = ?", queue).
		Where("kind = ?", kind).
		Where("id = ?", id).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CancelByID deletes the row matching (queue, kind, id), if any.
func (p *Producer) CancelByID(ctx context.Context, queue, kind, id string) error {
	_, err := p.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("queue = ?", queue).
		Where("kind = ?", kind).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// CancelByUniqueKey deletes every row matching (queue, kind, key).
func (p *Producer) CancelByUniqueKey(ctx context.Context, queue, kind, key string) error {
	_, err := p.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("queue = ?", queue).
		Where("kind = ?", kind).
		Where("unique_key = ?", key).
		Exec(ctx)
	return err
}
