package postgresstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/flowmq/taskq/job"
)

// Publish persists j. If j.UniqueKey is set, insertion and the duplicate
// check run as one INSERT ... SELECT ... WHERE NOT EXISTS statement
// (see sqlitestore.Producer.Publish for the identical approach), so a
// racing duplicate Publish can never both succeed.
func (s *Store) Publish(ctx context.Context, j *job.Job) error {
	now := time.Now().UTC()
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
		_, err := s.pool.Exec(ctx, `
INSERT INTO jobs (id, queue, kind, created_at, updated_at, scheduled_at, locked_at,
                   attempts, max_attempts, lease_seconds, priority, unique_key, payload, error_reason)
VALUES ($1, $2, $3, $4, $5, $6, NULL, 0, $7, $8, $9, NULL, $10, NULL)`,
			j.Id, j.Queue, j.Kind, j.CreatedAt, j.UpdatedAt, j.ScheduledAt,
			j.MaxAttempts, int64(j.LeaseTime/time.Second), j.Priority, payload,
		)
		return err
	}

	_, err = s.pool.Exec(ctx, `
INSERT INTO jobs (id, queue, kind, created_at, updated_at, scheduled_at, locked_at,
                   attempts, max_attempts, lease_seconds, priority, unique_key, payload, error_reason)
SELECT $1, $2, $3, $4, $5, $6, NULL, 0, $7, $8, $9, $10, $11, NULL
WHERE NOT EXISTS (
    SELECT 1 FROM jobs
    WHERE queue = $2 AND kind = $3 AND unique_key = $10 AND attempts < max_attempts
)`,
		j.Id, j.Queue, j.Kind, j.CreatedAt, j.UpdatedAt, j.ScheduledAt,
		j.MaxAttempts, int64(j.LeaseTime/time.Second), j.Priority, *j.UniqueKey, payload,
	)
	return err
}

// Exists reports whether a row matching (queue, kind, id) currently
// exists.
func (s *Store) Exists(ctx context.Context, queue, kind, id string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM jobs WHERE queue = $1 AND kind = $2 AND id = $3)`,
		queue, kind, id,
	).Scan(&exists)
	return exists, err
}

// CancelByID deletes the row matching (queue, kind, id), if any.
func (s *Store) CancelByID(ctx context.Context, queue, kind, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM jobs WHERE queue = $1 AND kind = $2 AND id = $3`,
		queue, kind, id,
	)
	return err
}

// CancelByUniqueKey deletes every row matching (queue, kind, key).
func (s *Store) CancelByUniqueKey(ctx context.Context, queue, kind, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM jobs WHERE queue = $1 AND kind = $2 AND unique_key = $3`,
		queue, kind, key,
	)
	return err
}
