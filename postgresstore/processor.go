package postgresstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/flowmq/taskq/job"
)

// PollNextJob claims the highest-priority, oldest-updated eligible job
// across queues. Claiming is a two-step transaction: a
// SELECT ... FOR UPDATE SKIP LOCKED picks a candidate row without
// blocking on rows other workers are concurrently inspecting, then an
// UPDATE acquires the lease on it before commit.
func (s *Store) PollNextJob(ctx context.Context, queues []string) (*job.Job, error) {
	if len(queues) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
SELECT id FROM jobs
WHERE queue = ANY($1)
  AND scheduled_at <= $2
  AND attempts < max_attempts
  AND (locked_at IS NULL OR locked_at + make_interval(secs => lease_seconds) <= $2)
ORDER BY priority DESC, updated_at ASC
LIMIT 1
FOR UPDATE SKIP LOCKED`,
		queues, now,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	j, err := scanJob(tx.QueryRow(ctx, `
UPDATE jobs
SET locked_at = $2, updated_at = $2, attempts = attempts + 1
WHERE id = $1
RETURNING `+jobColumns,
		id, now,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

// CompleteSuccess deletes the row matching (queue, kind, id). Idempotent.
func (s *Store) CompleteSuccess(ctx context.Context, queue, kind, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM jobs WHERE queue = $1 AND kind = $2 AND id = $3`,
		queue, kind, id,
	)
	return err
}

// CompleteCancelled behaves like CompleteSuccess; message is accepted for
// interface symmetry but is not persisted by this backend.
func (s *Store) CompleteCancelled(ctx context.Context, queue, kind, id string, message string) error {
	return s.CompleteSuccess(ctx, queue, kind, id)
}

// Fail clears the lease and records reason without touching scheduled_at.
func (s *Store) Fail(ctx context.Context, queue, kind, id string, reason any) error {
	encoded, err := json.Marshal(reason)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
UPDATE jobs
SET locked_at = NULL, updated_at = $1, error_reason = $2
WHERE queue = $3 AND kind = $4 AND id = $5`,
		time.Now().UTC(), encoded, queue, kind, id,
	)
	return err
}
