package sqlitestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	"github.com/flowmq/taskq/job"
)

// Processor implements taskq.JobProcessor on a *bun.DB.
type Processor struct {
	db *bun.DB
}

// NewProcessor wraps db. InitSchema must have been run against db already.
func NewProcessor(db *bun.DB) *Processor {
	return &Processor{db: db}
}

// PollNextJob selects and leases the highest-priority, oldest-updated
// eligible job across queues using a single UPDATE ... WHERE id IN
// (subquery) ... RETURNING statement, so selection and lease acquisition
// happen atomically.
func (p *Processor) PollNextJob(ctx context.Context, queues []string) (*job.Job, error) {
	if len(queues) == 0 {
		return nil, nil
	}
	now := time.Now()

	subQuery := p.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("queue IN (?)", bun.In(queues)).
		Where("scheduled_at <= ?", now).
		Where("attempts < max_attempts").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("locked_at IS NULL").
				WhereOr("datetime(locked_at, '+' || lease_seconds || ' seconds') <= ?", now)
		}).
		Order("priority DESC", "updated_at ASC").
		Limit(1)

	var models []*jobModel
	err := p.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("locked_at = ?", now).
		Set("updated_at = ?", now).
		Set("attempts = attempts + 1").
		Where("id IN (?)", subQuery).
		Returning("*").
		Scan(ctx, &models)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].toJob(), nil
}

// CompleteSuccess deletes the row matching (queue, kind, id). Idempotent.
func (p *Processor) CompleteSuccess(ctx context.Context, queue, kind, id string) error {
	_, err := p.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("queue = ?", queue).
		Where("kind = ?", kind).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// CompleteCancelled behaves like CompleteSuccess; message is accepted for
// interface symmetry but is not persisted by this backend.
func (p *Processor) CompleteCancelled(ctx context.Context, queue, kind, id string, message string) error {
	return p.CompleteSuccess(ctx, queue, kind, id)
}

// Fail clears the lease and records reason without touching scheduled_at:
// the job is reconsidered on the very next poll, subject to
// attempts < max_attempts.
func (p *Processor) Fail(ctx context.Context, queue, kind, id string, reason any) error {
	now := time.Now()
	encoded, err := json.Marshal(reason)
	if err != nil {
		return err
	}
	_, err = p.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("locked_at = NULL").
		Set("updated_at = ?", now).
		Set("error_reason = ?", string(encoded)).
		Where("queue = ?", queue).
		Where("kind = ?", kind).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
