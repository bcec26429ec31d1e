package sqlitestore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/flowmq/taskq/job"
)

// DeadLetter provides read and purge access to dead rows (attempts ==
// max_attempts) on a queue — an administrative capability outside the
// core poll/complete/fail contract, for operators inspecting jobs that
// have exhausted their retry budget.
type DeadLetter struct {
	db *bun.DB
}

// NewDeadLetter wraps db.
func NewDeadLetter(db *bun.DB) *DeadLetter {
	return &DeadLetter{db: db}
}

// ListDead returns up to limit dead jobs in queue, oldest-updated first.
// limit <= 0 means no limit.
func (d *DeadLetter) ListDead(ctx context.Context, queue string, limit int) ([]*job.Job, error) {
	var models []*jobModel
	q := d.db.NewSelect().
		Model(&models).
		Where("queue = ?", queue).
		Where("attempts >= max_attempts").
		Order("updated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]*job.Job, len(models))
	for i, m := range models {
		out[i] = m.toJob()
	}
	return out, nil
}

// PurgeDead deletes every dead job in queue and returns the number of
// rows removed.
func (d *DeadLetter) PurgeDead(ctx context.Context, queue string) (int64, error) {
	res, err := d.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("queue = ?", queue).
		Where("attempts >= max_attempts").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
