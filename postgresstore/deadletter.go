package postgresstore

import (
	"context"

	"github.com/flowmq/taskq/job"
)

// ListDead returns up to limit dead jobs (attempts >= max_attempts) in
// queue, oldest-updated first. limit <= 0 means no limit.
func (s *Store) ListDead(ctx context.Context, queue string, limit int) ([]*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE queue = $1 AND attempts >= max_attempts ORDER BY updated_at ASC`
	args := []any{queue}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// PurgeDead deletes every dead job in queue and returns the number of rows
// removed.
func (s *Store) PurgeDead(ctx context.Context, queue string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM jobs WHERE queue = $1 AND attempts >= max_attempts`,
		queue,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
