package taskq

import (
	"context"

	"github.com/flowmq/taskq/job"
)

// Producer is the write-side entry point of a queue: publish new work,
// probe existence, and cancel by id or by unique key.
//
// All four methods fail only on transport/serialization errors; there is
// no business-level failure mode (a duplicate Publish or a cancel of a
// missing id are both treated as success, not an error).
type Producer interface {
	// Publish persists j. If j.UniqueKey is set, the call is atomic with
	// a duplicate check over non-terminal rows sharing
	// (j.Queue, j.Kind, *j.UniqueKey); a duplicate is silently ignored,
	// not an error. Publish sets CreatedAt = UpdatedAt = now, clears
	// LockedAt and ErrorReason, resets Attempts to 0, and defaults
	// ScheduledAt to now if j.ScheduledAt is zero. Publish must not be
	// considered to have enqueued j if it returns a non-nil error.
	Publish(ctx context.Context, j *job.Job) error

	// Exists reports whether a row matching (queue, kind, id) currently
	// exists, independent of its terminal/non-terminal state.
	Exists(ctx context.Context, queue, kind, id string) (bool, error)

	// CancelByID deletes the row matching (queue, kind, id) if any.
	// Idempotent: calling it when no such row exists is a success.
	CancelByID(ctx context.Context, queue, kind, id string) error

	// CancelByUniqueKey deletes every row matching (queue, kind, key).
	// At most one non-terminal row can share a unique key, but stale
	// terminal rows may also match and must be removed too.
	CancelByUniqueKey(ctx context.Context, queue, kind, key string) error
}
