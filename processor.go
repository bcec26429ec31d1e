package taskq

import (
	"context"

	"github.com/flowmq/taskq/job"
)

// JobProcessor is the backend contract a Worker drives: lease the next
// eligible job, and report its outcome back. This is the hardest part of
// the system — it encodes the exact predicate and atomicity a store must
// provide for correctness under concurrent workers.
type JobProcessor interface {
	// PollNextJob selects the highest-priority, oldest-updated job
	// eligible across queues and atomically leases it.
	//
	// A job is eligible iff: its Queue is in queues; ScheduledAt <= now;
	// Attempts < MaxAttempts; and either LockedAt is unset or the lease
	// has expired (now - LockedAt >= LeaseTime).
	//
	// Ordering is priority DESC, then UpdatedAt ASC (FIFO within a
	// priority band; a retried job's UpdatedAt bump moves it to the
	// tail of its band).
	//
	// Acquisition sets LockedAt := now, UpdatedAt := now and
	// Attempts := Attempts + 1 in the same atomic step that selects the
	// row, and returns the updated snapshot. If nothing is eligible,
	// PollNextJob returns (nil, nil). Implementations must guarantee
	// that concurrent workers never increment Attempts more than once
	// per lease acquisition for the same row.
	PollNextJob(ctx context.Context, queues []string) (*job.Job, error)

	// CompleteSuccess deletes the row matching (queue, kind, id).
	// Idempotent.
	CompleteSuccess(ctx context.Context, queue, kind, id string) error

	// CompleteCancelled behaves like CompleteSuccess; message is
	// optional and purely informational.
	CompleteCancelled(ctx context.Context, queue, kind, id string, message string) error

	// Fail clears the lease and records the failure: LockedAt := nil,
	// UpdatedAt := now, ErrorReason := reason. The row is not deleted
	// and not rescheduled into the future — the next PollNextJob call
	// will consider it again, subject to Attempts < MaxAttempts.
	Fail(ctx context.Context, queue, kind, id string, reason any) error
}
