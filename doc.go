// Package taskq provides a storage-agnostic, durable job queue with
// at-least-once delivery semantics and lease-based (visibility timeout)
// mutual exclusion.
//
// # Overview
//
// taskq models a durable job queue with explicit, atomicity-at-the-backend
// state transitions. A Job (package job) is a persisted record: a producer
// publishes it, and one or more worker processes poll, lease, execute and
// either complete or fail it with bounded retry.
//
// The package does not mandate any particular storage backend. The
// sqlitestore and postgresstore subpackages provide two concrete
// implementations; any store satisfying Producer and JobProcessor may be
// used in their place.
//
// # Delivery Semantics
//
// taskq provides at-least-once processing guarantees. A job may be
// delivered more than once if a worker crashes mid-execution or its lease
// (LeaseTime) expires before it completes. Handlers must therefore be
// idempotent.
//
// # Lease Model
//
// When a job is polled, JobProcessor.PollNextJob atomically increments its
// Attempts counter and sets LockedAt to the poll time. While
// now - LockedAt < LeaseTime, the job is invisible to every other poll.
// If the lease expires first, the job becomes eligible again — no separate
// lock-extension call exists; the core relies entirely on bounded handler
// wall-time plus a generous LeaseTime.
//
// # State Machine
//
// Job state is derived from its columns, never stored explicitly:
//
//	created  -> ready              (scheduled_at <= now, locked_at = nil)
//	ready    -> running (lease)    (via PollNextJob)
//	running  -> done (deleted)     (via CompleteSuccess)
//	running  -> cancelled (deleted)(via CompleteCancelled)
//	running  -> failed -> ready    (via Fail, if attempts < max_attempts)
//	running  -> failed -> dead     (via Fail, if attempts = max_attempts)
//	running  -> ready              (lease expiry, no explicit call)
//
// Dead jobs (attempts = max_attempts) are not retried and are not
// automatically deleted; see the DeadLetter admin capability on each
// backend for inspecting and purging them.
//
// # Retry Policy
//
// Attempts are incremented at lease acquisition time, not at failure time:
// a worker that crashes mid-handler still consumes an attempt, so a
// poison job eventually stops being selected even if no worker ever calls
// Fail on it. Fail never reschedules into the future; a failed job is
// immediately eligible again on the next poll (subject to the attempts
// bound).
//
// # Worker
//
// Worker coordinates polling, dispatch and completion:
//
//   - periodically polls storage for eligible jobs across every queue a
//     Consumer has registered a handler for
//   - looks up the matching Handler by (queue, kind)
//   - dispatches to the handler, bounded by Concurrency in-flight handlers
//   - calls the matching JobProcessor completion/failure method
//
// Worker does not maintain an in-memory ready queue; every dispatch is
// preceded by a fresh poll, which keeps the design stateless across
// restarts at the cost of one round-trip per job.
//
// # Concurrency Model
//
// Worker uses a pool of concurrently-running poll/dispatch loops (see
// internal.WorkerPool), bounded by WithConcurrency and unbounded when no
// concurrency is set, which is the default. Each loop drains its queue set sequentially —
// parallelism comes from multiple such loops running concurrently, not
// from parallel dispatch within one loop.
//
// Shutdown is cooperative: a shared cancellation token (package cancel) is
// observed by the poll loop and by every Context handed to a handler.
// In-flight handlers are awaited before Run returns.
package taskq
