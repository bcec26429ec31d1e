// Package job defines Job, the persisted entity managed by a taskq
// backend.
//
// A Job is a row owned by the store: in-memory Job values returned by
// JobProcessor.PollNextJob are snapshots, owned exclusively by the worker
// that leased them for the duration between a successful lease
// acquisition and the matching complete/cancel/fail call. Mutating a
// snapshot's fields does not change the underlying queue state —
// transitions happen only through the JobProcessor port.
//
// Job carries no Status field: its lifecycle state (ready, running,
// failed-retryable, dead) is derived from LockedAt, Attempts, MaxAttempts
// and ScheduledAt rather than stored explicitly, so a backend never needs
// to keep a status column and a set of timestamps in sync.
package job
