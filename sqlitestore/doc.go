// Package sqlitestore implements taskq.Producer and taskq.JobProcessor on
// top of github.com/uptrace/bun and modernc.org/sqlite.
//
// # Overview
//
// The backend provides:
//
//   - durable persistence of jobs in a single "jobs" table;
//   - atomic duplicate detection at publish time when a job carries a
//     unique key;
//   - atomic lease acquisition for PollNextJob using a single
//     UPDATE ... WHERE id IN (subquery) ... RETURNING statement, so
//     selection and state transition happen as one step;
//   - visibility-timeout (lease) recovery purely from locked_at +
//     lease_time, no lease tokens.
//
// # Concurrency model
//
// PollNextJob relies on SQLite's single-writer model: bun serializes
// writers at the connection-pool level, so the UPDATE ... RETURNING
// acquisition is race-free as long as callers keep MaxOpenConns(1) (or
// rely on WAL + busy_timeout) exactly as the package's own tests do.
//
// # Schema
//
// InitSchema creates the jobs table and the indexes PollNextJob and the
// dead-letter queries need, inside a single transaction. It is idempotent
// and performs no destructive migration; schema evolution is external.
//
// # Lifecycle
//
// This package does not manage connection pooling or *bun.DB lifecycle.
// Callers must construct and configure the *bun.DB (driver, pragmas,
// connection limits) and call InitSchema before using Producer or
// Processor.
package sqlitestore
