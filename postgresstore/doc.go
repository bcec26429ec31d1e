// Package postgresstore implements taskq.Producer and taskq.JobProcessor
// on top of github.com/jackc/pgx/v5, with schema bootstrap handled by
// github.com/pressly/goose/v3 over an embedded migration set.
//
// # Overview
//
// Unlike sqlitestore's single-statement UPDATE ... RETURNING lease, this
// backend acquires a lease with SELECT ... FOR UPDATE SKIP LOCKED inside a
// pgx transaction, then UPDATEs the locked row and commits — the
// two-step, row-lock-based claim pattern multiple concurrent Postgres
// workers use to avoid contending on the same candidate row.
//
// # Schema
//
// NewStore runs every migration embedded under migrations/ via goose
// before the pool is considered ready. NewStore only applies Up migrations,
// which are additive (CREATE TABLE IF NOT EXISTS, CREATE INDEX IF NOT
// EXISTS); the migration's Down section, which drops the jobs table, is
// never run by this package.
//
// # Lifecycle
//
// Store owns a *pgxpool.Pool sized from DBConfig (auto-scaled from
// GOMAXPROCS when left at zero) and must be closed by the caller via
// Store.Close when no longer needed.
package postgresstore
