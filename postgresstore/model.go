package postgresstore

import (
	"encoding/json"
	"time"

	"github.com/flowmq/taskq/job"
)

// rowScanner is satisfied by both pgx.Row (QueryRow) and pgx.Rows (Query),
// the two shapes the package's Scan calls need.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*job.Job, error) {
	var (
		id, queue, kind    string
		createdAt          time.Time
		updatedAt          time.Time
		scheduledAt        time.Time
		lockedAt           *time.Time
		attempts           uint32
		maxAttempts        uint32
		leaseSeconds       int64
		priority           int32
		uniqueKey          *string
		payloadRaw         []byte
		errorReasonRaw     []byte
	)
	if err := row.Scan(
		&id, &queue, &kind,
		&createdAt, &updatedAt, &scheduledAt, &lockedAt,
		&attempts, &maxAttempts, &leaseSeconds, &priority,
		&uniqueKey, &payloadRaw, &errorReasonRaw,
	); err != nil {
		return nil, err
	}

	j := &job.Job{
		Id:          id,
		Queue:       queue,
		Kind:        kind,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		ScheduledAt: scheduledAt,
		LockedAt:    lockedAt,
		Attempts:    attempts,
		MaxAttempts: maxAttempts,
		LeaseTime:   time.Duration(leaseSeconds) * time.Second,
		Priority:    priority,
		UniqueKey:   uniqueKey,
	}
	if len(payloadRaw) > 0 {
		if err := json.Unmarshal(payloadRaw, &j.Payload); err != nil {
			return nil, err
		}
	}
	if len(errorReasonRaw) > 0 {
		if err := json.Unmarshal(errorReasonRaw, &j.ErrorReason); err != nil {
			return nil, err
		}
	}
	return j, nil
}

const jobColumns = `id, queue, kind, created_at, updated_at, scheduled_at, locked_at,
	attempts, max_attempts, lease_seconds, priority, unique_key, payload, error_reason`
