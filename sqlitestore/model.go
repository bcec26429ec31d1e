package sqlitestore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/flowmq/taskq/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	Id    string `bun:"id,pk"`
	Queue string `bun:"queue,notnull"`
	Kind  string `bun:"kind,notnull"`

	CreatedAt   time.Time  `bun:"created_at,notnull"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`
	ScheduledAt time.Time  `bun:"scheduled_at,notnull"`
	LockedAt    *time.Time `bun:"locked_at,nullzero"`

	Attempts     uint32 `bun:"attempts,notnull,default:0"`
	MaxAttempts  uint32 `bun:"max_attempts,notnull"`
	LeaseSeconds int64  `bun:"lease_seconds,notnull"`
	Priority     int32  `bun:"priority,notnull,default:0"`

	UniqueKey *string `bun:"unique_key,nullzero"`

	Payload     any `bun:"payload,type:jsonb"`
	ErrorReason any `bun:"error_reason,type:jsonb"`
}

func (m *jobModel) toJob() *job.Job {
	j := &job.Job{
		Id:          m.Id,
		Queue:       m.Queue,
		Kind:        m.Kind,
		Payload:     m.Payload,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		ScheduledAt: m.ScheduledAt,
		LockedAt:    m.LockedAt,
		Attempts:    m.Attempts,
		MaxAttempts: m.MaxAttempts,
		LeaseTime:   time.Duration(m.LeaseSeconds) * time.Second,
		Priority:    m.Priority,
		UniqueKey:   m.UniqueKey,
		ErrorReason: m.ErrorReason,
	}
	return j
}

func fromJob(j *job.Job) *jobModel {
	return &jobModel{
		Id:           j.Id,
		Queue:        j.Queue,
		Kind:         j.Kind,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		ScheduledAt:  j.ScheduledAt,
		LockedAt:     j.LockedAt,
		Attempts:     j.Attempts,
		MaxAttempts:  j.MaxAttempts,
		LeaseSeconds: int64(j.LeaseTime / time.Second),
		Priority:     j.Priority,
		UniqueKey:    j.UniqueKey,
		Payload:      j.Payload,
		ErrorReason:  j.ErrorReason,
	}
}
