package job

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultQueue is the routing key a Job is assigned when none is set.
	DefaultQueue = "default"

	// DefaultMaxAttempts bounds the number of lease acquisitions a job
	// may undergo before it becomes dead.
	DefaultMaxAttempts = 3

	// DefaultLeaseTime is the visibility timeout assigned to a job when
	// a worker leases it, absent an explicit WithLeaseTime call.
	DefaultLeaseTime = 30 * time.Second
)

// Job is a unit of deferred work as stored by a taskq backend.
//
// Id is assigned by New using a time-ordered (k-sortable) UUIDv7, so that
// jobs inserted in quick succession sort in creation order by id alone.
// Queue is the routing key a Worker subscribes to; Kind selects the
// Handler within that queue. Payload is an opaque document the backend
// stores verbatim — handlers decode it via Context.Deserialize.
//
// LockedAt is non-nil exactly while a worker holds the lease; a lease
// older than LeaseTime is considered abandoned and is eligible for
// re-acquisition by any worker (see JobProcessor.PollNextJob). UniqueKey,
// when set, deduplicates Publish calls scoped to (Queue, Kind) among
// non-terminal rows.
type Job struct {
	Id      string
	Queue   string
	Kind    string
	Payload any

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ScheduledAt time.Time
	LockedAt    *time.Time

	Attempts    uint32
	MaxAttempts uint32
	LeaseTime   time.Duration
	Priority    int32

	UniqueKey   *string
	ErrorReason any
}

// New creates a Job with the library defaults: queue "default", a fresh
// UUIDv7 id, zero attempts, MaxAttempts = 3, LeaseTime = 30s, priority 0
// and an unset schedule (meaning "now", resolved by Producer.Publish).
//
// New does not contact storage; the job only becomes durable once passed
// to Producer.Publish.
func New(kind string, payload any) *Job {
	return &Job{
		Id:          uuid.Must(uuid.NewV7()).String(),
		Queue:       DefaultQueue,
		Kind:        kind,
		Payload:     payload,
		Attempts:    0,
		MaxAttempts: DefaultMaxAttempts,
		LeaseTime:   DefaultLeaseTime,
		Priority:    0,
	}
}

// WithQueue overrides the default "default" queue.
func (j *Job) WithQueue(queue string) *Job {
	j.Queue = queue
	return j
}

// WithID overrides the generated id. Callers that do this are responsible
// for id uniqueness.
func (j *Job) WithID(id string) *Job {
	j.Id = id
	return j
}

// WithAttempts seeds the attempts counter. Used mainly by backends
// reconstructing a Job snapshot, not by ordinary producers.
func (j *Job) WithAttempts(attempts uint32) *Job {
	j.Attempts = attempts
	return j
}

// WithMaxAttempts overrides the default of 3.
func (j *Job) WithMaxAttempts(maxAttempts uint32) *Job {
	j.MaxAttempts = maxAttempts
	return j
}

// WithLeaseTime overrides the default 30 second visibility timeout.
func (j *Job) WithLeaseTime(leaseTime time.Duration) *Job {
	j.LeaseTime = leaseTime
	return j
}

// WithScheduleAt sets an explicit earliest-eligible timestamp.
func (j *Job) WithScheduleAt(at time.Time) *Job {
	j.ScheduledAt = at
	return j
}

// WithScheduleIn schedules the job delay from now.
func (j *Job) WithScheduleIn(delay time.Duration) *Job {
	j.ScheduledAt = time.Now().Add(delay)
	return j
}

// WithScheduleNow clears any scheduling delay; the job becomes eligible
// as soon as it is published.
func (j *Job) WithScheduleNow() *Job {
	j.ScheduledAt = time.Time{}
	return j
}

// WithPriority overrides the default priority of 0. Higher values are
// preferred by JobProcessor.PollNextJob's ordering.
func (j *Job) WithPriority(priority int32) *Job {
	j.Priority = priority
	return j
}

// WithUniqueKey scopes deduplication to (Queue, Kind, key) among
// non-terminal rows: a second Publish with the same tuple while the first
// is still non-terminal is silently ignored.
func (j *Job) WithUniqueKey(key string) *Job {
	j.UniqueKey = &key
	return j
}

// WithErrorReason seeds the last-failure document. Used by backends
// reconstructing a Job snapshot; producers normally leave this unset.
func (j *Job) WithErrorReason(reason any) *Job {
	j.ErrorReason = reason
	return j
}

// Dead reports whether the job has exhausted its retry budget and will no
// longer be selected by PollNextJob.
func (j *Job) Dead() bool {
	return j.Attempts >= j.MaxAttempts
}

// Leased reports whether the job's lease (LockedAt + LeaseTime) is still
// valid as of now.
func (j *Job) Leased(now time.Time) bool {
	if j.LockedAt == nil {
		return false
	}
	return now.Sub(*j.LockedAt) < j.LeaseTime
}
