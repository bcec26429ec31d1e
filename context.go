package taskq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/flowmq/taskq/cancel"
	"github.com/flowmq/taskq/job"
)

// Context is the read-only per-job view a Worker hands to a Handler. It
// exposes the leased Job's routing/payload fields plus the shared
// cancellation token, without giving the handler a way to mutate queue
// state directly — transitions only happen through the Worker's
// completion/failure calls after Handle returns.
type Context struct {
	j   *job.Job
	tok *cancel.Token
}

// NewContext builds a Context wrapping a leased job snapshot and the
// worker's shared cancellation token.
func NewContext(j *job.Job, tok *cancel.Token) *Context {
	return &Context{j: j, tok: tok}
}

// Id returns the job's identifier.
func (c *Context) Id() string { return c.j.Id }

// Queue returns the job's queue.
func (c *Context) Queue() string { return c.j.Queue }

// Kind returns the job's kind.
func (c *Context) Kind() string { return c.j.Kind }

// Payload returns the job's raw, still-opaque payload.
func (c *Context) Payload() any { return c.j.Payload }

// ErrorReason returns the previous attempt's failure reason, or nil if
// this is the job's first attempt.
func (c *Context) ErrorReason() any { return c.j.ErrorReason }

// LeaseTime returns the visibility timeout the current lease was granted
// for.
func (c *Context) LeaseTime() time.Duration { return c.j.LeaseTime }

// Attempts returns the 1-based attempt number of the current execution
// (PollNextJob increments Attempts before returning the job).
func (c *Context) Attempts() uint32 { return c.j.Attempts }

// CancellationToken returns the shared shutdown signal. Long-running
// handlers may observe it to abort early; the core never forces
// termination.
func (c *Context) CancellationToken() *cancel.Token { return c.tok }

// Deserialize decodes the job's payload into T. Payload is stored as an
// opaque `any` by the core (backends marshal it to their native document
// format); Deserialize round-trips it through JSON so that both a
// driver-decoded map[string]any and an already-typed value unmarshal into
// T uniformly.
func Deserialize[T any](c *Context) (T, error) {
	var out T
	raw, err := json.Marshal(c.j.Payload)
	if err != nil {
		return out, NewError(KindDecode, "deserialize", fmt.Errorf("marshal payload: %w", err))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, NewError(KindDecode, "deserialize", fmt.Errorf("unmarshal payload: %w", err))
	}
	return out, nil
}
