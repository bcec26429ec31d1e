package taskq

import "github.com/flowmq/taskq/job"

// Handler processes one leased job and reports its outcome.
//
// Queue and Kind select which jobs a Handler is registered for in a
// Consumer; Handle receives a Context view of the leased job and returns
// either a JobResult (mapped to a completion call) or an error (mapped to
// JobProcessor.Fail).
type Handler interface {
	Queue() string
	Kind() string
	Handle(ctx *Context) (JobResult, error)
}

// HandlerFunc adapts a plain function into a Handler whose queue defaults
// to "default", selected by kind alone.
type HandlerFunc struct {
	KindName string
	Fn       func(ctx *Context) (JobResult, error)
}

func (h HandlerFunc) Queue() string { return job.DefaultQueue }
func (h HandlerFunc) Kind() string  { return h.KindName }
func (h HandlerFunc) Handle(ctx *Context) (JobResult, error) {
	return h.Fn(ctx)
}

// QueuedHandlerFunc adapts a plain function into a Handler explicitly
// scoped to (queue, kind).
type QueuedHandlerFunc struct {
	QueueName string
	KindName  string
	Fn        func(ctx *Context) (JobResult, error)
}

func (h QueuedHandlerFunc) Queue() string { return h.QueueName }
func (h QueuedHandlerFunc) Kind() string  { return h.KindName }
func (h QueuedHandlerFunc) Handle(ctx *Context) (JobResult, error) {
	return h.Fn(ctx)
}

// NewHandler builds a Handler for kind on the default queue from a plain
// function.
func NewHandler(kind string, fn func(ctx *Context) (JobResult, error)) Handler {
	return HandlerFunc{KindName: kind, Fn: fn}
}

// NewQueuedHandler builds a Handler for (queue, kind) from a plain
// function.
func NewQueuedHandler(queue, kind string, fn func(ctx *Context) (JobResult, error)) Handler {
	return QueuedHandlerFunc{QueueName: queue, KindName: kind, Fn: fn}
}
