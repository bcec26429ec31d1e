package taskq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/flowmq/taskq/cancel"
	"github.com/flowmq/taskq/internal"
	"github.com/flowmq/taskq/job"
)

// DefaultPollInterval is used when WithPollInterval is never called.
const DefaultPollInterval = 3 * time.Second

const (
	workerIdle = iota
	workerRunning
)

// Worker drives a poll loop against a JobProcessor, dispatching leased
// jobs to the handlers registered on its Consumer.
//
// A Worker may be built once and Run many times, but not concurrently:
// Run returns ErrAlreadyRunning if called while a previous Run on the
// same Worker is still in progress.
type Worker struct {
	consumer     *Consumer
	concurrency  int
	pollInterval time.Duration
	tok          *cancel.Token
	limiter      *rate.Limiter
	log          *slog.Logger

	state atomic.Int32
}

// NewWorker returns a Worker dispatching to consumer, with an unbounded
// concurrency, a 3s poll interval and its own cancellation token.
func NewWorker(consumer *Consumer) *Worker {
	return &Worker{
		consumer:     consumer,
		pollInterval: DefaultPollInterval,
		tok:          cancel.New(),
		log:          slog.Default(),
	}
}

// WithConcurrency caps the number of simultaneously-executing handlers.
// n <= 0 means unbounded.
func (w *Worker) WithConcurrency(n int) *Worker {
	w.concurrency = n
	return w
}

// WithPollInterval sets the fixed interval at which poll cycles are
// started; a tick is issued on every interval whether or not the
// previous cycle has finished draining.
func (w *Worker) WithPollInterval(d time.Duration) *Worker {
	w.pollInterval = d
	return w
}

// WithCancellationToken replaces the Worker's shutdown token with tok,
// letting callers share one token across several Workers (or with other
// components outside taskq).
func (w *Worker) WithCancellationToken(tok *cancel.Token) *Worker {
	w.tok = tok
	return w
}

// WithPollLimiter rate-limits calls to JobProcessor.PollNextJob, useful
// against backends billed per request or prone to thundering-herd polling
// across many Worker instances.
func (w *Worker) WithPollLimiter(l *rate.Limiter) *Worker {
	w.limiter = l
	return w
}

// WithLogger overrides the Worker's logger; the default is slog.Default().
func (w *Worker) WithLogger(log *slog.Logger) *Worker {
	w.log = log
	return w
}

// firstError latches the first non-nil error reported to it and ignores
// the rest, so Run surfaces the earliest administrative failure rather
// than whichever happened to be reported last.
type firstError struct {
	once sync.Once
	err  error
}

func (e *firstError) set(err error) {
	if err == nil {
		return
	}
	e.once.Do(func() { e.err = err })
}

// Run blocks, driving the poll loop until ctx is cancelled, the Worker's
// cancellation token fires, or a backend error is encountered on
// PollNextJob or on one of the administrative calls (complete_success,
// complete_cancelled, fail). Handler errors never reach Run's return
// value; they are converted into Fail calls and the loop continues.
//
// Run waits for every in-flight handler to finish before returning, even
// when it is returning early because of an error.
func (w *Worker) Run(ctx context.Context, processor JobProcessor) error {
	if !w.state.CompareAndSwap(workerIdle, workerRunning) {
		return ErrAlreadyRunning
	}
	defer w.state.Store(workerIdle)

	queues := w.consumer.Queues()

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	var errs firstError
	queueSize := w.concurrency
	if queueSize <= 0 {
		queueSize = 1
	}
	pool := internal.NewWorkerPool[struct{}](w.concurrency, queueSize, w.log)
	pool.Start(runCtx, func(tickCtx context.Context, _ struct{}) {
		w.drainOnce(tickCtx, processor, queues, &errs, stopRun)
	})

	var poll internal.TimerTask
	poll.Start(runCtx, func(context.Context) {
		pool.Push(struct{}{})
	}, w.pollInterval)

	select {
	case <-ctx.Done():
	case <-w.tok.Done():
	case <-runCtx.Done():
	}
	stopRun()

	stopped := internal.Combine(poll.Stop(), pool.Stop())
	<-stopped

	return errs.err
}

// drainOnce repeatedly polls and dispatches until the backend reports
// nothing eligible: one tick drains the backend dry before yielding
// back to the pool.
func (w *Worker) drainOnce(ctx context.Context, processor JobProcessor, queues []string, errs *firstError, stopRun context.CancelFunc) {
	for {
		if ctx.Err() != nil {
			return
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
		}
		j, err := processor.PollNextJob(ctx, queues)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error("poll_next_job failed", "err", err)
			errs.set(err)
			stopRun()
			return
		}
		if j == nil {
			return
		}
		w.dispatch(ctx, processor, j, errs, stopRun)
	}
}

func (w *Worker) dispatch(ctx context.Context, processor JobProcessor, j *job.Job, errs *firstError, stopRun context.CancelFunc) {
	handler, ok := w.consumer.Lookup(j.Queue, j.Kind)
	if !ok {
		reason := fmt.Sprintf("%s: queue=%q kind=%q", ErrNoHandler.Error(), j.Queue, j.Kind)
		if err := processor.Fail(ctx, j.Queue, j.Kind, j.Id, reason); err != nil {
			w.log.Error("fail (no handler) failed", "id", j.Id, "err", err)
			errs.set(err)
			stopRun()
		}
		return
	}

	result, err := handler.Handle(NewContext(j, w.tok))
	if err != nil {
		if ferr := processor.Fail(ctx, j.Queue, j.Kind, j.Id, err.Error()); ferr != nil {
			w.log.Error("fail failed", "id", j.Id, "err", ferr)
			errs.set(ferr)
			stopRun()
		}
		return
	}

	if result.Cancelled() {
		if cerr := processor.CompleteCancelled(ctx, j.Queue, j.Kind, j.Id, result.Message()); cerr != nil {
			w.log.Error("complete_cancelled failed", "id", j.Id, "err", cerr)
			errs.set(cerr)
			stopRun()
		}
		return
	}

	if serr := processor.CompleteSuccess(ctx, j.Queue, j.Kind, j.Id); serr != nil {
		w.log.Error("complete_success failed", "id", j.Id, "err", serr)
		errs.set(serr)
		stopRun()
	}
}
