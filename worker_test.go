package taskq_test

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/flowmq/taskq"
	"github.com/flowmq/taskq/job"
	"github.com/flowmq/taskq/sqlitestore"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1) // important for sqlite
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := sqlitestore.InitSchema(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestWorkerProcessesJob(t *testing.T) {
	db := newTestDB(t)
	producer := sqlitestore.NewProducer(db)
	processor := sqlitestore.NewProcessor(db)

	handlerCalled := make(chan struct{}, 1)
	consumer := taskq.NewConsumer().Register(taskq.NewHandler("send_email", func(ctx *taskq.Context) (taskq.JobResult, error) {
		handlerCalled <- struct{}{}
		return taskq.CompleteWithSuccess(), nil
	}))

	worker := taskq.NewWorker(consumer).
		WithConcurrency(1).
		WithPollInterval(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- worker.Run(ctx, processor) }()

	j := job.New("send_email", nil)
	if err := producer.Publish(context.Background(), j); err != nil {
		t.Fatal(err)
	}

	select {
	case <-handlerCalled:
	case <-time.After(time.Second):
		t.Fatal("handler not called")
	}

	deadline := time.Now().Add(time.Second)
	for {
		ok, err := producer.Exists(context.Background(), j.Queue, j.Kind, j.Id)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected job row to be deleted after successful completion")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-runErr; err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
}

func TestWorkerRetriesThenSucceeds(t *testing.T) {
	db := newTestDB(t)
	producer := sqlitestore.NewProducer(db)
	processor := sqlitestore.NewProcessor(db)

	var calls atomic.Int32
	consumer := taskq.NewConsumer().Register(taskq.NewHandler("flaky", func(ctx *taskq.Context) (taskq.JobResult, error) {
		if calls.Add(1) < 2 {
			return taskq.JobResult{}, errors.New("fail once")
		}
		return taskq.CompleteWithSuccess(), nil
	}))

	worker := taskq.NewWorker(consumer).
		WithConcurrency(1).
		WithPollInterval(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- worker.Run(ctx, processor) }()
	defer func() {
		cancel()
		<-runErr
	}()

	j := job.New("flaky", nil).WithMaxAttempts(5)
	if err := producer.Publish(context.Background(), j); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if calls.Load() >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 2 attempts, got %d", calls.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWorkerNoHandlerFailsJob(t *testing.T) {
	db := newTestDB(t)
	producer := sqlitestore.NewProducer(db)
	processor := sqlitestore.NewProcessor(db)
	deadLetter := sqlitestore.NewDeadLetter(db)

	// A handler for another kind on the default queue puts that queue in
	// the poll set; nothing handles the kind the job below is published as.
	consumer := taskq.NewConsumer().Register(taskq.NewHandler("other_kind", func(ctx *taskq.Context) (taskq.JobResult, error) {
		return taskq.CompleteWithSuccess(), nil
	}))

	worker := taskq.NewWorker(consumer).
		WithConcurrency(1).
		WithPollInterval(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- worker.Run(ctx, processor) }()
	defer func() {
		cancel()
		<-runErr
	}()

	j := job.New("no_such_kind", nil).WithMaxAttempts(1)
	if err := producer.Publish(context.Background(), j); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		rows, err := deadLetter.ListDead(context.Background(), job.DefaultQueue, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected unhandled job to end up dead after exhausting its single attempt")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
