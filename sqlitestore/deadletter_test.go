package sqlitestore_test

import (
	"context"
	"testing"

	"github.com/flowmq/taskq/job"
	"github.com/flowmq/taskq/sqlitestore"
)

func TestDeadLetterListAndPurge(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	producer := sqlitestore.NewProducer(db)
	processor := sqlitestore.NewProcessor(db)
	dead := sqlitestore.NewDeadLetter(db)

	j := job.New("send_email", nil).WithMaxAttempts(1)
	if err := producer.Publish(ctx, j); err != nil {
		t.Fatal(err)
	}
	leased, err := processor.PollNextJob(ctx, []string{job.DefaultQueue})
	if err != nil {
		t.Fatal(err)
	}
	if err := processor.Fail(ctx, leased.Queue, leased.Kind, leased.Id, "boom"); err != nil {
		t.Fatal(err)
	}

	rows, err := dead.ListDead(ctx, job.DefaultQueue, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 dead job, got %d", len(rows))
	}

	n, err := dead.PurgeDead(ctx, job.DefaultQueue)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected to purge 1 row, got %d", n)
	}

	rows, err = dead.ListDead(ctx, job.DefaultQueue, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatal("expected no dead jobs after purge")
	}
}
