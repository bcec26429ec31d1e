package job_test

import (
	"testing"
	"time"

	"github.com/flowmq/taskq/job"
)

func TestNewDefaults(t *testing.T) {
	j := job.New("send_email", nil)
	if j.Queue != job.DefaultQueue {
		t.Fatalf("expected default queue, got %q", j.Queue)
	}
	if j.MaxAttempts != job.DefaultMaxAttempts {
		t.Fatalf("expected default max attempts, got %d", j.MaxAttempts)
	}
	if j.LeaseTime != job.DefaultLeaseTime {
		t.Fatalf("expected default lease time, got %v", j.LeaseTime)
	}
	if j.Id == "" {
		t.Fatal("expected a generated id")
	}
}

func TestDead(t *testing.T) {
	j := job.New("k", nil).WithMaxAttempts(2).WithAttempts(2)
	if !j.Dead() {
		t.Fatal("expected job to be dead once attempts == max_attempts")
	}
	j2 := job.New("k", nil).WithMaxAttempts(2).WithAttempts(1)
	if j2.Dead() {
		t.Fatal("expected job with attempts < max_attempts to not be dead")
	}
}

func TestLeased(t *testing.T) {
	j := job.New("k", nil).WithLeaseTime(time.Second)
	if j.Leased(time.Now()) {
		t.Fatal("expected an unlocked job to not be leased")
	}

	now := time.Now()
	locked := now.Add(-500 * time.Millisecond)
	j.LockedAt = &locked
	if !j.Leased(now) {
		t.Fatal("expected job to still be within its lease")
	}

	expired := now.Add(-2 * time.Second)
	j.LockedAt = &expired
	if j.Leased(now) {
		t.Fatal("expected job lease to have expired")
	}
}

func TestFluentBuilder(t *testing.T) {
	j := job.New("k", nil).
		WithQueue("emails").
		WithPriority(5).
		WithUniqueKey("user-1")

	if j.Queue != "emails" || j.Priority != 5 || j.UniqueKey == nil || *j.UniqueKey != "user-1" {
		t.Fatalf("unexpected job state: %+v", j)
	}
}
