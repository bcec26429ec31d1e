package taskq_test

import (
	"errors"
	"testing"

	"github.com/flowmq/taskq"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := taskq.NewError(taskq.KindIO, "poll_next_job", errors.New("connection refused"))

	if !errors.Is(err, &taskq.Error{Kind: taskq.KindIO}) {
		t.Fatal("expected errors.Is to match on Kind")
	}
	if errors.Is(err, &taskq.Error{Kind: taskq.KindDecode}) {
		t.Fatal("expected errors.Is to not match a different Kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := taskq.NewError(taskq.KindBackend, "fail", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected Unwrap to expose the underlying cause")
	}
}

func TestNewErrorNilCause(t *testing.T) {
	if taskq.NewError(taskq.KindUnknown, "op", nil) != nil {
		t.Fatal("expected NewError to return nil for a nil cause")
	}
}
