package cancel_test

import (
	"testing"
	"time"

	"github.com/flowmq/taskq/cancel"
)

func TestTokenCancel(t *testing.T) {
	tok := cancel.New()
	if tok.Cancelled() {
		t.Fatal("expected a fresh token to be non-cancelled")
	}

	tok.Cancel()
	if !tok.Cancelled() {
		t.Fatal("expected token to be cancelled")
	}

	select {
	case <-tok.Done():
	case <-time.After(time.Second):
		t.Fatal("expected Done() to be closed after Cancel")
	}
}

func TestTokenCancelIdempotent(t *testing.T) {
	tok := cancel.New()
	tok.Cancel()
	tok.Cancel() // must not panic
	if !tok.Cancelled() {
		t.Fatal("expected token to remain cancelled")
	}
}
