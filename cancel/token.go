// Package cancel provides a broadcast cancellation signal shared between a
// Worker's poll loop and every Context it hands to a Handler, mirroring
// the single-token design used by the Rust source this library is ported
// from (tokio_util::sync::CancellationToken) — a shape distinct from a
// plain context.Context because the same token must be observable from
// many independently-constructed Contexts without re-threading a parent
// context through every layer.
package cancel

import "sync"

// Token is a one-shot, broadcastable cancellation signal. The zero value
// is not usable; construct one with New.
type Token struct {
	once sync.Once
	done chan struct{}
}

// New returns a ready-to-use Token in the non-cancelled state.
func New() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel triggers the token. Safe to call more than once or from multiple
// goroutines; only the first call has an effect.
func (t *Token) Cancel() {
	t.once.Do(func() {
		close(t.done)
	})
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once Cancel has been called. It is
// safe to select on Done from any number of goroutines.
func (t *Token) Done() <-chan struct{} {
	return t.done
}
