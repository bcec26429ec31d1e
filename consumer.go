package taskq

import "sync"

// Consumer is a handler registry: the set of (queue, kind) pairs a Worker
// knows how to process, and the routing table the poll loop consults after
// each lease.
//
// A Consumer is safe for concurrent use; Register is typically called
// during setup, before Run. Worker.Run reads Queues once when it starts:
// a handler registered later for a new kind on an already-listed queue is
// found by Lookup, but a queue first registered after Run started is not
// polled by that Run.
type Consumer struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Handler
	queues   []string
}

// NewConsumer returns an empty handler registry.
func NewConsumer() *Consumer {
	return &Consumer{handlers: make(map[string]map[string]Handler)}
}

// Register adds h under (h.Queue(), h.Kind()). A later Register call for
// the same pair replaces the earlier one. Register returns the Consumer so
// calls can be chained.
func (c *Consumer) Register(h Handler) *Consumer {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := h.Queue()
	byKind, ok := c.handlers[queue]
	if !ok {
		byKind = make(map[string]Handler)
		c.handlers[queue] = byKind
		c.queues = append(c.queues, queue)
	}
	byKind[h.Kind()] = h
	return c
}

// Lookup returns the handler registered for (queue, kind), if any.
func (c *Consumer) Lookup(queue, kind string) (Handler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byKind, ok := c.handlers[queue]
	if !ok {
		return nil, false
	}
	h, ok := byKind[kind]
	return h, ok
}

// Queues returns the distinct queues with at least one registered handler,
// in registration order. A Worker passes this slice to
// JobProcessor.PollNextJob so leasing only considers queues it can
// actually dispatch.
func (c *Consumer) Queues() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.queues))
	copy(out, c.queues)
	return out
}
