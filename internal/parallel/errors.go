// Package parallel carries the small synchronization helpers shared by the
// engine's fan-out paths.
package parallel

import "sync"

// ErrorCollector keeps the first non-nil error reported by a group of
// goroutines. Later errors are dropped: when parallel sub-tasks fail, the
// first report wins and siblings are expected to observe cancellation.
type ErrorCollector struct {
	mu  sync.Mutex
	err error
}

// SetError records err unless an error is already held. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// Err returns the first recorded error. Call after the goroutines that
// might report have been joined.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Reset clears the collector for reuse. Not safe while goroutines are
// still reporting.
func (c *ErrorCollector) Reset() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}
