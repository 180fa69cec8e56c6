package pulsecheck

import "sync"

// Tally is a running count of successful probes out of total probes.
//
// Tally is a plain value with no synchronisation. A [CycleReport] uses it for
// the per-domain snapshot of a single cycle; [Counter] wraps it for
// lifetime accounting that may be read concurrently.
type Tally struct {
	// Success is the number of probes classified available.
	Success int `json:"success"`

	// Total is the number of probes made.
	Total int `json:"total"`
}

// Record counts one probe outcome.
func (t *Tally) Record(available bool) {
	t.Total++
	if available {
		t.Success++
	}
}

// Percentage returns the share of successful probes as a whole percentage
// in [0,100], truncated toward zero. It returns 0 when no probe was made.
//
// For example, 1 success out of 3 probes is 33, not 34.
func (t Tally) Percentage() int {
	if t.Total <= 0 {
		return 0
	}
	return t.Success * 100 / t.Total
}

// Counter is a [Tally] that is safe for concurrent use.
//
// Every [Endpoint] owns one Counter for the lifetime of the process. Only the
// endpoint's own probe records into it; readers take snapshots.
type Counter struct {
	mu    sync.Mutex
	tally Tally
}

// Record counts one probe outcome.
func (c *Counter) Record(available bool) {
	c.mu.Lock()
	c.tally.Record(available)
	c.mu.Unlock()
}

// Snapshot returns a copy of the current counts.
func (c *Counter) Snapshot() Tally {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tally
}

// Percentage returns the current availability percentage.
func (c *Counter) Percentage() int {
	return c.Snapshot().Percentage()
}
