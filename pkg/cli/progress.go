package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressReporter reports progress across a batch of queries.
type ProgressReporter interface {
	Start(total int)
	Update(current int, label string)
	Finish()
	Error(err error)
}

// SimpleProgress writes one line per update.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w}
}

// Start records the number of items in the batch.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.started = time.Now()
}

// Update reports that item current, named label, is in progress.
func (p *SimpleProgress) Update(current int, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total <= 1 {
		return
	}
	fmt.Fprintf(p.writer, "[%d/%d] %s\n", current, p.total, label)
}

// Finish reports the elapsed time.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total <= 1 {
		return
	}
	fmt.Fprintf(p.writer, "done: %d queries in %s\n", p.total, time.Since(p.started).Round(time.Millisecond))
}

// Error reports an error during the batch.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "error: %v\n", err)
}
