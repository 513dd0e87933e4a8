package memory

import (
	"sync/atomic"

	"github.com/aretw0/stance/pkg/domain"
)

// LatestCommand is an in-process command source with "most recent wins"
// semantics. Writers call SetIntent from any goroutine; the control loop reads
// with Latest and never blocks.
type LatestCommand struct {
	latest atomic.Pointer[domain.UserIntent]
	seq    atomic.Uint64
}

// NewLatestCommand creates a source holding the zero intent.
func NewLatestCommand() *LatestCommand {
	c := &LatestCommand{}
	c.latest.Store(&domain.UserIntent{})
	return c
}

// Latest returns the most recent intent.
func (c *LatestCommand) Latest() domain.UserIntent {
	return *c.latest.Load()
}

// SetIntent replaces the current intent. A zero Seq is assigned the next
// sequence number so that callers do not have to track it.
func (c *LatestCommand) SetIntent(intent domain.UserIntent) {
	if intent.Seq == 0 {
		intent.Seq = c.seq.Add(1)
	} else {
		c.seq.Store(intent.Seq)
	}
	c.latest.Store(&intent)
}
