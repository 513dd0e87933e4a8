package ports

import (
	"github.com/aretw0/stance/pkg/domain"
)

// Controller is the read-mostly view of a running controller used by the
// introspection adapters (HTTP, MCP). Every method is safe to call from any
// goroutine.
type Controller interface {
	// Snapshot returns the state published at the last tick boundary.
	Snapshot() domain.Snapshot

	// Modes lists the registered modes and their declared transitions.
	Modes() []domain.ModeInfo

	// RequestRelease asks the control loop to release a latched safe mode.
	// The request is applied between two ticks.
	RequestRelease()
}
