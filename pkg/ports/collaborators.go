package ports

import "github.com/aretw0/stance/pkg/domain"

// Hardware is the sensor read / actuator write handle. Reads and writes must be
// synchronous, non-blocking and bounded in latency. Fault reports a disconnect.
type Hardware = domain.Hardware

// CommandSource returns the latest decoded operator intent ("most recent wins").
type CommandSource = domain.CommandSource

// Parameters provides read-only lookups fixed for the process lifetime.
type Parameters = domain.Parameters

// TelemetrySink accepts one record per tick and must never block the caller.
type TelemetrySink = domain.TelemetrySink

// IntentSetter is implemented by command sources that accept intents pushed
// from an adapter (HTTP, MCP).
type IntentSetter interface {
	SetIntent(intent domain.UserIntent)
}
