// Package cli wires the command-line application: configuration, simulated
// hardware, adapters and the controller.
package cli
