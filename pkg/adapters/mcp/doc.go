// Package mcp exposes a running controller to MCP clients: feedback and mode
// introspection, operator requests and safe-mode release.
package mcp
