// Package http serves the controller diagnostics API on a chi router.
package http
