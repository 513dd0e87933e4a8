// Package validator inspects a mode registry for broken links, unreachable
// modes and dead ends.
package validator
