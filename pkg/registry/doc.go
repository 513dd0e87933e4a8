// Package registry maps mode names to the factories that build them.
package registry
