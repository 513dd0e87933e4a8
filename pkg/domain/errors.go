package domain

import "errors"

// ErrUnknownMode is returned when a mode name is not present in the registry.
var ErrUnknownMode = errors.New("unknown mode")

// ErrDuplicateMode is returned when a mode name is registered twice.
var ErrDuplicateMode = errors.New("duplicate mode")

// ErrMissingCollaborator is returned when an ExecutionContext is built with a nil handle.
var ErrMissingCollaborator = errors.New("missing collaborator")

// ErrNotStarted is returned when ticking an orchestrator before Start.
var ErrNotStarted = errors.New("orchestrator not started")

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("orchestrator already started")

// ErrNotLatched is returned by Release when the safe mode is not latched.
var ErrNotLatched = errors.New("safe mode not latched")
