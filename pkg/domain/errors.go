package domain

import "errors"

// ErrInvalidArgument is returned for blank session ids and for events whose
// discriminant or payload cannot be understood.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrSessionNotFound is returned when a session ID cannot be found in the registry.
var ErrSessionNotFound = errors.New("session not found")

// ErrInternal is returned when evaluating a transition fails unexpectedly.
// The session keeps its pre-event state in that case.
var ErrInternal = errors.New("internal failure")
