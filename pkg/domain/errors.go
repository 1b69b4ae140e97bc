package domain

import "errors"

// ErrTargetMissing is returned by a Stage when the handle named by an effect cannot be resolved.
// The sequencer treats it as a no-op for that single step.
var ErrTargetMissing = errors.New("visual target missing")

// ErrInvalidTimeline is returned when a set of steps cannot form a Timeline.
var ErrInvalidTimeline = errors.New("invalid timeline")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidForm is returned when a submitted contact form fails validation.
var ErrInvalidForm = errors.New("invalid form")
