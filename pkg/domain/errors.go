package domain

import "errors"

// ErrInvalidOperator is returned when an operator token is neither unary nor binary.
var ErrInvalidOperator = errors.New("invalid operator")

// ErrMalformedNumber is returned when a digit buffer cannot be parsed as a Number.
var ErrMalformedNumber = errors.New("malformed number")

// ErrInvalidSnapshot is returned when a Snapshot does not describe a valid state.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
