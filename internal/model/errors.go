package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateClient = errors.New("client already registered")

	// ErrInvariantViolation means a write would have broken the two-active /
	// distinct-marker invariant. The write does not apply. Seeing this error
	// outside the registry's own checks indicates a coordination bug.
	ErrInvariantViolation = errors.New("matchmaking invariant violation")

	// ErrNoSlotAvailable means both markers are already held
	ErrNoSlotAvailable = errors.New("no marker slot available")

	// Board errors
	ErrInvalidPosition = errors.New("invalid board position")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrGameComplete    = errors.New("game is already complete")
)
