// Package common defines shared sentinel errors used across the drop and
// mint workflows. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Configuration / credential errors, surfaced before any side effects.
	ErrMissingCredentials = errors.New("missing pinning credentials")
	ErrCredentialExpired  = errors.New("pinning credential expired")
	ErrUnknownNetwork     = errors.New("unknown network")

	// Validation errors.
	ErrInvalidSupply  = errors.New("invalid total supply")
	ErrMissingField   = errors.New("missing template field")
	ErrInvalidAddress = errors.New("invalid wallet address")

	// Mint pre-flight errors.
	ErrSupplyExceeded = errors.New("mint count exceeds available supply")

	// Console session errors.
	ErrNotConnected = errors.New("not connected to a contract")
)
