package types

import "errors"

// Common errors for transaction and block construction and validation.
var (
	// ErrNegativeAmount is returned when a transaction carries a negative amount.
	ErrNegativeAmount = errors.New("transaction amount cannot be negative")

	// ErrEmptyAddress is returned when a transaction party is missing.
	ErrEmptyAddress = errors.New("transaction sender and receiver are required")

	// ErrBadIndex is returned when a block's index is not sequential.
	ErrBadIndex = errors.New("block index is not sequential")

	// ErrBadPrevHash is returned when a block does not link to its predecessor.
	ErrBadPrevHash = errors.New("block previous hash does not match predecessor")

	// ErrBadHash is returned when a block's stored hash does not match its content.
	ErrBadHash = errors.New("block hash does not match recomputed content hash")
)
