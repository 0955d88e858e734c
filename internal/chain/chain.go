// Package chain holds the contract shared by network client implementations.
package chain

import "errors"

var (
	// ErrBlockNotAvailable reports a height above the current chain tip.
	ErrBlockNotAvailable = errors.New("block not available yet")
	// ErrCoinNotFound reports a coin absent from the requested state.
	ErrCoinNotFound = errors.New("coin not found")
)
