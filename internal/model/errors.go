package model

import "errors"

var (
	// ErrNotFound is returned by stores when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when an insert collides with an existing key.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrAlreadySpent is returned when a spend targets a coin that is already spent.
	ErrAlreadySpent = errors.New("coin already spent")
	// ErrHeightConflict is returned when a block transaction does not target
	// the height right after the last committed one.
	ErrHeightConflict = errors.New("height is not next to the indexed tip")
)
