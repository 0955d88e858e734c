package indexer

import (
	"errors"
	"fmt"
)

var (
	// ErrContractViolation matches every *ContractViolationError.
	ErrContractViolation = errors.New("contract violation")
	// ErrHeightNotIndexed is returned for heights above the indexed tip.
	ErrHeightNotIndexed = errors.New("height not indexed")
)

// ViolationReason classifies a disagreement between client data and the store.
type ViolationReason string

const (
	ReasonDuplicateCoin    ViolationReason = "duplicate_coin"
	ReasonDoubleSpend      ViolationReason = "double_spend"
	ReasonDuplicateTx      ViolationReason = "duplicate_txhash"
	ReasonMissingCoin      ViolationReason = "missing_coin"
	ReasonInconsistentData ViolationReason = "inconsistent_data"
)

// ContractViolationError halts indexing at Height. It is never retried.
type ContractViolationError struct {
	Height uint64
	Reason ViolationReason
	Detail string
	Err    error
}

func (e *ContractViolationError) Error() string {
	msg := fmt.Sprintf("contract violation at height %d (%s): %s", e.Height, e.Reason, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContractViolationError) Unwrap() error {
	return e.Err
}

func (e *ContractViolationError) Is(target error) bool {
	return target == ErrContractViolation
}

func violation(height uint64, reason ViolationReason, err error, format string, args ...any) error {
	return &ContractViolationError{
		Height: height,
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
