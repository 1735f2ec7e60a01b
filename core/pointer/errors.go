package pointer

import (
	"fmt"

	"go.dedis.ch/pointers/core/ledger"
)

// ResolutionError is returned when the local store does not hold the
// transaction of the reference. It wraps store.ErrNoTransaction.
type ResolutionError struct {
	Ref ledger.Ref
	err error
}

// Error implements error.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("transaction %s is not in the local store", e.Ref.TxID.Hex())
}

// Unwrap returns the error of the store.
func (e *ResolutionError) Unwrap() error {
	return e.err
}

// IndexError is returned when the transaction of the reference exists but has
// no output at the index.
type IndexError struct {
	Ref ledger.Ref
	Len int
}

// Error implements error.
func (e *IndexError) Error() string {
	return fmt.Sprintf("output index %d out of range for transaction %s with %d outputs",
		e.Ref.Index, e.Ref.TxID.Hex(), e.Len)
}

// TypeMismatchError is returned when the state at the reference is not of the
// expected kind.
type TypeMismatchError struct {
	Ref      ledger.Ref
	Expected ledger.Kind
	Actual   ledger.Kind
}

// Error implements error.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected state of kind '%s' at %v but got '%s'",
		e.Expected, e.Ref, e.Actual)
}
