package pointer

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/pointers"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/store"
	"golang.org/x/xerrors"
)

var promResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "pointers_pointer_resolutions_total",
	Help: "total number of pointer resolutions by outcome",
}, []string{"outcome"})

func init() {
	pointers.PromCollectors = append(pointers.PromCollectors, promResolutions)
}

// Resolved is the result of a successful resolution: the state as it was
// created by the referenced transaction.
type Resolved struct {
	ledger.StateAndRef
}

// Resolve looks up the output referenced by the pointer in the store and checks
// that the state has the expected kind. It never modifies the store.
//
// The returned error is a *ResolutionError when the store does not hold the
// transaction, an *IndexError when the transaction has no such output, and a
// *TypeMismatchError when the state has another kind. Any other error comes
// from the store itself.
func Resolve(ptr StaticPointer, reader store.Reader) (Resolved, error) {
	res, err := resolve(ptr, reader)

	promResolutions.WithLabelValues(outcome(err)).Inc()

	return res, err
}

func resolve(ptr StaticPointer, reader store.Reader) (Resolved, error) {
	input, err := ResolveRef(ptr.ref, reader)
	if err != nil {
		return Resolved{}, err
	}

	kind := input.GetState().GetKind()
	if kind != ptr.kind {
		return Resolved{}, &TypeMismatchError{
			Ref:      ptr.ref,
			Expected: ptr.kind,
			Actual:   kind,
		}
	}

	return Resolved{StateAndRef: input}, nil
}

// ResolveRef returns the state at the reference, whatever its kind.
func ResolveRef(ref ledger.Ref, reader store.Reader) (ledger.StateAndRef, error) {
	tx, err := reader.Get(ref.TxID)
	if xerrors.Is(err, store.ErrNoTransaction) {
		return ledger.StateAndRef{}, &ResolutionError{Ref: ref, err: err}
	}
	if err != nil {
		return ledger.StateAndRef{}, xerrors.Errorf("store failed: %v", err)
	}

	outputs := tx.GetOutputs()

	if int64(ref.Index) >= int64(len(outputs)) {
		return ledger.StateAndRef{}, &IndexError{Ref: ref, Len: len(outputs)}
	}

	return ledger.NewStateAndRef(outputs[ref.Index], ref), nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "resolved"
	case xerrors.As(err, new(*ResolutionError)):
		return "missing"
	case xerrors.As(err, new(*IndexError)):
		return "out_of_range"
	case xerrors.As(err, new(*TypeMismatchError)):
		return "type_mismatch"
	default:
		return "failure"
	}
}
