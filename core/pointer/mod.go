// Package pointer implements the static pointer, a typed reference from one
// ledger record to a specific output of a prior transaction.
//
// A pointer does not embed the state it points at. It is resolved lazily
// against the store of the party holding it, and the resolution fails
// explicitly when that party does not hold the referenced transaction.
package pointer

import (
	"fmt"
	"io"

	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/serde"
	"go.dedis.ch/pointers/serde/registry"
	"golang.org/x/xerrors"
)

var ptrFormats = registry.NewSimpleRegistry()

// RegisterPointerFormat registers the engine for the provided format.
func RegisterPointerFormat(f serde.Format, e serde.FormatEngine) {
	ptrFormats.Register(f, e)
}

// StaticPointer references the output of a transaction and the kind of the
// state expected at this location.
//
// - implements serde.Message
// - implements serde.Fingerprinter
type StaticPointer struct {
	ref  ledger.Ref
	kind ledger.Kind
}

// NewStaticPointer returns a new pointer to the reference expecting a state of
// the given kind.
func NewStaticPointer(ref ledger.Ref, kind ledger.Kind) StaticPointer {
	return StaticPointer{
		ref:  ref,
		kind: kind,
	}
}

// GetRef returns the reference of the output.
func (p StaticPointer) GetRef() ledger.Ref {
	return p.ref
}

// GetKind returns the expected kind of the state.
func (p StaticPointer) GetKind() ledger.Kind {
	return p.kind
}

// Fingerprint implements serde.Fingerprinter. It writes the reference followed
// by the expected kind prefixed by its length.
func (p StaticPointer) Fingerprint(w io.Writer) error {
	_, err := w.Write(p.ref.Bytes())
	if err != nil {
		return xerrors.Errorf("couldn't write ref: %v", err)
	}

	err = ledger.WriteKind(w, p.kind)
	if err != nil {
		return xerrors.Errorf("couldn't write kind: %v", err)
	}

	return nil
}

// Serialize implements serde.Message. It returns the serialized data of the
// pointer.
func (p StaticPointer) Serialize(ctx serde.Context) ([]byte, error) {
	format := ptrFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, p)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

// String implements fmt.Stringer.
func (p StaticPointer) String() string {
	return fmt.Sprintf("%s@%v", p.kind, p.ref)
}

// Factory is the factory to deserialize pointers.
//
// - implements serde.Factory
type Factory struct{}

// NewFactory returns a new pointer factory.
func NewFactory() Factory {
	return Factory{}
}

// Deserialize implements serde.Factory. It populates the pointer from the data
// if appropriate, otherwise it returns an error.
func (f Factory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.PointerOf(ctx, data)
}

// PointerOf returns the pointer from the data if appropriate, otherwise an
// error.
func (f Factory) PointerOf(ctx serde.Context, data []byte) (StaticPointer, error) {
	format := ptrFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return StaticPointer{}, xerrors.Errorf("failed to decode: %v", err)
	}

	ptr, ok := msg.(StaticPointer)
	if !ok {
		return StaticPointer{}, xerrors.Errorf("invalid pointer of type '%T'", msg)
	}

	return ptr, nil
}
