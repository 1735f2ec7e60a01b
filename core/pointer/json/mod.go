package json

import (
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/pointer"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

func init() {
	pointer.RegisterPointerFormat(serde.FormatJSON, pointerFormat{})
}

// PointerJSON is the JSON message of a static pointer.
type PointerJSON struct {
	TxID  string
	Index uint32
	Kind  string
}

// PointerFormat is the JSON format engine for static pointers.
//
// - implements serde.FormatEngine
type pointerFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// pointer if appropriate, otherwise an error.
func (pointerFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	ptr, ok := msg.(pointer.StaticPointer)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	m := PointerJSON{
		TxID:  ptr.GetRef().TxID.Hex(),
		Index: ptr.GetRef().Index,
		Kind:  string(ptr.GetKind()),
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the pointer of the JSON
// data if appropriate, otherwise an error.
func (pointerFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := PointerJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	id, err := ledger.DigestFromHex(m.TxID)
	if err != nil {
		return nil, xerrors.Errorf("invalid transaction id: %v", err)
	}

	if m.Kind == "" {
		return nil, xerrors.New("missing kind")
	}

	ptr := pointer.NewStaticPointer(ledger.NewRef(id, m.Index), ledger.Kind(m.Kind))

	return ptr, nil
}
