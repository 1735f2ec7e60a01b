// Package order implements the order entity and the contract that verifies its
// creation.
//
// An order does not embed the product it is about. It holds a static pointer
// to the product output, so that the product is only read when a party
// resolves the pointer against its own vault.
package order

import (
	"io"

	"go.dedis.ch/pointers/contracts/product"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/pointer"
	"go.dedis.ch/pointers/core/store"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/serde"
	"go.dedis.ch/pointers/serde/registry"
	"golang.org/x/xerrors"
)

// Kind is the entity kind of the orders.
const Kind ledger.Kind = "order"

var (
	stateFormats   = registry.NewSimpleRegistry()
	commandFormats = registry.NewSimpleRegistry()
)

// RegisterStateFormat registers the engine for the provided format.
func RegisterStateFormat(f serde.Format, e serde.FormatEngine) {
	stateFormats.Register(f, e)
}

// RegisterCommandFormat registers the engine for the provided format.
func RegisterCommandFormat(f serde.Format, e serde.FormatEngine) {
	commandFormats.Register(f, e)
}

// Order is an order of a consumer for a product. It is immutable.
//
// - implements ledger.State
type Order struct {
	consumer       crypto.PublicKey
	productOwner   crypto.PublicKey
	productPointer pointer.StaticPointer
}

// NewOrder creates a new order.
func NewOrder(consumer, owner crypto.PublicKey, ptr pointer.StaticPointer) Order {
	return Order{
		consumer:       consumer,
		productOwner:   owner,
		productPointer: ptr,
	}
}

// GetConsumer returns the consumer of the order.
func (o Order) GetConsumer() crypto.PublicKey {
	return o.consumer
}

// GetProductOwner returns the owner of the product.
func (o Order) GetProductOwner() crypto.PublicKey {
	return o.productOwner
}

// GetProductPointer returns the pointer to the product.
func (o Order) GetProductPointer() pointer.StaticPointer {
	return o.productPointer
}

// ResolveProduct resolves the product pointer in the store.
func (o Order) ResolveProduct(reader store.Reader) (product.Product, error) {
	res, err := pointer.Resolve(o.productPointer, reader)
	if err != nil {
		return product.Product{}, xerrors.Errorf("failed to resolve product: %w", err)
	}

	p, ok := res.GetState().(product.Product)
	if !ok {
		return product.Product{}, xerrors.Errorf("invalid product of type '%T'", res.GetState())
	}

	return p, nil
}

// GetKind implements ledger.State. It returns the order kind.
func (o Order) GetKind() ledger.Kind {
	return Kind
}

// GetParticipants implements ledger.State. It returns the consumer and the
// owner of the product.
func (o Order) GetParticipants() []crypto.PublicKey {
	return []crypto.PublicKey{o.consumer, o.productOwner}
}

// Fingerprint implements serde.Fingerprinter. It writes a deterministic binary
// representation of the order.
func (o Order) Fingerprint(w io.Writer) error {
	for _, key := range o.GetParticipants() {
		err := ledger.WriteBinary(w, key)
		if err != nil {
			return xerrors.Errorf("couldn't write participant: %v", err)
		}
	}

	err := o.productPointer.Fingerprint(w)
	if err != nil {
		return xerrors.Errorf("couldn't fingerprint pointer: %v", err)
	}

	return nil
}

// Serialize implements serde.Message. It returns the serialized data of the
// order.
func (o Order) Serialize(ctx serde.Context) ([]byte, error) {
	format := stateFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, o)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

// PublicKeyFac is the key of the public key factory.
type PublicKeyFac struct{}

// PointerFac is the key of the pointer factory.
type PointerFac struct{}

// StateFactory is the factory to deserialize orders.
//
// - implements ledger.StateFactory
type StateFactory struct {
	pubkeyFac crypto.PublicKeyFactory
	ptrFac    pointer.Factory
}

// NewStateFactory returns a new order factory.
func NewStateFactory(f crypto.PublicKeyFactory) StateFactory {
	return StateFactory{
		pubkeyFac: f,
		ptrFac:    pointer.NewFactory(),
	}
}

// Deserialize implements serde.Factory. It populates the order from the data
// if appropriate, otherwise it returns an error.
func (f StateFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.StateOf(ctx, data)
}

// StateOf implements ledger.StateFactory. It populates the order from the data
// if appropriate, otherwise it returns an error.
func (f StateFactory) StateOf(ctx serde.Context, data []byte) (ledger.State, error) {
	format := stateFormats.Get(ctx.GetFormat())

	ctx = serde.WithFactories(ctx, serde.Factories{
		PublicKeyFac{}: f.pubkeyFac,
		PointerFac{}:   f.ptrFac,
	})

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode: %v", err)
	}

	o, ok := msg.(Order)
	if !ok {
		return nil, xerrors.Errorf("invalid order of type '%T'", msg)
	}

	return o, nil
}
