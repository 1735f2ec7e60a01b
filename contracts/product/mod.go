// Package product implements the product entity and the contract that
// verifies its creation and its price updates.
//
// A product is created by its owner with a positive price, a name and a
// company. Every update creates a new version of the product with a different
// positive price while the name, the company and the linear identifier stay
// the same.
package product

import (
	"io"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/serde"
	"go.dedis.ch/pointers/serde/registry"
	"golang.org/x/xerrors"
)

// Kind is the entity kind of the products.
const Kind ledger.Kind = "product"

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

// Product is the state of a product at a point of its history.
//
// - implements ledger.State
type Product struct {
	name     string
	company  string
	price    decimal.Decimal
	owner    crypto.PublicKey
	linearID xid.ID
}

// ProductOption is the type of options to create a product.
type ProductOption func(*Product)

// WithLinearID is an option to set the linear identifier of the product
// instead of generating a new one.
func WithLinearID(id xid.ID) ProductOption {
	return func(p *Product) {
		p.linearID = id
	}
}

// NewProduct creates a new product owned by the given identity.
func NewProduct(name, company string, price decimal.Decimal, owner crypto.PublicKey,
	opts ...ProductOption) Product {

	p := Product{
		name:     name,
		company:  company,
		price:    price,
		owner:    owner,
		linearID: xid.New(),
	}

	for _, opt := range opts {
		opt(&p)
	}

	return p
}

// GetName returns the name of the product.
func (p Product) GetName() string {
	return p.name
}

// GetCompany returns the company of the product.
func (p Product) GetCompany() string {
	return p.company
}

// GetPrice returns the price of the product.
func (p Product) GetPrice() decimal.Decimal {
	return p.price
}

// GetOwner returns the owner of the product.
func (p Product) GetOwner() crypto.PublicKey {
	return p.owner
}

// GetLinearID returns the identifier shared by every version of the product.
func (p Product) GetLinearID() xid.ID {
	return p.linearID
}

// WithPrice returns the next version of the product with the new price.
func (p Product) WithPrice(price decimal.Decimal) Product {
	p.price = price
	return p
}

// GetKind implements ledger.State. It returns the product kind.
func (p Product) GetKind() ledger.Kind {
	return Kind
}

// GetParticipants implements ledger.State. It returns the owner.
func (p Product) GetParticipants() []crypto.PublicKey {
	return []crypto.PublicKey{p.owner}
}

// Fingerprint implements serde.Fingerprinter. It writes a deterministic binary
// representation of the product.
func (p Product) Fingerprint(w io.Writer) error {
	fields := [][]byte{
		[]byte(p.name),
		[]byte(p.company),
		[]byte(p.price.String()),
		p.linearID.Bytes(),
	}

	for _, field := range fields {
		err := ledger.WriteBytes(w, field)
		if err != nil {
			return xerrors.Errorf("couldn't write field: %v", err)
		}
	}

	err := ledger.WriteBinary(w, p.owner)
	if err != nil {
		return xerrors.Errorf("couldn't write owner: %v", err)
	}

	return nil
}

// Serialize implements serde.Message. It returns the serialized data of the
// product.
func (p Product) Serialize(ctx serde.Context) ([]byte, error) {
	format := stateFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, p)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

// String implements fmt.Stringer.
func (p Product) String() string {
	return p.name + " (" + p.company + ") at " + p.price.String()
}

// PublicKeyFac is the key of the public key factory.
type PublicKeyFac struct{}

// StateFactory is the factory to deserialize products.
//
// - implements ledger.StateFactory
type StateFactory struct {
	pubkeyFac crypto.PublicKeyFactory
}

// NewStateFactory returns a new product factory.
func NewStateFactory(f crypto.PublicKeyFactory) StateFactory {
	return StateFactory{
		pubkeyFac: f,
	}
}

// Deserialize implements serde.Factory. It populates the product from the data
// if appropriate, otherwise it returns an error.
func (f StateFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.StateOf(ctx, data)
}

// StateOf implements ledger.StateFactory. It populates the product from the
// data if appropriate, otherwise it returns an error.
func (f StateFactory) StateOf(ctx serde.Context, data []byte) (ledger.State, error) {
	format := stateFormats.Get(ctx.GetFormat())

	ctx = serde.WithFactory(ctx, PublicKeyFac{}, f.pubkeyFac)

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode: %v", err)
	}

	p, ok := msg.(Product)
	if !ok {
		return nil, xerrors.Errorf("invalid product of type '%T'", msg)
	}

	return p, nil
}
