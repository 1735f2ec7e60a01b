package json

import (
	"encoding/json"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
	"go.dedis.ch/pointers/contracts/product"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

func init() {
	product.RegisterStateFormat(serde.FormatJSON, productFormat{})
	product.RegisterCommandFormat(serde.FormatJSON, commandFormat{})
}

const (
	createType      = "create"
	updatePriceType = "update_price"
)

// ProductJSON is the JSON message of a product.
type ProductJSON struct {
	Name     string
	Company  string
	Price    string
	Owner    json.RawMessage
	LinearID string
}

// CommandJSON is the JSON message of a product command.
type CommandJSON struct {
	Type string
}

// ProductFormat is the JSON format engine for products.
//
// - implements serde.FormatEngine
type productFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// product if appropriate, otherwise an error.
func (productFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	p, ok := msg.(product.Product)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	owner, err := p.GetOwner().Serialize(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode owner: %v", err)
	}

	m := ProductJSON{
		Name:     p.GetName(),
		Company:  p.GetCompany(),
		Price:    p.GetPrice().String(),
		Owner:    owner,
		LinearID: p.GetLinearID().String(),
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the product of the JSON
// data if appropriate, otherwise an error.
func (productFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := ProductJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, xerrors.Errorf("invalid price: %v", err)
	}

	id, err := xid.FromString(m.LinearID)
	if err != nil {
		return nil, xerrors.Errorf("invalid linear id: %v", err)
	}

	fac := ctx.GetFactory(product.PublicKeyFac{})

	factory, ok := fac.(crypto.PublicKeyFactory)
	if !ok {
		return nil, xerrors.Errorf("invalid public key factory '%T'", fac)
	}

	owner, err := factory.PublicKeyOf(ctx, m.Owner)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode owner: %v", err)
	}

	p := product.NewProduct(m.Name, m.Company, price, owner, product.WithLinearID(id))

	return p, nil
}

// CommandFormat is the JSON format engine for product commands.
//
// - implements serde.FormatEngine
type commandFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// command if appropriate, otherwise an error.
func (commandFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	m := CommandJSON{}

	switch msg.(type) {
	case product.Create:
		m.Type = createType
	case product.UpdatePrice:
		m.Type = updatePriceType
	default:
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the command of the JSON
// data if appropriate, otherwise an error.
func (commandFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := CommandJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	switch m.Type {
	case createType:
		return product.Create{}, nil
	case updatePriceType:
		return product.UpdatePrice{}, nil
	default:
		return nil, xerrors.Errorf("unknown command '%s'", m.Type)
	}
}
