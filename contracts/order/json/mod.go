package json

import (
	"encoding/json"

	"go.dedis.ch/pointers/contracts/order"
	"go.dedis.ch/pointers/core/pointer"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

func init() {
	order.RegisterStateFormat(serde.FormatJSON, orderFormat{})
	order.RegisterCommandFormat(serde.FormatJSON, commandFormat{})
}

const createType = "create"

// OrderJSON is the JSON message of an order.
type OrderJSON struct {
	Consumer       json.RawMessage
	ProductOwner   json.RawMessage
	ProductPointer json.RawMessage
}

// CommandJSON is the JSON message of an order command.
type CommandJSON struct {
	Type string
}

// OrderFormat is the JSON format engine for orders.
//
// - implements serde.FormatEngine
type orderFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the order
// if appropriate, otherwise an error.
func (orderFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	o, ok := msg.(order.Order)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	consumer, err := o.GetConsumer().Serialize(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode consumer: %v", err)
	}

	owner, err := o.GetProductOwner().Serialize(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode product owner: %v", err)
	}

	ptr, err := o.GetProductPointer().Serialize(ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode pointer: %v", err)
	}

	m := OrderJSON{
		Consumer:       consumer,
		ProductOwner:   owner,
		ProductPointer: ptr,
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the order of the JSON data
// if appropriate, otherwise an error.
func (orderFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := OrderJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	fac := ctx.GetFactory(order.PublicKeyFac{})

	pkFac, ok := fac.(crypto.PublicKeyFactory)
	if !ok {
		return nil, xerrors.Errorf("invalid public key factory '%T'", fac)
	}

	consumer, err := pkFac.PublicKeyOf(ctx, m.Consumer)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode consumer: %v", err)
	}

	owner, err := pkFac.PublicKeyOf(ctx, m.ProductOwner)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode product owner: %v", err)
	}

	fac = ctx.GetFactory(order.PointerFac{})

	ptrFac, ok := fac.(pointer.Factory)
	if !ok {
		return nil, xerrors.Errorf("invalid pointer factory '%T'", fac)
	}

	ptr, err := ptrFac.PointerOf(ctx, m.ProductPointer)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode pointer: %v", err)
	}

	return order.NewOrder(consumer, owner, ptr), nil
}

// CommandFormat is the JSON format engine for order commands.
//
// - implements serde.FormatEngine
type commandFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// command if appropriate, otherwise an error.
func (commandFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	_, ok := msg.(order.Create)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	data, err := ctx.Marshal(CommandJSON{Type: createType})
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

	if m.Type != createType {
		return nil, xerrors.Errorf("unknown command '%s'", m.Type)
	}

	return order.Create{}, nil
}
