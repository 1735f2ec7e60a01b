package product

import (
	"io"

	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

// Command is the closed set of commands of the product contract.
type Command interface {
	ledger.CommandData

	isProductCommand()
}

// Create is the command to create a new product.
//
// - implements product.Command
type Create struct{}

// UpdatePrice is the command to change the price of a product.
//
// - implements product.Command
type UpdatePrice struct{}

func (Create) isProductCommand() {}

func (UpdatePrice) isProductCommand() {}

// GetKind implements ledger.CommandData. It returns the product kind.
func (Create) GetKind() ledger.Kind {
	return Kind
}

// GetKind implements ledger.CommandData. It returns the product kind.
func (UpdatePrice) GetKind() ledger.Kind {
	return Kind
}

// Fingerprint implements serde.Fingerprinter.
func (Create) Fingerprint(w io.Writer) error {
	return fingerprintCommand(w, "create")
}

// Fingerprint implements serde.Fingerprinter.
func (UpdatePrice) Fingerprint(w io.Writer) error {
	return fingerprintCommand(w, "update_price")
}

// Serialize implements serde.Message.
func (c Create) Serialize(ctx serde.Context) ([]byte, error) {
	return serializeCommand(ctx, c)
}

// Serialize implements serde.Message.
func (c UpdatePrice) Serialize(ctx serde.Context) ([]byte, error) {
	return serializeCommand(ctx, c)
}

func fingerprintCommand(w io.Writer, name string) error {
	err := ledger.WriteBytes(w, []byte(name))
	if err != nil {
		return xerrors.Errorf("couldn't write command: %v", err)
	}

	return nil
}

func serializeCommand(ctx serde.Context, cmd Command) ([]byte, error) {
	format := commandFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, cmd)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

// CommandFactory is the factory to deserialize the commands of the contract.
//
// - implements ledger.CommandFactory
type CommandFactory struct{}

// NewCommandFactory returns a new command factory.
func NewCommandFactory() CommandFactory {
	return CommandFactory{}
}

// Deserialize implements serde.Factory.
func (f CommandFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.CommandOf(ctx, data)
}

// CommandOf implements ledger.CommandFactory. It populates the command from the
// data if appropriate, otherwise it returns an error.
func (f CommandFactory) CommandOf(ctx serde.Context, data []byte) (ledger.CommandData, error) {
	format := commandFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode: %v", err)
	}

	cmd, ok := msg.(Command)
	if !ok {
		return nil, xerrors.Errorf("invalid command of type '%T'", msg)
	}

	return cmd, nil
}
