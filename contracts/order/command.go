package order

import (
	"io"

	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

// Command is the closed set of commands of the order contract.
type Command interface {
	ledger.CommandData

	isOrderCommand()
}

// Create is the command to create a new order.
//
// - implements order.Command
type Create struct{}

func (Create) isOrderCommand() {}

// GetKind implements ledger.CommandData. It returns the order kind.
func (Create) GetKind() ledger.Kind {
	return Kind
}

// Fingerprint implements serde.Fingerprinter.
func (Create) Fingerprint(w io.Writer) error {
	err := ledger.WriteBytes(w, []byte("create"))
	if err != nil {
		return xerrors.Errorf("couldn't write command: %v", err)
	}

	return nil
}

// Serialize implements serde.Message.
func (c Create) Serialize(ctx serde.Context) ([]byte, error) {
	format := commandFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, c)
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
