package json

import (
	"encoding/json"

	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/ledger/tx"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

func init() {
	tx.RegisterTransactionFormat(serde.FormatJSON, txFormat{})
}

// RefJSON is the JSON message of an output reference.
type RefJSON struct {
	TxID  string
	Index uint32
}

// StateJSON is the JSON message of an output state.
type StateJSON struct {
	Kind string
	Data json.RawMessage
}

// CommandJSON is the JSON message of a command and its signers.
type CommandJSON struct {
	Kind    string
	Data    json.RawMessage
	Signers []json.RawMessage
}

// TransactionJSON is the JSON message of a transaction.
type TransactionJSON struct {
	Inputs   []RefJSON
	Outputs  []StateJSON
	Commands []CommandJSON
}

// TxFormat is the JSON format engine for transactions.
//
// - implements serde.FormatEngine
type txFormat struct {
	hashFactory crypto.HashFactory
}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// provided transaction if appropriate, otherwise it returns an error.
func (fmt txFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	t, ok := msg.(*tx.Transaction)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	m := TransactionJSON{
		Inputs:   []RefJSON{},
		Outputs:  []StateJSON{},
		Commands: []CommandJSON{},
	}

	for _, ref := range t.GetInputs() {
		m.Inputs = append(m.Inputs, RefJSON{TxID: ref.TxID.Hex(), Index: ref.Index})
	}

	for _, output := range t.GetOutputs() {
		data, err := output.Serialize(ctx)
		if err != nil {
			return nil, xerrors.Errorf("failed to encode output: %v", err)
		}

		m.Outputs = append(m.Outputs, StateJSON{Kind: string(output.GetKind()), Data: data})
	}

	for _, cmd := range t.GetCommands() {
		c, err := encodeCommand(ctx, cmd)
		if err != nil {
			return nil, xerrors.Errorf("failed to encode command: %v", err)
		}

		m.Commands = append(m.Commands, c)
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the transaction from the
// JSON data if appropriate, otherwise it returns an error.
func (fmt txFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := TransactionJSON{}
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	opts := make([]tx.TransactionOption, 0, 4)

	for _, input := range m.Inputs {
		id, err := ledger.DigestFromHex(input.TxID)
		if err != nil {
			return nil, xerrors.Errorf("invalid input: %v", err)
		}

		opts = append(opts, tx.WithInputs(ledger.NewRef(id, input.Index)))
	}

	for _, output := range m.Outputs {
		state, err := decodeState(ctx, output)
		if err != nil {
			return nil, xerrors.Errorf("output: %v", err)
		}

		opts = append(opts, tx.WithOutputs(state))
	}

	for _, c := range m.Commands {
		cmd, err := decodeCommand(ctx, c)
		if err != nil {
			return nil, xerrors.Errorf("command: %v", err)
		}

		opts = append(opts, tx.WithCommands(cmd))
	}

	if fmt.hashFactory != nil {
		opts = append(opts, tx.WithHashFactory(fmt.hashFactory))
	}

	t, err := tx.NewTransaction(opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to create tx: %v", err)
	}

	return t, nil
}

func encodeCommand(ctx serde.Context, cmd ledger.Command) (CommandJSON, error) {
	data, err := cmd.GetData().Serialize(ctx)
	if err != nil {
		return CommandJSON{}, xerrors.Errorf("failed to encode data: %v", err)
	}

	c := CommandJSON{
		Kind:    string(cmd.GetKind()),
		Data:    data,
		Signers: []json.RawMessage{},
	}

	for _, signer := range cmd.GetSigners() {
		raw, err := signer.Serialize(ctx)
		if err != nil {
			return CommandJSON{}, xerrors.Errorf("failed to encode signer: %v", err)
		}

		c.Signers = append(c.Signers, raw)
	}

	return c, nil
}

func decodeState(ctx serde.Context, m StateJSON) (ledger.State, error) {
	fac := ctx.GetFactory(tx.StateKey{Kind: ledger.Kind(m.Kind)})

	factory, ok := fac.(ledger.StateFactory)
	if !ok {
		return nil, xerrors.Errorf("invalid factory of kind '%s': '%T'", m.Kind, fac)
	}

	state, err := factory.StateOf(ctx, m.Data)
	if err != nil {
		return nil, xerrors.Errorf("malformed state: %v", err)
	}

	return state, nil
}

func decodeCommand(ctx serde.Context, m CommandJSON) (ledger.Command, error) {
	fac := ctx.GetFactory(tx.CommandKey{Kind: ledger.Kind(m.Kind)})

	factory, ok := fac.(ledger.CommandFactory)
	if !ok {
		return ledger.Command{}, xerrors.Errorf("invalid factory of kind '%s': '%T'", m.Kind, fac)
	}

	data, err := factory.CommandOf(ctx, m.Data)
	if err != nil {
		return ledger.Command{}, xerrors.Errorf("malformed data: %v", err)
	}

	fac = ctx.GetFactory(tx.PublicKeyFac{})

	pkFac, ok := fac.(crypto.PublicKeyFactory)
	if !ok {
		return ledger.Command{}, xerrors.Errorf("invalid public key factory '%T'", fac)
	}

	signers := make([]crypto.PublicKey, len(m.Signers))

	for i, raw := range m.Signers {
		signers[i], err = pkFac.PublicKeyOf(ctx, raw)
		if err != nil {
			return ledger.Command{}, xerrors.Errorf("malformed signer: %v", err)
		}
	}

	return ledger.NewCommand(data, signers...), nil
}
