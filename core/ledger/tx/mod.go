// Package tx implements the transactions of the ledger.
//
// A transaction is identified by the digest of its content: two transactions
// consuming the same inputs and creating the same outputs with the same
// commands have the same identifier.
package tx

import (
	"io"

	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/serde"
	"go.dedis.ch/pointers/serde/registry"
	"golang.org/x/xerrors"
)

var txFormats = registry.NewSimpleRegistry()

// RegisterTransactionFormat registers the engine for the provided format.
func RegisterTransactionFormat(f serde.Format, e serde.FormatEngine) {
	txFormats.Register(f, e)
}

// Transaction is the stored form of a transaction.
//
// - implements ledger.Transaction
type Transaction struct {
	id       ledger.Digest
	inputs   []ledger.Ref
	outputs  []ledger.State
	commands []ledger.Command
}

type template struct {
	Transaction

	hashFactory crypto.HashFactory
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*template)

// WithInputs is an option to append references to consumed outputs.
func WithInputs(refs ...ledger.Ref) TransactionOption {
	return func(tmpl *template) {
		tmpl.inputs = append(tmpl.inputs, refs...)
	}
}

// WithOutputs is an option to append created states.
func WithOutputs(states ...ledger.State) TransactionOption {
	return func(tmpl *template) {
		tmpl.outputs = append(tmpl.outputs, states...)
	}
}

// WithCommands is an option to append commands.
func WithCommands(cmds ...ledger.Command) TransactionOption {
	return func(tmpl *template) {
		tmpl.commands = append(tmpl.commands, cmds...)
	}
}

// WithHashFactory is an option to set a different hash factory when creating a
// transaction.
func WithHashFactory(f crypto.HashFactory) TransactionOption {
	return func(tmpl *template) {
		tmpl.hashFactory = f
	}
}

// NewTransaction creates a new transaction and computes its identifier.
func NewTransaction(opts ...TransactionOption) (*Transaction, error) {
	tmpl := template{
		hashFactory: crypto.NewSha256Factory(),
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	h := tmpl.hashFactory.New()
	err := tmpl.Fingerprint(h)
	if err != nil {
		return nil, xerrors.Errorf("couldn't fingerprint tx: %v", err)
	}

	copy(tmpl.id[:], h.Sum(nil))

	return &tmpl.Transaction, nil
}

// GetID implements ledger.Transaction. It returns the digest of the
// transaction.
func (t *Transaction) GetID() ledger.Digest {
	return t.id
}

// GetInputs implements ledger.Transaction. It returns the references of the
// consumed outputs.
func (t *Transaction) GetInputs() []ledger.Ref {
	return append([]ledger.Ref{}, t.inputs...)
}

// GetOutputs implements ledger.Transaction. It returns the created states.
func (t *Transaction) GetOutputs() []ledger.State {
	return append([]ledger.State{}, t.outputs...)
}

// GetCommands implements ledger.Transaction. It returns the commands.
func (t *Transaction) GetCommands() []ledger.Command {
	return append([]ledger.Command{}, t.commands...)
}

// GetOutputRef returns the reference of the output at the given index.
func (t *Transaction) GetOutputRef(index int) ledger.Ref {
	return ledger.NewRef(t.id, uint32(index))
}

// Fingerprint implements serde.Fingerprinter. It writes a deterministic binary
// representation of the transaction.
func (t *Transaction) Fingerprint(w io.Writer) error {
	err := ledger.WriteLen(w, len(t.inputs))
	if err != nil {
		return xerrors.Errorf("couldn't write inputs: %v", err)
	}

	for _, ref := range t.inputs {
		_, err = w.Write(ref.Bytes())
		if err != nil {
			return xerrors.Errorf("couldn't write input: %v", err)
		}
	}

	err = ledger.WriteLen(w, len(t.outputs))
	if err != nil {
		return xerrors.Errorf("couldn't write outputs: %v", err)
	}

	for _, output := range t.outputs {
		err = ledger.WriteKind(w, output.GetKind())
		if err != nil {
			return xerrors.Errorf("couldn't write output kind: %v", err)
		}

		err = output.Fingerprint(w)
		if err != nil {
			return xerrors.Errorf("couldn't fingerprint output: %v", err)
		}
	}

	err = ledger.WriteLen(w, len(t.commands))
	if err != nil {
		return xerrors.Errorf("couldn't write commands: %v", err)
	}

	for _, cmd := range t.commands {
		err = fingerprintCommand(w, cmd)
		if err != nil {
			return xerrors.Errorf("couldn't fingerprint command: %v", err)
		}
	}

	return nil
}

// Serialize implements serde.Message. It returns the serialized data of the
// transaction.
func (t *Transaction) Serialize(ctx serde.Context) ([]byte, error) {
	format := txFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, t)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

func fingerprintCommand(w io.Writer, cmd ledger.Command) error {
	err := ledger.WriteKind(w, cmd.GetKind())
	if err != nil {
		return xerrors.Errorf("couldn't write kind: %v", err)
	}

	err = cmd.GetData().Fingerprint(w)
	if err != nil {
		return xerrors.Errorf("couldn't fingerprint data: %v", err)
	}

	signers := cmd.GetSigners()

	err = ledger.WriteLen(w, len(signers))
	if err != nil {
		return xerrors.Errorf("couldn't write signers: %v", err)
	}

	for _, signer := range signers {
		err = ledger.WriteBinary(w, signer)
		if err != nil {
			return xerrors.Errorf("couldn't write signer: %v", err)
		}
	}

	return nil
}

// PublicKeyFac is the key of the public key factory.
type PublicKeyFac struct{}

// StateKey is the key of the state factory of a kind.
type StateKey struct {
	Kind ledger.Kind
}

// CommandKey is the key of the command factory of a kind.
type CommandKey struct {
	Kind ledger.Kind
}

// TransactionFactory is a factory to deserialize transactions.
//
// - implements ledger.TransactionFactory
type TransactionFactory struct {
	pubkeyFac crypto.PublicKeyFactory
	states    map[ledger.Kind]ledger.StateFactory
	commands  map[ledger.Kind]ledger.CommandFactory
}

// NewTransactionFactory returns a new factory that deserializes the signers
// with the public key factory. The kinds must be registered before the
// factory can decode their states and commands.
func NewTransactionFactory(f crypto.PublicKeyFactory) TransactionFactory {
	return TransactionFactory{
		pubkeyFac: f,
		states:    make(map[ledger.Kind]ledger.StateFactory),
		commands:  make(map[ledger.Kind]ledger.CommandFactory),
	}
}

// Register registers the factories of the states and the commands of a kind.
func (f TransactionFactory) Register(kind ledger.Kind, s ledger.StateFactory, c ledger.CommandFactory) {
	f.states[kind] = s
	f.commands[kind] = c
}

// Deserialize implements serde.Factory. It populates the transaction from the
// data if appropriate, otherwise it returns an error.
func (f TransactionFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.TransactionOf(ctx, data)
}

// TransactionOf implements ledger.TransactionFactory. It populates the
// transaction from the data if appropriate, otherwise it returns an error.
func (f TransactionFactory) TransactionOf(ctx serde.Context, data []byte) (ledger.Transaction, error) {
	format := txFormats.Get(ctx.GetFormat())

	factories := serde.Factories{PublicKeyFac{}: f.pubkeyFac}

	for kind, fac := range f.states {
		factories[StateKey{Kind: kind}] = fac
	}

	for kind, fac := range f.commands {
		factories[CommandKey{Kind: kind}] = fac
	}

	ctx = serde.WithFactories(ctx, factories)

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode: %v", err)
	}

	tx, ok := msg.(*Transaction)
	if !ok {
		return nil, xerrors.Errorf("invalid transaction of type '%T'", msg)
	}

	return tx, nil
}
