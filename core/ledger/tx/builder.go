package tx

import (
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/crypto"
	"golang.org/x/xerrors"
)

// Builder collects the elements of a transaction before creating it.
type Builder struct {
	inputs   []ledger.Ref
	outputs  []ledger.State
	commands []ledger.Command
	hashFac  crypto.HashFactory
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		hashFac: crypto.NewSha256Factory(),
	}
}

// AddInput appends a reference to an output to consume.
func (b *Builder) AddInput(ref ledger.Ref) *Builder {
	b.inputs = append(b.inputs, ref)
	return b
}

// AddOutput appends a state to create.
func (b *Builder) AddOutput(state ledger.State) *Builder {
	b.outputs = append(b.outputs, state)
	return b
}

// AddCommand appends a command signed by the given identities.
func (b *Builder) AddCommand(data ledger.CommandData, signers ...crypto.PublicKey) *Builder {
	b.commands = append(b.commands, ledger.NewCommand(data, signers...))
	return b
}

// Build returns the transaction.
func (b *Builder) Build() (*Transaction, error) {
	tx, err := NewTransaction(
		WithInputs(b.inputs...),
		WithOutputs(b.outputs...),
		WithCommands(b.commands...),
		WithHashFactory(b.hashFac),
	)
	if err != nil {
		return nil, xerrors.Errorf("failed to create tx: %v", err)
	}

	return tx, nil
}
