package tx

import (
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/pointer"
	"go.dedis.ch/pointers/core/store"
	"golang.org/x/xerrors"
)

// View is a transaction with its inputs resolved.
//
// - implements ledger.View
type View struct {
	inputs   []ledger.StateAndRef
	outputs  []ledger.State
	commands []ledger.Command
}

// NewView returns a new view.
func NewView(inputs []ledger.StateAndRef, outputs []ledger.State, cmds []ledger.Command) View {
	return View{
		inputs:   inputs,
		outputs:  outputs,
		commands: cmds,
	}
}

// GetInputs implements ledger.View.
func (v View) GetInputs() []ledger.StateAndRef {
	return append([]ledger.StateAndRef{}, v.inputs...)
}

// GetOutputs implements ledger.View.
func (v View) GetOutputs() []ledger.State {
	return append([]ledger.State{}, v.outputs...)
}

// GetCommands implements ledger.View.
func (v View) GetCommands() []ledger.Command {
	return append([]ledger.Command{}, v.commands...)
}

// ResolveView returns the view of the transaction by resolving every input in
// the store. It fails as soon as an input cannot be resolved, which is the case
// when the store does not hold the transaction that created it.
func ResolveView(tx ledger.Transaction, reader store.Reader) (View, error) {
	refs := tx.GetInputs()
	inputs := make([]ledger.StateAndRef, len(refs))

	for i, ref := range refs {
		input, err := pointer.ResolveRef(ref, reader)
		if err != nil {
			return View{}, xerrors.Errorf("input %d: %w", i, err)
		}

		inputs[i] = input
	}

	return NewView(inputs, tx.GetOutputs(), tx.GetCommands()), nil
}
