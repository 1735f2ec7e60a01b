package tx

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/pointer"
	"go.dedis.ch/pointers/core/store"
	"go.dedis.ch/pointers/core/store/mem"
	"golang.org/x/xerrors"
)

func TestView_Getters(t *testing.T) {
	input := ledger.NewStateAndRef(fakeState{}, ledger.Ref{})

	view := NewView(
		[]ledger.StateAndRef{input},
		[]ledger.State{fakeState{value: 1}},
		[]ledger.Command{ledger.NewCommand(fakeCommand{})},
	)

	require.Equal(t, []ledger.StateAndRef{input}, view.GetInputs())
	require.Equal(t, []ledger.State{fakeState{value: 1}}, view.GetOutputs())
	require.Len(t, view.GetCommands(), 1)
}

func TestResolveView(t *testing.T) {
	vault := mem.NewVault()

	prev, err := NewBuilder().
		AddOutput(fakeState{value: 1}).
		AddOutput(fakeState{value: 2}).
		Build()
	require.NoError(t, err)

	require.NoError(t, vault.Store(prev))

	next, err := NewBuilder().
		AddInput(prev.GetOutputRef(1)).
		AddOutput(fakeState{value: 3}).
		AddCommand(fakeCommand{}).
		Build()
	require.NoError(t, err)

	view, err := ResolveView(next, vault)
	require.NoError(t, err)
	require.Len(t, view.GetInputs(), 1)
	require.Equal(t, fakeState{value: 2}, view.GetInputs()[0].GetState())
	require.Equal(t, prev.GetOutputRef(1), view.GetInputs()[0].GetRef())
	require.Equal(t, next.GetOutputs(), view.GetOutputs())
	require.Equal(t, next.GetCommands(), view.GetCommands())

	_, err = ResolveView(next, mem.NewVault())
	require.True(t, xerrors.As(err, new(*pointer.ResolutionError)))
	require.True(t, xerrors.Is(err, store.ErrNoTransaction))

	bad, err := NewBuilder().AddInput(prev.GetOutputRef(5)).Build()
	require.NoError(t, err)

	_, err = ResolveView(bad, vault)
	require.True(t, xerrors.As(err, new(*pointer.IndexError)))
}
