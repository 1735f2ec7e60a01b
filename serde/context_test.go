package serde

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContext_GetFactory(t *testing.T) {
	ctx := NewContext(fakeEngine{})
	require.Equal(t, Format("fake"), ctx.GetFormat())
	require.Nil(t, ctx.GetFactory(kindKey{kind: "product"}))

	ctx = WithFactory(ctx, kindKey{kind: "product"}, fakeFactory{name: "product"})

	require.Equal(t, fakeFactory{name: "product"}, ctx.GetFactory(kindKey{kind: "product"}))
	require.Nil(t, ctx.GetFactory(kindKey{kind: "order"}))
}

func TestWithFactory_ParentUnchanged(t *testing.T) {
	parent := WithFactory(NewContext(nil), kindKey{kind: "product"}, fakeFactory{name: "v1"})

	child := WithFactory(parent, kindKey{kind: "product"}, fakeFactory{name: "v2"})

	require.Equal(t, fakeFactory{name: "v1"}, parent.GetFactory(kindKey{kind: "product"}))
	require.Equal(t, fakeFactory{name: "v2"}, child.GetFactory(kindKey{kind: "product"}))
	require.Len(t, child.factories, 1)
}

func TestWithFactories(t *testing.T) {
	parent := WithFactory(NewContext(nil), pubkeyKey{}, fakeFactory{name: "pubkey"})

	ctx := WithFactories(parent, Factories{
		kindKey{kind: "product"}: fakeFactory{name: "product"},
		kindKey{kind: "order"}:   fakeFactory{name: "order"},
	})

	require.Len(t, parent.factories, 1)
	require.Len(t, ctx.factories, 3)
	require.Equal(t, fakeFactory{name: "pubkey"}, ctx.GetFactory(pubkeyKey{}))
	require.Equal(t, fakeFactory{name: "order"}, ctx.GetFactory(kindKey{kind: "order"}))

	same := WithFactories(ctx, nil)
	require.Len(t, same.factories, 3)
}

// -----------------------------------------------------------------------------
// Utility functions

type kindKey struct {
	kind string
}

type pubkeyKey struct{}

type fakeFactory struct {
	Factory

	name string
}

type fakeEngine struct {
	ContextEngine
}

func (fakeEngine) GetFormat() Format {
	return Format("fake")
}
