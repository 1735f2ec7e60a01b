package mem

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/store"
	"golang.org/x/xerrors"
)

func TestVault_Get(t *testing.T) {
	vault := NewVault()
	vault.txs[ledger.Digest{1}] = fakeTx{id: ledger.Digest{1}}

	tx, err := vault.Get(ledger.Digest{1})
	require.NoError(t, err)
	require.Equal(t, fakeTx{id: ledger.Digest{1}}, tx)

	_, err = vault.Get(ledger.Digest{2})
	require.True(t, xerrors.Is(err, store.ErrNoTransaction))
	require.EqualError(t, err,
		"transaction 0x0200000000000000000000000000000000000000000000000000000000000000: "+
			"transaction not found")
}

func TestVault_Store(t *testing.T) {
	vault := NewVault()

	err := vault.Store(fakeTx{id: ledger.Digest{1}}, fakeTx{id: ledger.Digest{2}})
	require.NoError(t, err)
	require.Equal(t, 2, vault.Len())

	err = vault.Store(fakeTx{id: ledger.Digest{1}})
	require.NoError(t, err)
	require.Equal(t, 2, vault.Len())
}

func TestVault_Concurrent(t *testing.T) {
	vault := NewVault()

	var wg sync.WaitGroup
	wg.Add(10)

	for i := 0; i < 10; i++ {
		go func(i int) {
			defer wg.Done()

			id := ledger.Digest{byte(i)}

			require.NoError(t, vault.Store(fakeTx{id: id}))

			_, err := vault.Get(id)
			require.NoError(t, err)
		}(i)
	}

	wg.Wait()

	require.Equal(t, 10, vault.Len())
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeTx struct {
	ledger.Transaction

	id ledger.Digest
}

func (tx fakeTx) GetID() ledger.Digest {
	return tx.id
}
