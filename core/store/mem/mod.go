// Package mem implements an in-memory vault.
package mem

import (
	"sync"

	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/store"
	"golang.org/x/xerrors"
)

// Vault is an in-memory transaction store. It is safe for concurrent use.
//
// - implements store.Vault
type Vault struct {
	sync.RWMutex
	txs map[ledger.Digest]ledger.Transaction
}

// NewVault returns a new empty vault.
func NewVault() *Vault {
	return &Vault{
		txs: make(map[ledger.Digest]ledger.Transaction),
	}
}

// Get implements store.Reader. It returns the transaction if it exists,
// otherwise an error wrapping store.ErrNoTransaction.
func (v *Vault) Get(id ledger.Digest) (ledger.Transaction, error) {
	v.RLock()
	defer v.RUnlock()

	tx, found := v.txs[id]
	if !found {
		return nil, xerrors.Errorf("transaction %#x: %w", id[:], store.ErrNoTransaction)
	}

	return tx, nil
}

// Store implements store.Writer. It records the transactions.
func (v *Vault) Store(txs ...ledger.Transaction) error {
	v.Lock()
	defer v.Unlock()

	for _, tx := range txs {
		v.txs[tx.GetID()] = tx
	}

	return nil
}

// Len implements store.Vault. It returns the number of transactions.
func (v *Vault) Len() int {
	v.RLock()
	defer v.RUnlock()

	return len(v.txs)
}
