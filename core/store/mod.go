// Package store defines the primitives of a party-local transaction store,
// also known as a vault.
//
// A party only holds the transactions it recorded itself or that another
// party explicitly sent to it. A lookup for an unknown transaction is not a
// failure of the store but an expected outcome that callers must handle.
package store

import (
	"errors"

	"go.dedis.ch/pointers/core/ledger"
)

// ErrNoTransaction is the error wrapped by a reader when the transaction is
// not known by the store.
var ErrNoTransaction = errors.New("transaction not found")

// Reader is the interface for a store that can look up transactions.
type Reader interface {
	// Get returns the transaction with the given identifier. The returned
	// error wraps ErrNoTransaction when the store does not hold it.
	Get(id ledger.Digest) (ledger.Transaction, error)
}

// Writer is the interface for a store that can record transactions.
type Writer interface {
	// Store records the transactions. Recording a transaction already known is
	// a no-op.
	Store(txs ...ledger.Transaction) error
}

// Vault is a party-local transaction store.
type Vault interface {
	Reader
	Writer

	// Len returns the number of transactions in the vault.
	Len() int
}

// Transaction is a generic interface that store implementations can use to
// provide atomicity.
type Transaction interface {
	// OnCommit adds a callback to be executed after the transaction
	// successfully commits.
	OnCommit(func())
}
