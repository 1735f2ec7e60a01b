// Package disk implements a persistent vault that stores the transactions in a
// key/value database.
package disk

import (
	"bytes"
	"sync"

	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/store"
	"go.dedis.ch/pointers/core/store/kv"
	"go.dedis.ch/pointers/serde"
	"go.dedis.ch/pointers/serde/json"
	"golang.org/x/xerrors"
)

type cachedData struct {
	sync.Mutex

	length int
}

// Vault is a persistent transaction store. The transactions are stored in JSON
// under their identifier.
//
// - implements store.Vault
type Vault struct {
	*cachedData

	db      kv.DB
	bucket  []byte
	context serde.Context
	fac     ledger.TransactionFactory
}

// NewVault creates a new persistent vault over the database. The factory must
// know the kinds of the states and commands the vault will hold.
func NewVault(db kv.DB, fac ledger.TransactionFactory) *Vault {
	return &Vault{
		cachedData: &cachedData{},
		db:         db,
		bucket:     []byte("transactions"),
		context:    json.NewContext(),
		fac:        fac,
	}
}

// Len implements store.Vault. It returns the number of transactions stored in
// the database.
func (v *Vault) Len() int {
	v.Lock()
	defer v.Unlock()

	return v.length
}

// Load reads the database to rebuild the cache. It fails if a transaction
// cannot be decoded or is not stored under its own identifier.
func (v *Vault) Load() error {
	v.Lock()
	defer v.Unlock()

	v.length = 0

	return v.db.View(func(tx kv.ReadableTx) error {
		bucket := tx.GetBucket(v.bucket)
		if bucket == nil {
			return nil
		}

		err := bucket.ForEach(func(key, value []byte) error {
			_, err := v.decode(key, value)
			if err != nil {
				return xerrors.Errorf("malformed transaction: %v", err)
			}

			v.length++

			return nil
		})

		if err != nil {
			return xerrors.Errorf("while scanning: %v", err)
		}

		return nil
	})
}

// Store implements store.Writer. It writes the transactions that are not yet
// in the database in a single database transaction.
func (v *Vault) Store(txs ...ledger.Transaction) error {
	values := make([][]byte, len(txs))

	for i, tx := range txs {
		data, err := tx.Serialize(v.context)
		if err != nil {
			return xerrors.Errorf("failed to serialize: %v", err)
		}

		values[i] = data
	}

	return v.db.Update(func(wtx kv.WritableTx) error {
		bucket, err := wtx.GetBucketOrCreate(v.bucket)
		if err != nil {
			return xerrors.Errorf("bucket failed: %v", err)
		}

		added := 0

		for i, tx := range txs {
			id := tx.GetID()

			if bucket.Get(id[:]) != nil {
				continue
			}

			err = bucket.Set(id[:], values[i])
			if err != nil {
				return xerrors.Errorf("while writing: %v", err)
			}

			added++
		}

		wtx.OnCommit(func() {
			v.Lock()
			v.length += added
			v.Unlock()
		})

		return nil
	})
}

// Get implements store.Reader. It loads the transaction with the given
// identifier if it exists, otherwise it returns an error wrapping
// store.ErrNoTransaction.
func (v *Vault) Get(id ledger.Digest) (ledger.Transaction, error) {
	var res ledger.Transaction

	err := v.db.View(func(tx kv.ReadableTx) error {
		bucket := tx.GetBucket(v.bucket)
		if bucket == nil {
			return xerrors.Errorf("transaction %#x: %w", id[:], store.ErrNoTransaction)
		}

		value := bucket.Get(id[:])
		if len(value) == 0 {
			return xerrors.Errorf("transaction %#x: %w", id[:], store.ErrNoTransaction)
		}

		var err error
		res, err = v.decode(id[:], value)
		if err != nil {
			return xerrors.Errorf("malformed transaction: %v", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}

// decode returns the transaction of a record after checking that the record
// is stored under the identifier of the transaction.
func (v *Vault) decode(key, value []byte) (ledger.Transaction, error) {
	res, err := v.fac.TransactionOf(v.context, value)
	if err != nil {
		return nil, err
	}

	id := res.GetID()
	if !bytes.Equal(id[:], key) {
		return nil, xerrors.Errorf("stored under %#x but identified by %#x", key, id[:])
	}

	return res, nil
}
