// Package party implements a participant of the ledger: an identity with its
// own vault and the verifier of the transactions it records.
//
// A party only knows the transactions it recorded itself or the ones another
// party explicitly sent to it. Nothing is synchronized implicitly, so a pointer
// may resolve for a party and fail for another one.
package party

import (
	"fmt"

	"go.dedis.ch/pointers"
	"go.dedis.ch/pointers/contracts/order"
	"go.dedis.ch/pointers/contracts/product"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/ledger/tx"
	"go.dedis.ch/pointers/core/pointer"
	"go.dedis.ch/pointers/core/store"
	"go.dedis.ch/pointers/core/validation"
	"go.dedis.ch/pointers/core/validation/simple"
	"go.dedis.ch/pointers/crypto"
	"golang.org/x/xerrors"
)

// NewVerifier returns a verifier with the product and the order contracts.
func NewVerifier() *simple.Service {
	srvc := simple.NewService()

	product.RegisterContract(srvc, product.NewContract())
	order.RegisterContract(srvc, order.NewContract())

	return srvc
}

// NewTransactionFactory returns a transaction factory that can decode the
// products and the orders.
func NewTransactionFactory(f crypto.PublicKeyFactory) tx.TransactionFactory {
	fac := tx.NewTransactionFactory(f)

	product.RegisterFactories(fac, f)
	order.RegisterFactories(fac, f)

	return fac
}

// RejectionError is returned when a transaction breaks at least one rule.
type RejectionError struct {
	ID     ledger.Digest
	Result validation.Result
}

// Error implements error.
func (e *RejectionError) Error() string {
	_, reason := e.Result.GetStatus()

	return fmt.Sprintf("transaction %v rejected: %s", e.ID, reason)
}

// Party is a participant of the ledger.
type Party struct {
	name     string
	signer   crypto.Signer
	vault    store.Vault
	verifier validation.Verifier
}

// NewParty creates a new party.
func NewParty(name string, signer crypto.Signer, vault store.Vault, v validation.Verifier) *Party {
	return &Party{
		name:     name,
		signer:   signer,
		vault:    vault,
		verifier: v,
	}
}

// GetName returns the name of the party.
func (p *Party) GetName() string {
	return p.name
}

// GetPublicKey returns the identity of the party.
func (p *Party) GetPublicKey() crypto.PublicKey {
	return p.signer.GetPublicKey()
}

// GetVault returns the vault of the party.
func (p *Party) GetVault() store.Vault {
	return p.vault
}

// Record verifies the transactions in order and stores each of them in the
// vault once accepted, so that a transaction can consume the outputs of a
// previous one of the list. It stops at the first failure, which is a
// *RejectionError when a transaction breaks a rule.
func (p *Party) Record(txs ...ledger.Transaction) error {
	for _, t := range txs {
		view, err := tx.ResolveView(t, p.vault)
		if err != nil {
			return xerrors.Errorf("tx %v: failed to resolve inputs: %w", t.GetID(), err)
		}

		res, err := p.verifier.Verify(view)
		if err != nil {
			return xerrors.Errorf("tx %v: verification failed: %w", t.GetID(), err)
		}

		if !res.IsValid() {
			return &RejectionError{ID: t.GetID(), Result: res}
		}

		err = p.vault.Store(t)
		if err != nil {
			return xerrors.Errorf("tx %v: failed to store: %v", t.GetID(), err)
		}

		pointers.Logger.Info().
			Str("party", p.name).
			Str("tx", t.GetID().Hex()).
			Msg("transaction recorded")
	}

	return nil
}

// Send explicitly copies a transaction of the vault to the vault of the other
// party. The transaction has been verified when it was recorded, and is stored
// as-is by the recipient.
func (p *Party) Send(id ledger.Digest, to *Party) error {
	t, err := p.vault.Get(id)
	if err != nil {
		return xerrors.Errorf("failed to read tx: %w", err)
	}

	err = to.vault.Store(t)
	if err != nil {
		return xerrors.Errorf("failed to store tx: %v", err)
	}

	pointers.Logger.Info().
		Str("from", p.name).
		Str("to", to.name).
		Str("tx", id.Hex()).
		Msg("transaction sent")

	return nil
}

// Resolve resolves the pointer against the vault of the party.
func (p *Party) Resolve(ptr pointer.StaticPointer) (pointer.Resolved, error) {
	return pointer.Resolve(ptr, p.vault)
}
