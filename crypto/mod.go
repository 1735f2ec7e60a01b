// Package crypto defines the cryptographic primitives used to identify the
// parties of the ledger.
//
// A party is identified by its public key. The signer owns the private part
// and can be persisted to recover the identity later.
package crypto

import (
	"encoding"
	"hash"

	"go.dedis.ch/pointers/serde"
)

// HashFactory is an interface to produce a hash digest.
type HashFactory interface {
	New() hash.Hash
}

// PublicKey is a public identity of a party.
type PublicKey interface {
	encoding.BinaryMarshaler
	encoding.TextMarshaler
	serde.Message

	// Equal returns true when the other object is the same public key.
	Equal(other interface{}) bool
}

// PublicKeyFactory is a factory to deserialize public keys.
type PublicKeyFactory interface {
	serde.Factory

	// PublicKeyOf returns the public key from the serialized data if
	// appropriate, otherwise an error.
	PublicKeyOf(serde.Context, []byte) (PublicKey, error)

	// FromBytes returns the public key from its binary representation.
	FromBytes([]byte) (PublicKey, error)
}

// Signer holds the private key of an identity.
type Signer interface {
	encoding.BinaryMarshaler

	// GetPublicKeyFactory returns the factory that can deserialize the public
	// keys of this signer.
	GetPublicKeyFactory() PublicKeyFactory

	// GetPublicKey returns the public key of the signer.
	GetPublicKey() PublicKey
}
