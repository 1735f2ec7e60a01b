// Package ledger defines the data model of the ledger shared by the verifier
// and the pointer resolution.
//
// A transaction consumes outputs of previous transactions, designated by their
// reference, and creates new output states. Every state and every command
// belongs to an entity kind which selects the rules that apply to it.
package ledger

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

// DigestSize is the size in bytes of a transaction digest.
const DigestSize = 32

// Kind is the name of an entity kind, like "product" or "order".
type Kind string

// Digest is the identifier of a transaction.
type Digest [DigestSize]byte

// DigestFromHex returns the digest of the hexadecimal string.
func DigestFromHex(str string) (Digest, error) {
	var id Digest

	buffer, err := hex.DecodeString(str)
	if err != nil {
		return id, xerrors.Errorf("malformed digest: %v", err)
	}

	if len(buffer) != DigestSize {
		return id, xerrors.Errorf("digest must be %d bytes, got %d", DigestSize, len(buffer))
	}

	copy(id[:], buffer)

	return id, nil
}

// Hex returns the full hexadecimal representation of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// String implements fmt.Stringer. It returns a short representation of the
// digest.
func (d Digest) String() string {
	return fmt.Sprintf("%#x", d[:4])
}

// Ref is the locator of an output: the transaction that created it and its
// position in the list of outputs.
type Ref struct {
	TxID  Digest
	Index uint32
}

// NewRef returns a new reference.
func NewRef(id Digest, index uint32) Ref {
	return Ref{
		TxID:  id,
		Index: index,
	}
}

// Bytes returns the digest followed by the index in big endian. The result
// has a fixed size.
func (r Ref) Bytes() []byte {
	buffer := make([]byte, DigestSize+4)
	copy(buffer, r.TxID[:])
	binary.BigEndian.PutUint32(buffer[DigestSize:], r.Index)

	return buffer
}

// MarshalBinary implements encoding.BinaryMarshaler. It returns the bytes of
// the reference and never fails.
func (r Ref) MarshalBinary() ([]byte, error) {
	return r.Bytes(), nil
}

// String implements fmt.Stringer.
func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.TxID.Hex(), r.Index)
}

// State is an output of a transaction.
type State interface {
	serde.Message
	serde.Fingerprinter

	// GetKind returns the entity kind of the state.
	GetKind() Kind

	// GetParticipants returns the identities that must sign any transaction
	// creating or consuming the state.
	GetParticipants() []crypto.PublicKey
}

// StateFactory is the interface to deserialize the states of a kind.
type StateFactory interface {
	serde.Factory

	StateOf(serde.Context, []byte) (State, error)
}

// StateAndRef is a state coupled with the reference of the output that
// contains it.
type StateAndRef struct {
	state State
	ref   Ref
}

// NewStateAndRef returns a new state and ref.
func NewStateAndRef(state State, ref Ref) StateAndRef {
	return StateAndRef{
		state: state,
		ref:   ref,
	}
}

// GetState returns the state.
func (s StateAndRef) GetState() State {
	return s.state
}

// GetRef returns the reference of the state.
func (s StateAndRef) GetRef() Ref {
	return s.ref
}

// CommandData is the intent of a transaction for a given entity kind.
type CommandData interface {
	serde.Message
	serde.Fingerprinter

	// GetKind returns the entity kind the command applies to.
	GetKind() Kind
}

// CommandFactory is the interface to deserialize the commands of a kind.
type CommandFactory interface {
	serde.Factory

	CommandOf(serde.Context, []byte) (CommandData, error)
}

// Command is a command of a transaction with the identities that signed it.
type Command struct {
	data    CommandData
	signers []crypto.PublicKey
}

// NewCommand returns a new command.
func NewCommand(data CommandData, signers ...crypto.PublicKey) Command {
	return Command{
		data:    data,
		signers: signers,
	}
}

// GetData returns the data of the command.
func (c Command) GetData() CommandData {
	return c.data
}

// GetKind returns the entity kind of the command.
func (c Command) GetKind() Kind {
	return c.data.GetKind()
}

// GetSigners returns the identities that signed the command.
func (c Command) GetSigners() []crypto.PublicKey {
	return append([]crypto.PublicKey{}, c.signers...)
}

// IsSignedBy returns true when every key belongs to the signers of the
// command.
func (c Command) IsSignedBy(keys ...crypto.PublicKey) bool {
	for _, key := range keys {
		found := false

		for _, signer := range c.signers {
			if signer.Equal(key) {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

// View is the input of the verifier: a transaction with its inputs resolved.
type View interface {
	// GetInputs returns the consumed states with their references.
	GetInputs() []StateAndRef

	// GetOutputs returns the created states.
	GetOutputs() []State

	// GetCommands returns the commands with their signers.
	GetCommands() []Command
}

// Transaction is the stored form of a transaction: the inputs are only known
// by their references.
type Transaction interface {
	serde.Message
	serde.Fingerprinter

	// GetID returns the digest of the transaction.
	GetID() Digest

	// GetInputs returns the references of the consumed outputs.
	GetInputs() []Ref

	// GetOutputs returns the created states.
	GetOutputs() []State

	// GetCommands returns the commands with their signers.
	GetCommands() []Command
}

// TransactionFactory is the interface to deserialize transactions.
type TransactionFactory interface {
	serde.Factory

	TransactionOf(serde.Context, []byte) (Transaction, error)
}
