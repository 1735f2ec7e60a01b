package tx

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/internal/testing/fake"
	"go.dedis.ch/pointers/serde"
)

func init() {
	RegisterTransactionFormat(fake.GoodFormat, fake.Format{Msg: &Transaction{}})
	RegisterTransactionFormat(fake.BadFormat, fake.NewBadFormat())
	RegisterTransactionFormat(serde.Format("BAD_TYPE"), fake.Format{Msg: fake.Message{}})
}

func TestTransaction_New(t *testing.T) {
	tx, err := NewTransaction(
		WithInputs(ledger.NewRef(ledger.Digest{1}, 0)),
		WithOutputs(fakeState{value: 1}, fakeState{value: 2}),
		WithCommands(ledger.NewCommand(fakeCommand{}, fake.PublicKey{})),
	)
	require.NoError(t, err)
	require.NotEqual(t, ledger.Digest{}, tx.GetID())
	require.Equal(t, []ledger.Ref{ledger.NewRef(ledger.Digest{1}, 0)}, tx.GetInputs())
	require.Len(t, tx.GetOutputs(), 2)
	require.Len(t, tx.GetCommands(), 1)
	require.Equal(t, ledger.NewRef(tx.GetID(), 1), tx.GetOutputRef(1))

	_, err = NewTransaction(WithHashFactory(fake.NewHashFactory(fake.NewBadHash())))
	require.EqualError(t, err, fake.Err("couldn't fingerprint tx: couldn't write inputs"))
}

func TestTransaction_ContentAddressed(t *testing.T) {
	opts := []TransactionOption{
		WithOutputs(fakeState{value: 1}),
		WithCommands(ledger.NewCommand(fakeCommand{}, fake.PublicKey{})),
	}

	tx1, err := NewTransaction(opts...)
	require.NoError(t, err)

	tx2, err := NewTransaction(opts...)
	require.NoError(t, err)
	require.Equal(t, tx1.GetID(), tx2.GetID())

	tx3, err := NewTransaction(WithOutputs(fakeState{value: 2}))
	require.NoError(t, err)
	require.NotEqual(t, tx1.GetID(), tx3.GetID())
}

func TestTransaction_Fingerprint(t *testing.T) {
	tx := &Transaction{
		inputs:   []ledger.Ref{{}},
		outputs:  []ledger.State{fakeState{}},
		commands: []ledger.Command{ledger.NewCommand(fakeCommand{}, fake.PublicKey{})},
	}

	buffer := new(bytes.Buffer)

	err := tx.Fingerprint(buffer)
	require.NoError(t, err)
	require.NotEmpty(t, buffer.Bytes())

	err = tx.Fingerprint(fake.NewBadHash())
	require.EqualError(t, err, fake.Err("couldn't write inputs"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(1))
	require.EqualError(t, err, fake.Err("couldn't write input"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(2))
	require.EqualError(t, err, fake.Err("couldn't write outputs"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(3))
	require.EqualError(t, err, fake.Err("couldn't write output kind"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(4))
	require.EqualError(t, err, fake.Err("couldn't fingerprint output"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(5))
	require.EqualError(t, err, fake.Err("couldn't write commands"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(6))
	require.EqualError(t, err, fake.Err("couldn't fingerprint command: couldn't write kind"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(7))
	require.EqualError(t, err, fake.Err("couldn't fingerprint command: couldn't fingerprint data"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(8))
	require.EqualError(t, err, fake.Err("couldn't fingerprint command: couldn't write signers"))

	err = tx.Fingerprint(fake.NewBadHashWithDelay(9))
	require.EqualError(t, err, fake.Err("couldn't fingerprint command: couldn't write signer"))

	tx.commands = []ledger.Command{ledger.NewCommand(fakeCommand{}, fake.NewBadPublicKey())}
	err = tx.Fingerprint(new(bytes.Buffer))
	require.EqualError(t, err,
		fake.Err("couldn't fingerprint command: couldn't write signer: failed to marshal"))
}

func TestTransaction_Serialize(t *testing.T) {
	tx := &Transaction{}

	data, err := tx.Serialize(fake.NewContext())
	require.NoError(t, err)
	require.Equal(t, fake.GetFakeFormatValue(), data)

	_, err = tx.Serialize(fake.NewBadContext())
	require.EqualError(t, err, fake.Err("failed to encode"))
}

func TestTransactionFactory_Deserialize(t *testing.T) {
	fac := NewTransactionFactory(fake.PublicKeyFactory{})
	fac.Register("a", fakeStateFactory{}, nil)
	require.Len(t, fac.states, 1)
	require.Len(t, fac.commands, 1)

	msg, err := fac.Deserialize(fake.NewContext(), nil)
	require.NoError(t, err)
	require.Equal(t, &Transaction{}, msg)

	_, err = fac.Deserialize(fake.NewBadContext(), nil)
	require.EqualError(t, err, fake.Err("failed to decode"))

	_, err = fac.TransactionOf(fake.NewContextWithFormat(serde.Format("BAD_TYPE")), nil)
	require.EqualError(t, err, "invalid transaction of type 'fake.Message'")
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeState struct {
	value byte
	kind  ledger.Kind
}

func (s fakeState) GetKind() ledger.Kind {
	if s.kind == "" {
		return "a"
	}

	return s.kind
}

func (s fakeState) GetParticipants() []crypto.PublicKey {
	return nil
}

func (s fakeState) Fingerprint(w io.Writer) error {
	_, err := w.Write([]byte{s.value})
	return err
}

func (s fakeState) Serialize(serde.Context) ([]byte, error) {
	return nil, nil
}

type fakeStateFactory struct{}

func (fakeStateFactory) Deserialize(serde.Context, []byte) (serde.Message, error) {
	return fakeState{}, nil
}

func (fakeStateFactory) StateOf(serde.Context, []byte) (ledger.State, error) {
	return fakeState{}, nil
}

type fakeCommand struct{}

func (fakeCommand) GetKind() ledger.Kind {
	return "a"
}

func (fakeCommand) Fingerprint(w io.Writer) error {
	_, err := w.Write([]byte{0xcc})
	return err
}

func (fakeCommand) Serialize(serde.Context) ([]byte, error) {
	return nil, nil
}
