package json

import (
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/ledger/tx"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/internal/testing/fake"
	"go.dedis.ch/pointers/serde"
)

func TestTxFormat_Encode(t *testing.T) {
	format := txFormat{}
	ctx := fake.NewContext()

	data, err := format.Encode(ctx, makeTx(t))
	require.NoError(t, err)

	expected := `{"Inputs":[{"TxID":"01` + strings.Repeat("00", 31) + `","Index":2}],` +
		`"Outputs":[{"Kind":"a","Data":{"Value":5}}],` +
		`"Commands":[{"Kind":"a","Data":{},"Signers":[{}]}]}`
	require.Equal(t, expected, string(data))

	empty, err := tx.NewTransaction()
	require.NoError(t, err)

	data, err = format.Encode(ctx, empty)
	require.NoError(t, err)
	require.Equal(t, `{"Inputs":[],"Outputs":[],"Commands":[]}`, string(data))

	_, err = format.Encode(ctx, fake.Message{})
	require.EqualError(t, err, "unsupported message of type 'fake.Message'")

	_, err = format.Encode(fake.NewBadContext(), makeTx(t))
	require.EqualError(t, err, fake.Err("failed to encode output"))

	bad, err := tx.NewTransaction(tx.WithCommands(ledger.NewCommand(badCommand{})))
	require.NoError(t, err)

	_, err = format.Encode(ctx, bad)
	require.EqualError(t, err, fake.Err("failed to encode command: failed to encode data"))

	bad, err = tx.NewTransaction(tx.WithCommands(ledger.NewCommand(fakeCommand{}, badPublicKey{})))
	require.NoError(t, err)

	_, err = format.Encode(ctx, bad)
	require.EqualError(t, err, fake.Err("failed to encode command: failed to encode signer"))

	bad, err = tx.NewTransaction()
	require.NoError(t, err)

	_, err = format.Encode(fake.NewBadContext(), bad)
	require.EqualError(t, err, fake.Err("failed to marshal"))
}

func TestTxFormat_Decode(t *testing.T) {
	format := txFormat{}
	ctx := makeContext()

	expected := makeTx(t)

	data, err := format.Encode(ctx, expected)
	require.NoError(t, err)

	msg, err := format.Decode(ctx, data)
	require.NoError(t, err)

	decoded := msg.(*tx.Transaction)
	require.Equal(t, expected.GetID(), decoded.GetID())
	require.Equal(t, expected.GetInputs(), decoded.GetInputs())
	require.Equal(t, expected.GetOutputs(), decoded.GetOutputs())
	require.Len(t, decoded.GetCommands(), 1)

	_, err = format.Decode(fake.NewBadContext(), data)
	require.EqualError(t, err, fake.Err("failed to unmarshal"))

	_, err = format.Decode(ctx, []byte(`{"Inputs":[{"TxID":"zz"}]}`))
	require.EqualError(t, err,
		"invalid input: malformed digest: encoding/hex: invalid byte: U+007A 'z'")

	_, err = format.Decode(ctx, []byte(`{"Outputs":[{"Kind":"b"}]}`))
	require.EqualError(t, err, "output: invalid factory of kind 'b': '<nil>'")

	_, err = format.Decode(ctx, []byte(`{"Outputs":[{"Kind":"a","Data":"x"}]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "output: malformed state: ")

	_, err = format.Decode(ctx, []byte(`{"Commands":[{"Kind":"b"}]}`))
	require.EqualError(t, err, "command: invalid factory of kind 'b': '<nil>'")

	badCtx := serde.WithFactory(ctx, tx.CommandKey{Kind: "a"}, badCommandFactory{})
	_, err = format.Decode(badCtx, []byte(`{"Commands":[{"Kind":"a"}]}`))
	require.EqualError(t, err, fake.Err("command: malformed data"))

	badCtx = serde.WithFactory(ctx, tx.PublicKeyFac{}, nil)
	_, err = format.Decode(badCtx, []byte(`{"Commands":[{"Kind":"a"}]}`))
	require.EqualError(t, err, "command: invalid public key factory '<nil>'")

	badCtx = serde.WithFactory(ctx, tx.PublicKeyFac{}, fake.NewBadPublicKeyFactory())
	_, err = format.Decode(badCtx, []byte(`{"Commands":[{"Kind":"a","Signers":[{}]}]}`))
	require.EqualError(t, err, fake.Err("command: malformed signer"))

	format.hashFactory = fake.NewHashFactory(fake.NewBadHash())
	_, err = format.Decode(ctx, []byte(`{}`))
	require.EqualError(t, err,
		fake.Err("failed to create tx: couldn't fingerprint tx: couldn't write inputs"))
}

// -----------------------------------------------------------------------------
// Utility functions

func makeTx(t *testing.T) *tx.Transaction {
	res, err := tx.NewTransaction(
		tx.WithInputs(ledger.NewRef(ledger.Digest{1}, 2)),
		tx.WithOutputs(fakeState{Value: 5}),
		tx.WithCommands(ledger.NewCommand(fakeCommand{}, fake.PublicKey{})),
	)
	require.NoError(t, err)

	return res
}

func makeContext() serde.Context {
	ctx := fake.NewContext()
	ctx = serde.WithFactory(ctx, tx.StateKey{Kind: "a"}, fakeStateFactory{})
	ctx = serde.WithFactory(ctx, tx.CommandKey{Kind: "a"}, fakeCommandFactory{})
	ctx = serde.WithFactory(ctx, tx.PublicKeyFac{}, fake.PublicKeyFactory{})

	return ctx
}

type fakeState struct {
	Value int
}

func (s fakeState) GetKind() ledger.Kind {
	return "a"
}

func (s fakeState) GetParticipants() []crypto.PublicKey {
	return nil
}

func (s fakeState) Fingerprint(w io.Writer) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, uint64(s.Value))

	_, err := w.Write(buffer)
	return err
}

func (s fakeState) Serialize(ctx serde.Context) ([]byte, error) {
	return ctx.Marshal(s)
}

type fakeStateFactory struct{}

func (f fakeStateFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.StateOf(ctx, data)
}

func (fakeStateFactory) StateOf(ctx serde.Context, data []byte) (ledger.State, error) {
	s := fakeState{}

	err := ctx.Unmarshal(data, &s)
	if err != nil {
		return nil, err
	}

	return s, nil
}

type fakeCommand struct{}

func (fakeCommand) GetKind() ledger.Kind {
	return "a"
}

func (fakeCommand) Fingerprint(io.Writer) error {
	return nil
}

func (fakeCommand) Serialize(serde.Context) ([]byte, error) {
	return []byte(`{}`), nil
}

type badCommand struct {
	fakeCommand
}

func (badCommand) Serialize(serde.Context) ([]byte, error) {
	return nil, fake.GetError()
}

type fakeCommandFactory struct{}

func (f fakeCommandFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.CommandOf(ctx, data)
}

func (fakeCommandFactory) CommandOf(serde.Context, []byte) (ledger.CommandData, error) {
	return fakeCommand{}, nil
}

type badCommandFactory struct {
	fakeCommandFactory
}

func (badCommandFactory) CommandOf(serde.Context, []byte) (ledger.CommandData, error) {
	return nil, fake.GetError()
}

type badPublicKey struct {
	fake.PublicKey
}

func (badPublicKey) Serialize(serde.Context) ([]byte, error) {
	return nil, fake.GetError()
}
