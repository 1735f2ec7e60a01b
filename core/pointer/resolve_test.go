package pointer

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/store"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/internal/testing/fake"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

func TestResolve_Success(t *testing.T) {
	reader := newReader(fakeTx{
		id:      ledger.Digest{1},
		outputs: []ledger.State{fakeState{kind: "order"}, fakeState{kind: "product", value: 42}},
	})

	ptr := NewStaticPointer(ledger.NewRef(ledger.Digest{1}, 1), "product")

	before := testutil.ToFloat64(promResolutions.WithLabelValues("resolved"))

	res, err := Resolve(ptr, reader)
	require.NoError(t, err)
	require.Equal(t, fakeState{kind: "product", value: 42}, res.GetState())
	require.Equal(t, ptr.GetRef(), res.GetRef())

	// Resolution is deterministic and leaves the store untouched.
	again, err := Resolve(ptr, reader)
	require.NoError(t, err)
	require.Equal(t, res, again)
	require.Len(t, reader.txs, 1)

	require.Equal(t, before+2, testutil.ToFloat64(promResolutions.WithLabelValues("resolved")))
}

func TestResolve_Missing(t *testing.T) {
	ptr := NewStaticPointer(ledger.NewRef(ledger.Digest{2}, 0), "product")

	before := testutil.ToFloat64(promResolutions.WithLabelValues("missing"))

	_, err := Resolve(ptr, newReader())
	require.Error(t, err)

	var resErr *ResolutionError
	require.True(t, xerrors.As(err, &resErr))
	require.Equal(t, ptr.GetRef(), resErr.Ref)
	require.True(t, xerrors.Is(err, store.ErrNoTransaction))
	require.EqualError(t, err, "transaction "+ledger.Digest{2}.Hex()+" is not in the local store")

	require.Equal(t, before+1, testutil.ToFloat64(promResolutions.WithLabelValues("missing")))
}

func TestResolve_IndexOutOfRange(t *testing.T) {
	reader := newReader(fakeTx{
		id:      ledger.Digest{1},
		outputs: []ledger.State{fakeState{kind: "product"}},
	})

	ptr := NewStaticPointer(ledger.NewRef(ledger.Digest{1}, 1), "product")

	_, err := Resolve(ptr, reader)

	var idxErr *IndexError
	require.True(t, xerrors.As(err, &idxErr))
	require.Equal(t, 1, idxErr.Len)
	require.False(t, xerrors.As(err, new(*ResolutionError)))
	require.EqualError(t, err, "output index 1 out of range for transaction "+
		ledger.Digest{1}.Hex()+" with 1 outputs")
}

func TestResolve_TypeMismatch(t *testing.T) {
	reader := newReader(fakeTx{
		id:      ledger.Digest{1},
		outputs: []ledger.State{fakeState{kind: "order"}},
	})

	ptr := NewStaticPointer(ledger.NewRef(ledger.Digest{1}, 0), "product")

	_, err := Resolve(ptr, reader)

	var typeErr *TypeMismatchError
	require.True(t, xerrors.As(err, &typeErr))
	require.Equal(t, ledger.Kind("product"), typeErr.Expected)
	require.Equal(t, ledger.Kind("order"), typeErr.Actual)
	require.EqualError(t, err, "expected state of kind 'product' at "+
		ledger.NewRef(ledger.Digest{1}, 0).String()+" but got 'order'")
}

func TestResolve_StoreFailure(t *testing.T) {
	reader := newReader()
	reader.err = fake.GetError()

	ptr := NewStaticPointer(ledger.NewRef(ledger.Digest{1}, 0), "product")

	before := testutil.ToFloat64(promResolutions.WithLabelValues("failure"))

	_, err := Resolve(ptr, reader)
	require.EqualError(t, err, fake.Err("store failed"))
	require.False(t, xerrors.As(err, new(*ResolutionError)))

	require.Equal(t, before+1, testutil.ToFloat64(promResolutions.WithLabelValues("failure")))
}

func TestResolveRef(t *testing.T) {
	reader := newReader(fakeTx{
		id:      ledger.Digest{1},
		outputs: []ledger.State{fakeState{kind: "order"}},
	})

	input, err := ResolveRef(ledger.NewRef(ledger.Digest{1}, 0), reader)
	require.NoError(t, err)
	require.Equal(t, ledger.Kind("order"), input.GetState().GetKind())
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeReader struct {
	txs map[ledger.Digest]ledger.Transaction
	err error
}

func newReader(txs ...fakeTx) *fakeReader {
	r := &fakeReader{
		txs: make(map[ledger.Digest]ledger.Transaction),
	}

	for _, tx := range txs {
		r.txs[tx.id] = tx
	}

	return r
}

func (r *fakeReader) Get(id ledger.Digest) (ledger.Transaction, error) {
	if r.err != nil {
		return nil, r.err
	}

	tx, found := r.txs[id]
	if !found {
		return nil, xerrors.Errorf("oops: %w", store.ErrNoTransaction)
	}

	return tx, nil
}

type fakeTx struct {
	ledger.Transaction

	id      ledger.Digest
	outputs []ledger.State
}

func (tx fakeTx) GetOutputs() []ledger.State {
	return tx.outputs
}

type fakeState struct {
	kind  ledger.Kind
	value int
}

func (s fakeState) GetKind() ledger.Kind {
	return s.kind
}

func (s fakeState) GetParticipants() []crypto.PublicKey {
	return nil
}

func (s fakeState) Fingerprint(io.Writer) error {
	return nil
}

func (s fakeState) Serialize(serde.Context) ([]byte, error) {
	return nil, nil
}
