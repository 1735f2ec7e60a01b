package ledger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/pointers/internal/testing/fake"
)

func TestWriteLen(t *testing.T) {
	buffer := new(bytes.Buffer)

	require.NoError(t, WriteLen(buffer, 258))
	require.Equal(t, []byte{2, 1, 0, 0}, buffer.Bytes())

	err := WriteLen(fake.NewBadHash(), 1)
	require.EqualError(t, err, fake.GetError().Error())
}

func TestWriteBytes(t *testing.T) {
	buffer := new(bytes.Buffer)

	require.NoError(t, WriteBytes(buffer, []byte("ab")))
	require.NoError(t, WriteBytes(buffer, nil))
	require.Equal(t, []byte{2, 0, 0, 0, 'a', 'b', 0, 0, 0, 0}, buffer.Bytes())

	// A single write per field.
	require.NoError(t, WriteBytes(fake.NewBadHashWithDelay(1), []byte("ab")))

	err := WriteBytes(fake.NewBadHash(), []byte("ab"))
	require.EqualError(t, err, fake.GetError().Error())
}

func TestWriteBytes_Boundaries(t *testing.T) {
	first := new(bytes.Buffer)
	require.NoError(t, WriteBytes(first, []byte("ab")))
	require.NoError(t, WriteBytes(first, []byte("c")))

	second := new(bytes.Buffer)
	require.NoError(t, WriteKind(second, "a"))
	require.NoError(t, WriteKind(second, "bc"))

	require.NotEqual(t, first.Bytes(), second.Bytes())
}

func TestWriteBinary(t *testing.T) {
	buffer := new(bytes.Buffer)

	require.NoError(t, WriteBinary(buffer, NewRef(Digest{1}, 2)))
	require.Len(t, buffer.Bytes(), LenSize+DigestSize+4)

	err := WriteBinary(buffer, fake.NewBadPublicKey())
	require.EqualError(t, err, fake.Err("failed to marshal"))
}
