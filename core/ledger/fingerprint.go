package ledger

import (
	"encoding"
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// LenSize is the size in bytes of the length prefix of the fingerprints.
const LenSize = 4

// WriteLen writes the integer on four bytes in little endian.
func WriteLen(w io.Writer, n int) error {
	buffer := make([]byte, LenSize)
	binary.LittleEndian.PutUint32(buffer, uint32(n))

	_, err := w.Write(buffer)
	return err
}

// WriteBytes writes the data prefixed by its length, in a single write, so
// that two consecutive fields of a fingerprint never produce the same stream
// when the boundary between them moves.
func WriteBytes(w io.Writer, data []byte) error {
	buffer := make([]byte, LenSize+len(data))
	binary.LittleEndian.PutUint32(buffer, uint32(len(data)))
	copy(buffer[LenSize:], data)

	_, err := w.Write(buffer)
	return err
}

// WriteKind writes the kind prefixed by its length.
func WriteKind(w io.Writer, kind Kind) error {
	return WriteBytes(w, []byte(kind))
}

// WriteBinary writes the binary form of the value prefixed by its length.
func WriteBinary(w io.Writer, m encoding.BinaryMarshaler) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return xerrors.Errorf("failed to marshal: %v", err)
	}

	return WriteBytes(w, data)
}
