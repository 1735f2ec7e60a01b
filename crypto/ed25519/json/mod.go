package json

import (
	"go.dedis.ch/pointers/crypto/ed25519"
	"go.dedis.ch/pointers/serde"
	"golang.org/x/xerrors"
)

func init() {
	ed25519.RegisterPublicKeyFormat(serde.FormatJSON, pubkeyFormat{})
}

// Algorithm is the JSON message to identify the curve of a key.
type Algorithm struct {
	Name string
}

// PublicKeyJSON is the JSON message of a public key.
type PublicKeyJSON struct {
	Algorithm Algorithm
	Data      []byte
}

// pubkeyFormat is the JSON format engine for the Ed25519 public keys.
//
// - implements serde.FormatEngine
type pubkeyFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the public
// key if appropriate, otherwise an error.
func (f pubkeyFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	pubkey, ok := msg.(ed25519.PublicKey)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	buffer, err := pubkey.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal point: %v", err)
	}

	m := PublicKeyJSON{
		Algorithm: Algorithm{Name: ed25519.Algorithm},
		Data:      buffer,
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the public key of the JSON
// data if appropriate, otherwise an error.
func (f pubkeyFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := PublicKeyJSON{}
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal public key: %v", err)
	}

	if m.Algorithm.Name != ed25519.Algorithm {
		return nil, xerrors.Errorf("unsupported algorithm '%s'", m.Algorithm.Name)
	}

	pubkey, err := ed25519.NewPublicKey(m.Data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't create public key: %v", err)
	}

	return pubkey, nil
}
