// Package serde defines the primitives to serialize and deserialize (serde)
// the messages of the ledger, like transactions, states and pointers.
//
// A message is serialized through a context that determines the format. Each
// message type keeps a registry of format engines so that a format can be
// added without touching the message definition, usually by importing the
// package that registers it.
package serde

import "io"

// Format is the identifier of a serialization format.
type Format string

const (
	// FormatJSON is the identifier of the JSON format.
	FormatJSON Format = "JSON"
)

// Message is the interface a data model implements to be serialized.
type Message interface {
	// Serialize returns the data of the message encoded in the format of the
	// context.
	Serialize(ctx Context) ([]byte, error)
}

// Fingerprinter is the interface a data model implements when it needs a
// deterministic binary representation, for instance to compute a digest.
type Fingerprinter interface {
	// Fingerprint writes a deterministic binary representation of the object
	// into the writer.
	Fingerprint(writer io.Writer) error
}

// Factory is the interface to implement to instantiate a message from its
// serialized data.
type Factory interface {
	// Deserialize returns the message decoded from the data, or an error if
	// the data is malformed.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// FormatEngine is the interface to implement to support a format for a given
// message type.
type FormatEngine interface {
	// Encode returns the data of the message in the format.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message from the data in the format.
	Decode(ctx Context, data []byte) (Message, error)
}
