// ABOUTME: Error types for wire codecs
// ABOUTME: Defines sentinel errors for codec lookup and malformed input

package wire

import "errors"

var (
	// ErrUnknownCodec indicates a codec name with no registered codec
	ErrUnknownCodec = errors.New("wire: unknown codec")

	// ErrMalformed indicates input whose shape does not match the wire form
	ErrMalformed = errors.New("wire: malformed input")
)
