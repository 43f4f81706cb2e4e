// Package wire defines the encoded result format the device writes into
// the shared host window. Encoding is canonical CBOR, so identical results
// always produce identical bytes and a host harness can compare result
// buffers directly.
package wire

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// ResultEntry is one pattern in a result batch.
type ResultEntry struct {
	ID       uint32 `cbor:"1,keyasint"`
	Name     string `cbor:"2,keyasint"`
	Category string `cbor:"3,keyasint,omitempty"`
	Tier     uint8  `cbor:"4,keyasint,omitempty"`
}

// ResultBatch is the payload the device places at the result address after
// a successful command. Queries and navigations fill Patterns; TRANSFORM
// fills Text. Count always matches the result-count register.
type ResultBatch struct {
	Count    uint32        `cbor:"1,keyasint"`
	Patterns []ResultEntry `cbor:"2,keyasint,omitempty"`
	Text     string        `cbor:"3,keyasint,omitempty"`
}

// MarshalBatch serializes a ResultBatch to CBOR bytes.
func MarshalBatch(b *ResultBatch) ([]byte, error) {
	return cborEncMode.Marshal(b)
}

// UnmarshalBatch deserializes a ResultBatch from CBOR bytes. The batch is
// one data item; trailing bytes are ignored, so a host can hand in the
// whole window tail without knowing the encoded length.
func UnmarshalBatch(data []byte) (*ResultBatch, error) {
	var b ResultBatch
	if err := cbor.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
		return nil, fmt.Errorf("wire: unmarshal batch: %w", err)
	}
	return &b, nil
}
