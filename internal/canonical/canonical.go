// Package canonical produces byte-stable JSON for ledger writes.
//
// Every peer that endorses a transaction re-executes it and the resulting
// write sets are compared byte for byte, so two logically identical records
// must always serialize to the same bytes. Struct field order, map iteration
// order and the order in which a record was assembled must not leak into the
// output.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes v as JSON with the keys of every object, at every depth,
// in ascending order. Array order is kept and numbers are written exactly as
// the first encoding produced them.
func Marshal(v interface{}) ([]byte, error) {
	raw, err := encode(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("canonical: decode intermediate form: %w", err)
	}

	// encoding/json writes map[string]interface{} with sorted keys, which is
	// what every object in tree is now.
	return encode(tree)
}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonical: encode: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
