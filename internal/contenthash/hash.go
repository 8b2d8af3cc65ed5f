// Package contenthash derives content addresses for ledger records.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ffa6995/fabric-digital-product-passport/internal/canonical"
)

// Size is the length of a content address in hex characters.
const Size = sha256.Size * 2

// Of returns the lowercase hex SHA-256 of the canonical encoding of v.
func Of(v interface{}) (string, error) {
	b, err := canonical.Marshal(v)
	if err != nil {
		return "", err
	}
	return Bytes(b), nil
}

// Bytes hashes already encoded bytes. Callers must pass canonical bytes if
// the result is used as a storage key.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Valid reports whether s has the shape of a content address.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
