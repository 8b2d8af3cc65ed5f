// Package ledger describes the slice of the Fabric chaincode stub the
// passport core depends on. shim.ChaincodeStubInterface satisfies Stub, so
// the contract hands its stub straight through; tests use Memory.
package ledger

import (
	"errors"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// ErrEmptyKey is returned for reads and writes against an empty key.
var ErrEmptyKey = errors.New("ledger: key must not be empty")

// WorldState is the public key-value namespace of the chaincode.
type WorldState interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
	DelState(key string) error
	// GetStateByRange iterates keys in [startKey, endKey) in ascending order.
	// Empty bounds are open ended.
	GetStateByRange(startKey, endKey string) (shim.StateQueryIteratorInterface, error)
}

// PrivateData is the access-restricted namespace of a private data
// collection.
type PrivateData interface {
	GetPrivateData(collection, key string) ([]byte, error)
	PutPrivateData(collection, key string, value []byte) error
}

// Stub is everything a single invocation reads and writes.
type Stub interface {
	WorldState
	PrivateData
}
