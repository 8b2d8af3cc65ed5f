package contract

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/pkg/cid"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"

	"github.com/ffa6995/fabric-digital-product-passport/internal/ledger"
)

// fakeStub forwards the calls the contract makes to a ledger.Memory. Any
// other stub method panics through the nil embedded interface.
type fakeStub struct {
	shim.ChaincodeStubInterface
	mem  *ledger.Memory
	txID string
	fn   string
}

func (s *fakeStub) GetTxID() string { return s.txID }

func (s *fakeStub) GetFunctionAndParameters() (string, []string) { return s.fn, nil }

func (s *fakeStub) GetState(key string) ([]byte, error) { return s.mem.GetState(key) }

func (s *fakeStub) PutState(key string, value []byte) error { return s.mem.PutState(key, value) }

func (s *fakeStub) DelState(key string) error { return s.mem.DelState(key) }

func (s *fakeStub) GetStateByRange(startKey, endKey string) (shim.StateQueryIteratorInterface, error) {
	return s.mem.GetStateByRange(startKey, endKey)
}

func (s *fakeStub) GetPrivateData(collection, key string) ([]byte, error) {
	return s.mem.GetPrivateData(collection, key)
}

func (s *fakeStub) PutPrivateData(collection, key string, value []byte) error {
	return s.mem.PutPrivateData(collection, key, value)
}

type fakeIdentity struct {
	cid.ClientIdentity
	mspID string
	err   error
}

func (i *fakeIdentity) GetMSPID() (string, error) { return i.mspID, i.err }

type fakeContext struct {
	stub *fakeStub
	id   *fakeIdentity
}

var _ contractapi.TransactionContextInterface = (*fakeContext)(nil)

func (c *fakeContext) GetStub() shim.ChaincodeStubInterface { return c.stub }

func (c *fakeContext) GetClientIdentity() cid.ClientIdentity { return c.id }

// network is one shared ledger that several organisations invoke. Each
// context it hands out is a transaction of its own: reads see what earlier
// invocations committed, never their own writes.
type network struct {
	mem *ledger.Memory
	tx  int
}

func newNetwork() *network { return &network{mem: ledger.NewMemory()} }

func (n *network) as(mspID string) *fakeContext {
	n.settle()
	n.mem.Begin()
	n.tx++
	return &fakeContext{
		stub: &fakeStub{mem: n.mem, txID: fmt.Sprintf("tx%d", n.tx)},
		id:   &fakeIdentity{mspID: mspID},
	}
}

// settle commits the last invocation.
func (n *network) settle() { n.mem.Commit() }
