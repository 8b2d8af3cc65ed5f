package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
)

// compositeKeyNamespace prefixes composite keys, which range queries skip.
const compositeKeyNamespace = "\x00"

// Memory is an in-process Stub. It is not safe for concurrent use.
//
// Outside a transaction writes apply immediately. Between Begin and Commit
// they are buffered the way a peer buffers a transaction's write set: every
// read, range scans included, sees committed state only.
type Memory struct {
	state    map[string][]byte
	private  map[string]map[string][]byte
	failures map[string]error
	tx       *writeSet
}

type write struct {
	value []byte
	del   bool
}

type writeSet struct {
	state   map[string]write
	private map[string]map[string][]byte
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		state:    map[string][]byte{},
		private:  map[string]map[string][]byte{},
		failures: map[string]error{},
	}
}

var _ Stub = (*Memory)(nil)

// Fail makes every subsequent operation on key return err, in both
// namespaces. A nil err clears the failure.
func (m *Memory) Fail(key string, err error) {
	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

// Begin opens a transaction. Writes made until Commit or Rollback are not
// visible to reads. Calling Begin inside a transaction keeps its writes.
func (m *Memory) Begin() {
	if m.tx == nil {
		m.tx = &writeSet{state: map[string]write{}, private: map[string]map[string][]byte{}}
	}
}

// Commit applies the buffered writes, last write per key winning, and ends
// the transaction. It is a no-op outside a transaction.
func (m *Memory) Commit() {
	if m.tx == nil {
		return
	}
	for k, w := range m.tx.state {
		if w.del {
			delete(m.state, k)
			continue
		}
		m.state[k] = w.value
	}
	for collection, kvs := range m.tx.private {
		for k, v := range kvs {
			m.putPrivate(collection, k, v)
		}
	}
	m.tx = nil
}

// Rollback drops the buffered writes and ends the transaction.
func (m *Memory) Rollback() { m.tx = nil }

func (m *Memory) check(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return m.failures[key]
}

func (m *Memory) GetState(key string) ([]byte, error) {
	if err := m.check(key); err != nil {
		return nil, err
	}
	return clone(m.state[key]), nil
}

func (m *Memory) PutState(key string, value []byte) error {
	if err := m.check(key); err != nil {
		return err
	}
	if m.tx != nil {
		m.tx.state[key] = write{value: clone(value)}
		return nil
	}
	m.state[key] = clone(value)
	return nil
}

func (m *Memory) DelState(key string) error {
	if err := m.check(key); err != nil {
		return err
	}
	if m.tx != nil {
		m.tx.state[key] = write{del: true}
		return nil
	}
	delete(m.state, key)
	return nil
}

func (m *Memory) GetStateByRange(startKey, endKey string) (shim.StateQueryIteratorInterface, error) {
	if err := m.failures[startKey]; startKey != "" && err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m.state))
	for k := range m.state {
		if strings.HasPrefix(k, compositeKeyNamespace) {
			continue
		}
		if startKey != "" && k < startKey {
			continue
		}
		if endKey != "" && k >= endKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kvs := make([]*queryresult.KV, 0, len(keys))
	for _, k := range keys {
		kvs = append(kvs, &queryresult.KV{Key: k, Value: clone(m.state[k])})
	}
	return &rangeIterator{kvs: kvs}, nil
}

func (m *Memory) GetPrivateData(collection, key string) ([]byte, error) {
	if collection == "" {
		return nil, fmt.Errorf("ledger: collection must not be empty")
	}
	if err := m.check(key); err != nil {
		return nil, err
	}
	return clone(m.private[collection][key]), nil
}

func (m *Memory) PutPrivateData(collection, key string, value []byte) error {
	if collection == "" {
		return fmt.Errorf("ledger: collection must not be empty")
	}
	if err := m.check(key); err != nil {
		return err
	}
	if m.tx != nil {
		c, ok := m.tx.private[collection]
		if !ok {
			c = map[string][]byte{}
			m.tx.private[collection] = c
		}
		c[key] = clone(value)
		return nil
	}
	m.putPrivate(collection, key, clone(value))
	return nil
}

func (m *Memory) putPrivate(collection, key string, value []byte) {
	c, ok := m.private[collection]
	if !ok {
		c = map[string][]byte{}
		m.private[collection] = c
	}
	c[key] = value
}

// Keys lists the committed world state keys in ascending order.
func (m *Memory) Keys() []string {
	keys := make([]string, 0, len(m.state))
	for k := range m.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PrivateKeys lists the committed keys of collection in ascending order.
func (m *Memory) PrivateKeys(collection string) []string {
	keys := make([]string, 0, len(m.private[collection]))
	for k := range m.private[collection] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type rangeIterator struct {
	kvs    []*queryresult.KV
	pos    int
	closed bool
}

func (it *rangeIterator) HasNext() bool {
	return !it.closed && it.pos < len(it.kvs)
}

func (it *rangeIterator) Next() (*queryresult.KV, error) {
	if it.closed {
		return nil, fmt.Errorf("ledger: iterator closed")
	}
	if it.pos >= len(it.kvs) {
		return nil, fmt.Errorf("ledger: iterator exhausted")
	}
	kv := it.kvs[it.pos]
	it.pos++
	return kv, nil
}

func (it *rangeIterator) Close() error {
	it.closed = true
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
