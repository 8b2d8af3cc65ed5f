// Package passport implements the digital product passport state machine:
// the asset registry, the private material partition, the access approval
// workflow and the recycling transition.
//
// A Passport is built per invocation around the stub of that invocation and
// keeps no state of its own. Writes are buffered by the peer and committed
// together, so operations that fail halfway leave nothing behind once the
// transaction is rejected.
package passport

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ffa6995/fabric-digital-product-passport/internal/canonical"
	"github.com/ffa6995/fabric-digital-product-passport/internal/ledger"
)

type Passport struct {
	stub       ledger.Stub
	collection string
	log        zerolog.Logger
}

type Option func(*Passport)

// WithCollection sets the private data collection for material records.
func WithCollection(name string) Option {
	return func(p *Passport) {
		if name != "" {
			p.collection = name
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(p *Passport) { p.log = l }
}

func New(stub ledger.Stub, opts ...Option) *Passport {
	p := &Passport{
		stub:       stub,
		collection: DefaultCollection,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Collection returns the private data collection in use.
func (p *Passport) Collection() string { return p.collection }

// --------------------------- Utils --------------------------- //

func (p *Passport) readRaw(id string) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("asset id must not be empty: %w", ErrInvalidArgument)
	}
	data, err := p.stub.GetState(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read from world state: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("the asset %s %w", id, ErrNotFound)
	}
	return data, nil
}

func (p *Passport) putRecord(key string, v interface{}) error {
	b, err := canonical.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := p.stub.PutState(key, b); err != nil {
		return fmt.Errorf("failed to put %s to world state: %w", key, err)
	}
	return nil
}

func (p *Passport) readProduct(id string) (*Product, error) {
	data, err := p.readRaw(id)
	if err != nil {
		return nil, err
	}
	var prod Product
	if err := json.Unmarshal(data, &prod); err != nil || prod.DocType != DocTypeProduct {
		return nil, fmt.Errorf("the product %s %w", id, ErrNotFound)
	}
	prod.normalize()
	return &prod, nil
}

func (p *Passport) putProduct(prod *Product) error {
	prod.DocType = DocTypeProduct
	prod.normalize()
	if err := checkAccessLists(prod); err != nil {
		return err
	}
	return p.putRecord(prod.ID, prod)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func without(list []string, drop func(string) bool) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

// checkAccessLists guards the pending/approved sets before a product write:
// no duplicates in either list and no identity in both.
func checkAccessLists(prod *Product) error {
	seen := make(map[string]bool, len(prod.ApprovedEntities))
	for _, id := range prod.ApprovedEntities {
		if seen[id] {
			return fmt.Errorf("product %s lists %s as approved twice", prod.ID, id)
		}
		seen[id] = true
	}
	pending := make(map[string]bool, len(prod.ApprovalRequests))
	for _, id := range prod.ApprovalRequests {
		if pending[id] {
			return fmt.Errorf("product %s lists %s as pending twice", prod.ID, id)
		}
		if seen[id] {
			return fmt.Errorf("product %s lists %s as both pending and approved", prod.ID, id)
		}
		pending[id] = true
	}
	return nil
}
