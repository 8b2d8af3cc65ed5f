package passport

import (
	"encoding/json"
	"fmt"

	"github.com/ffa6995/fabric-digital-product-passport/internal/canonical"
	"github.com/ffa6995/fabric-digital-product-passport/internal/contenthash"
)

// --------------------------- Private materials --------------------------- //

// StorePrivateMaterial writes the canonical form of m to the private
// collection under its content hash and returns the hash. Storing the same
// material twice hits the same slot with the same bytes.
func (p *Passport) StorePrivateMaterial(m Material) (string, error) {
	b, err := canonical.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode material %s: %w", m.ID, err)
	}
	hash := contenthash.Bytes(b)
	if err := p.stub.PutPrivateData(p.collection, hash, b); err != nil {
		return "", fmt.Errorf("failed to put material %s to collection %s: %w", m.ID, p.collection, err)
	}
	return hash, nil
}

// PrivateMaterial resolves a content hash against the private collection.
// No access check is made here.
func (p *Passport) PrivateMaterial(hash string) (*Material, error) {
	if !contenthash.Valid(hash) {
		return nil, fmt.Errorf("%q is not a material reference: %w", hash, ErrInvalidArgument)
	}
	data, err := p.stub.GetPrivateData(p.collection, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read from collection %s: %w", p.collection, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("private material %s %w in collection %s", hash, ErrNotFound, p.collection)
	}
	var m Material
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode private material %s: %w", hash, err)
	}
	return &m, nil
}

// ReadPrivateMaterials returns the full material records of a product, in
// the product's material order. Only the manufacturer and approved entities
// may read them.
func (p *Passport) ReadPrivateMaterials(productID, caller string) ([]*Material, error) {
	prod, err := p.readProduct(productID)
	if err != nil {
		return nil, err
	}
	if !prod.CanRead(caller) {
		return nil, fmt.Errorf("%w: caller %q does not have permission to read materials of product %s", ErrPermissionDenied, caller, productID)
	}

	materials := make([]*Material, 0, len(prod.Materials))
	for _, hash := range prod.Materials {
		m, err := p.PrivateMaterial(hash)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	p.log.Debug().Str("product", productID).Str("caller", caller).Int("materials", len(materials)).Msg("private materials read")
	return materials, nil
}
