package passport

import "fmt"

// --------------------------- Recycling --------------------------- //

// RecycleAndOffer marks the product recycled and re-registers each of its
// materials as a new recycled material sold by caller, with id
// <material id>RECYCLED. The original private records and the product's
// references to them are left as they are. It returns the ids of the new
// materials.
func (p *Passport) RecycleAndOffer(productID, caller string) ([]string, error) {
	prod, err := p.readProduct(productID)
	if err != nil {
		return nil, err
	}
	if !prod.CanRead(caller) {
		return nil, fmt.Errorf("%w: caller %q does not have permission to recycle product %s", ErrPermissionDenied, caller, productID)
	}
	if prod.Recycled {
		return nil, fmt.Errorf("the product %s is %w", productID, ErrAlreadyRecycled)
	}

	prod.Recycled = true
	offered := make([]string, 0, len(prod.Materials))
	seen := make(map[string]bool, len(prod.Materials))
	for _, hash := range prod.Materials {
		orig, err := p.PrivateMaterial(hash)
		if err != nil {
			return nil, err
		}

		derived := *orig
		derived.DocType = DocTypeMaterial
		derived.ID = orig.ID + RecycledSuffix
		derived.Seller = caller
		derived.Recycled = true

		// Exists only sees committed state, so repeats within this
		// transaction are caught here.
		if seen[derived.ID] {
			return nil, fmt.Errorf("the material %s %w, product %s lists %s twice", derived.ID, ErrAlreadyExists, productID, orig.ID)
		}
		seen[derived.ID] = true
		if err := p.RegisterMaterial(derived.ID, derived.MaterialName, derived.Producer, derived.AppraisedValue, derived.Seller, derived.Recycled); err != nil {
			return nil, err
		}
		if _, err := p.StorePrivateMaterial(derived); err != nil {
			return nil, err
		}
		offered = append(offered, derived.ID)
	}

	if err := p.putProduct(prod); err != nil {
		return nil, err
	}
	p.log.Info().Str("product", productID).Strs("offered", offered).Msg("product recycled")
	return offered, nil
}
