package passport

import "fmt"

// --------------------------- Access requests --------------------------- //
//
// Per (product, requester) the relation is one of: none, pending (in
// ApprovalRequests) or approved (in ApprovedEntities). Denial drops a pending
// request back to none, so the requester may ask again.

// RequestAccess queues caller as a pending requester of the product's
// private material detail.
func (p *Passport) RequestAccess(productID, caller string) (string, error) {
	prod, err := p.readProduct(productID)
	if err != nil {
		return "", err
	}
	if caller == "" {
		return "", fmt.Errorf("%w: caller identity is empty", ErrPermissionDenied)
	}
	if caller == prod.Manufacturer {
		return "", fmt.Errorf("%w: the manufacturer cannot request access, it already has access", ErrPermissionDenied)
	}
	if contains(prod.ApprovedEntities, caller) {
		return "", fmt.Errorf("caller with id %s %w", caller, ErrAlreadyApproved)
	}
	if contains(prod.ApprovalRequests, caller) {
		return "", fmt.Errorf("%w by %s for product %s", ErrAlreadyRequested, caller, productID)
	}

	prod.ApprovalRequests = append(prod.ApprovalRequests, caller)
	if err := p.putProduct(prod); err != nil {
		return "", err
	}
	p.log.Info().Str("product", productID).Str("requester", caller).Msg("access requested")
	return "Access request submitted by " + caller, nil
}

// ApproveAllRequests moves every pending requester into the approved set.
// Only the manufacturer may approve.
func (p *Passport) ApproveAllRequests(productID, caller string) (string, error) {
	prod, err := p.readProduct(productID)
	if err != nil {
		return "", err
	}
	if caller == "" || caller != prod.Manufacturer {
		return "", fmt.Errorf("%w: only the manufacturer can approve access", ErrPermissionDenied)
	}
	if len(prod.ApprovalRequests) == 0 {
		return "", fmt.Errorf("product %s: %w", productID, ErrNoPendingRequests)
	}

	approved := without(prod.ApprovalRequests, func(id string) bool { return id == caller })
	if len(approved) == 0 {
		return "", fmt.Errorf("product %s: %w", productID, ErrNoEligibleRequests)
	}

	for _, id := range approved {
		if !contains(prod.ApprovedEntities, id) {
			prod.ApprovedEntities = append(prod.ApprovedEntities, id)
		}
	}
	prod.ApprovalRequests = without(prod.ApprovalRequests, func(id string) bool { return contains(approved, id) })
	if err := p.putProduct(prod); err != nil {
		return "", err
	}
	p.log.Info().Str("product", productID).Strs("approved", approved).Msg("access requests approved")
	return "Access requests approved", nil
}

// ApproveOrDenyRequest settles a single pending request of requesterID.
func (p *Passport) ApproveOrDenyRequest(productID, requesterID string, approve bool, caller string) (string, error) {
	prod, err := p.readProduct(productID)
	if err != nil {
		return "", err
	}
	if caller == "" || caller != prod.Manufacturer {
		return "", fmt.Errorf("%w: only the manufacturer can approve access", ErrPermissionDenied)
	}
	if !contains(prod.ApprovalRequests, requesterID) {
		return "", fmt.Errorf("%w: %s on product %s", ErrRequestNotFound, requesterID, productID)
	}

	prod.ApprovalRequests = without(prod.ApprovalRequests, func(id string) bool { return id == requesterID })
	if approve && !contains(prod.ApprovedEntities, requesterID) {
		prod.ApprovedEntities = append(prod.ApprovedEntities, requesterID)
	}
	if err := p.putProduct(prod); err != nil {
		return "", err
	}

	p.log.Info().Str("product", productID).Str("requester", requesterID).Bool("approved", approve).Msg("access request settled")
	if approve {
		return "Access request approved", nil
	}
	return "Access request declined", nil
}
