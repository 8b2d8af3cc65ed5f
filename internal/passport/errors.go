package passport

import "errors"

// Error kinds surfaced to the caller. Operations wrap them with context, so
// match with errors.Is.
var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("does not exist")
	ErrPermissionDenied   = errors.New("access denied")
	ErrAlreadyRequested   = errors.New("access request already submitted")
	ErrAlreadyApproved    = errors.New("already has access to the data")
	ErrNoPendingRequests  = errors.New("no pending access requests")
	ErrNoEligibleRequests = errors.New("no access requests from other organizations")
	ErrRequestNotFound    = errors.New("the specified request ID is not found")
	ErrAlreadyRecycled    = errors.New("already recycled")
	ErrInvalidArgument    = errors.New("invalid argument")
)
