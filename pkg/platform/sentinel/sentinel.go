package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Transports and ledger backends
// return these (optionally wrapped) so the service can classify outcomes
// without depending on a concrete provider.
//
// - ErrNotConfigured: credentials or endpoint for a collaborator are absent
// - ErrTimeout: the call exceeded its deadline
// - ErrUnavailable: the remote service refused or could not be reached
// - ErrRejected: the remote service answered but refused the request
var (
	ErrNotConfigured = errors.New("not configured")
	ErrTimeout       = errors.New("timeout")
	ErrUnavailable   = errors.New("unavailable")
	ErrRejected      = errors.New("rejected")
)
