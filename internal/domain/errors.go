package domain

import "errors"

// Sentinel errors shared by all layers. Repositories and use cases wrap
// these with fmt.Errorf("%w: ...") to attach the offending resource id;
// the delivery layer matches them with errors.Is to pick an HTTP status.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrForbidden         = errors.New("not authorized")
	ErrUnauthorized      = errors.New("authentication required")
	ErrInvalidState      = errors.New("operation not permitted in current state")
	ErrAlreadyExists     = errors.New("already exists")
	ErrConflict          = errors.New("concurrent update conflict")
)
