package util

import "errors"

// Error taxonomy shared by every service. Services wrap these with context
// (fmt.Errorf("%w: ...", ErrConflict)) and RespondError unwraps them.
var (
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)
