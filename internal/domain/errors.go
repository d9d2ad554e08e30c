package domain

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrDuplicateApplication = errors.New("already applied for this scheme")
	ErrInvalidTransition    = errors.New("application is no longer pending")
	ErrStore                = errors.New("store unavailable")
	ErrTimeout              = errors.New("store request timed out")
)

// Transient reports whether an error may succeed on retry. Typed domain
// errors are deterministic and must never be retried.
func Transient(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrDuplicateApplication),
		errors.Is(err, ErrInvalidTransition):
		return false
	}
	return true
}
