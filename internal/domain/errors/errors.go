package errors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrMissingJustification = errors.New("missing justification")
	ErrConflictingWrite     = errors.New("conflicting write")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("forbidden")
	ErrInvariantViolation   = errors.New("invariant violation")
)

// Code returns a stable machine-readable identifier for a domain error.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrMissingJustification):
		return "missing_justification"
	case errors.Is(err, ErrConflictingWrite):
		return "conflicting_write"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	default:
		return "internal"
	}
}

// IsDomain reports whether err belongs to the client-correctable taxonomy.
func IsDomain(err error) bool {
	return Code(err) != "internal"
}
