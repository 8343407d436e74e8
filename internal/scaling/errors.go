package scaling

import (
	"errors"
	"fmt"
)

// Kind identifies a class of scaling failure. All kinds are caller input
// problems and map to a 400-class response at the API boundary.
type Kind string

const (
	KindInvalidGeometry      Kind = "InvalidGeometryError"
	KindInvalidVolume        Kind = "InvalidVolumeError"
	KindInvalidInput         Kind = "InvalidInputError"
	KindUnresolvable         Kind = "UnresolvableScalingError"
	KindInvalidConstraint    Kind = "InvalidConstraintError"
	KindNoMatchingIngredient Kind = "NoMatchingIngredientError"
	KindNestingTooDeep       Kind = "NestingTooDeepError"
)

// Sentinels for errors.Is checks.
var (
	ErrInvalidGeometry      = &Error{Kind: KindInvalidGeometry}
	ErrInvalidVolume        = &Error{Kind: KindInvalidVolume}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrUnresolvable         = &Error{Kind: KindUnresolvable}
	ErrInvalidConstraint    = &Error{Kind: KindInvalidConstraint}
	ErrNoMatchingIngredient = &Error{Kind: KindNoMatchingIngredient}
	ErrNestingTooDeep       = &Error{Kind: KindNestingTooDeep}
)

// Error is returned by every operation in this package.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewError lets callers outside the engine report input problems in the
// same taxonomy.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return newError(kind, format, args...)
}

// AsError extracts a scaling error from err, if there is one.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
