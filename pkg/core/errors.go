package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrContextUnavailable = errors.New("context unavailable")
	ErrStateNotAccessed   = errors.New("state not accessed")
	ErrNoCurrentProject   = errors.New("no current project")
	ErrNotFound           = errors.New("record not found")
)

// ValueNotOfTypeError reports a document value that cannot be converted.
type ValueNotOfTypeError struct {
	Expected string
}

func (e *ValueNotOfTypeError) Error() string {
	return fmt.Sprintf("value not of type '%s'", e.Expected)
}

// PropertyNotFoundError reports a required document field that is absent.
type PropertyNotFoundError struct {
	Name string
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("property '%s' not found", e.Name)
}

// StoreFailToCreateError is returned when the engine produced no row where one
// was expected.
type StoreFailToCreateError struct {
	Cause string
}

func (e *StoreFailToCreateError) Error() string {
	return fmt.Sprintf("fail to create: %s", e.Cause)
}

// IsValueNotOfType reports whether err carries a ValueNotOfTypeError.
func IsValueNotOfType(err error) bool {
	var target *ValueNotOfTypeError
	return errors.As(err, &target)
}

// IsPropertyNotFound reports whether err carries a PropertyNotFoundError.
func IsPropertyNotFound(err error) bool {
	var target *PropertyNotFoundError
	return errors.As(err, &target)
}
