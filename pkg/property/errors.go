// ABOUTME: Sentinel errors for property tree contract violations
// ABOUTME: Every mutating call returns one of these wrapped with context

package property

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue indicates a payload that fails its type's validity check
	ErrInvalidValue = errors.New("property: invalid value")

	// ErrUnknownType indicates an unrecognised value type tag
	ErrUnknownType = errors.New("property: unknown value type")

	// ErrTypeMismatch indicates a value whose type differs from the array's declared type
	ErrTypeMismatch = errors.New("property: type mismatch")

	// ErrNameMismatch indicates an array registered under a foreign name or parent
	ErrNameMismatch = errors.New("property: name mismatch")

	// ErrIndexOutOfRange indicates an index with no property behind it
	ErrIndexOutOfRange = errors.New("property: index out of range")

	// ErrDetached indicates a tree-requiring operation on a detached set
	ErrDetached = errors.New("property: set is not attached to a tree")

	// ErrDuplicateArray indicates a second array registered under an existing name
	ErrDuplicateArray = errors.New("property: array already exists")

	// ErrSetInUse indicates a set that already has a container property or is a tree root
	ErrSetInUse = errors.New("property: set already in use")

	// ErrForeignTree indicates a set that belongs to a different tree
	ErrForeignTree = errors.New("property: set belongs to another tree")

	// ErrNotPropertySet indicates a path step through a non-composite property
	ErrNotPropertySet = errors.New("property: not a property set")
)

// ValueError reports a payload rejected by a value type
type ValueError struct {
	Type    ValueType
	Payload any
	Reason  string
}

func (e *ValueError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("property: invalid %s value: %v", e.Type, e.Payload)
	}
	return fmt.Sprintf("property: invalid %s value %v: %s", e.Type, e.Payload, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidValue
func (e *ValueError) Unwrap() error {
	return ErrInvalidValue
}
