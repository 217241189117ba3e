// ABOUTME: Sentinel errors for property path parsing
// ABOUTME: Callers match them with errors.Is

package path

import "errors"

var (
	// ErrInvalidName indicates a blank name or one containing '.', '[' or ']'
	ErrInvalidName = errors.New("path: invalid element name")

	// ErrInvalidIndex indicates a negative or malformed element index
	ErrInvalidIndex = errors.New("path: invalid element index")

	// ErrInvalidPath indicates a path string that cannot be parsed
	ErrInvalidPath = errors.New("path: invalid path")
)
