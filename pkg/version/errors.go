// ABOUTME: Error types for version history
// ABOUTME: Defines sentinel errors for lookups and id conflicts

package version

import "errors"

var (
	// ErrNotFound indicates no version matches the query
	ErrNotFound = errors.New("version: not found")

	// ErrDuplicateID indicates a version id that is already taken
	ErrDuplicateID = errors.New("version: duplicate id")

	// ErrNilTree indicates a snapshot request without a tree
	ErrNilTree = errors.New("version: nil tree")
)
