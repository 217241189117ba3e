// ABOUTME: Version history data model
// ABOUTME: A version is an immutable, timestamped snapshot of a property tree

package version

import (
	"time"

	"github.com/nainya/proptree/pkg/property"
)

// Version represents one tree snapshot
type Version struct {
	ID          string    // Version identifier (caller supplied or v1, v2, ...)
	CreatedAt   time.Time // Snapshot time
	CreatedBy   string    // User/system that created the version
	Description string    // Changelog entry
	Tags        []string  // Version tags (e.g., "latest", "stable", "draft")
	Metadata    map[string]string

	tree *property.PropertyTree
}

// Tree returns a private copy of the snapshot
func (v *Version) Tree() *property.PropertyTree {
	return v.tree.Copy()
}

// Size counts the properties in the snapshot
func (v *Version) Size() int {
	return v.tree.Size()
}

// HasTag reports whether the version carries tag
func (v *Version) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CreateOptions describes a new version
type CreateOptions struct {
	ID          string    // Empty assigns the next sequence id
	At          time.Time // Zero uses the store clock
	CreatedBy   string
	Description string
	Tags        []string
	Metadata    map[string]string
}
