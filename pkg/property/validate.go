// ABOUTME: Structural consistency checks over a whole tree
// ABOUTME: Every violation found is reported, combined with multierr

package property

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInconsistent marks a structural violation found by Validate
var ErrInconsistent = errors.New("property: inconsistent tree")

// Validate walks the tree and reports every broken structural invariant:
// dense indexes, homogeneous names and types, back-references, no empty
// registered arrays, and nested sets attached to this tree.
func (t *PropertyTree) Validate() error {
	if t.root.property != nil {
		return fmt.Errorf("%w: root set has a container property", ErrInconsistent)
	}
	return validateSet(t.root, t)
}

func validateSet(s *PropertySet, tree *PropertyTree) error {
	var err error
	if s.tree != tree {
		err = multierr.Append(err, fmt.Errorf("%w: set below %s is not attached to the tree", ErrInconsistent, setLocation(s)))
	}
	for name, a := range s.arrays {
		err = multierr.Append(err, validateArray(name, a, s, tree))
	}
	return err
}

func validateArray(name string, a *PropertyArray, s *PropertySet, tree *PropertyTree) error {
	var err error
	where := setLocation(s) + name
	if a.name != name {
		err = multierr.Append(err, fmt.Errorf("%w: array %q registered as %q", ErrInconsistent, a.name, where))
	}
	if a.parent != s || !a.registered {
		err = multierr.Append(err, fmt.Errorf("%w: array %s is not registered with its set", ErrInconsistent, where))
	}
	if a.IsEmpty() {
		err = multierr.Append(err, fmt.Errorf("%w: array %s is empty", ErrInconsistent, where))
	}
	for i, p := range a.props {
		if p.index != i {
			err = multierr.Append(err, fmt.Errorf("%w: %s[%d] has index %d", ErrInconsistent, where, i, p.index))
		}
		if p.name != a.name {
			err = multierr.Append(err, fmt.Errorf("%w: %s[%d] is named %q", ErrInconsistent, where, i, p.name))
		}
		if p.value.typ != a.typ {
			err = multierr.Append(err, fmt.Errorf("%w: %s[%d] is %s in a %s array", ErrInconsistent, where, i, p.value.typ, a.typ))
		}
		if p.array != a {
			err = multierr.Append(err, fmt.Errorf("%w: %s[%d] points at another array", ErrInconsistent, where, i))
		}
		if set, ok := p.value.AsPropertySet(); ok {
			if set.property != p {
				err = multierr.Append(err, fmt.Errorf("%w: set at %s[%d] has the wrong container", ErrInconsistent, where, i))
			}
			err = multierr.Append(err, validateSet(set, tree))
		}
	}
	return err
}

func setLocation(s *PropertySet) string {
	if s.property == nil {
		return "."
	}
	return s.property.Path().String() + "."
}
