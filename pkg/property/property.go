// ABOUTME: A named, indexed holder of exactly one value
// ABOUTME: Properties are created by arrays and fire value and index events

package property

import (
	"fmt"
	"time"

	"github.com/nainya/proptree/pkg/path"
)

// Property is one occurrence in a PropertyArray
type Property struct {
	name  string
	index int
	value Value
	array *PropertyArray

	listeners listeners
}

// Name returns the property name, shared with its array
func (p *Property) Name() string { return p.name }

// Index returns the position in the owning array
func (p *Property) Index() int { return p.index }

// Value returns the current value
func (p *Property) Value() Value { return p.value }

// Type returns the type of the current value
func (p *Property) Type() ValueType { return p.value.typ }

// Array returns the owning array, nil once detached
func (p *Property) Array() *PropertyArray { return p.array }

// Parent returns the set owning this property's array
func (p *Property) Parent() *PropertySet {
	if p.array == nil {
		return nil
	}
	return p.array.parent
}

// PathElement returns name[index]
func (p *Property) PathElement() path.Element {
	return path.Element{Name: p.name, Index: p.index}
}

// Path returns the absolute path from the outermost reachable set
func (p *Property) Path() path.Path {
	var elems []path.Element
	for cur := p; cur != nil; {
		elems = append(elems, cur.PathElement())
		parent := cur.Parent()
		if parent == nil {
			break
		}
		cur = parent.property
	}
	for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
		elems[i], elems[j] = elems[j], elems[i]
	}
	return path.FromParent(path.Root, elems...)
}

// IsNull reports a null value
func (p *Property) IsNull() bool { return p.value.IsNull() }

// HasNonNullValue reports a non-null value
func (p *Property) HasNonNullValue() bool { return !p.value.IsNull() }

// Tree returns the owning tree, nil when detached
func (p *Property) Tree() *PropertyTree {
	if parent := p.Parent(); parent != nil {
		return parent.tree
	}
	return nil
}

// SetValue replaces the value, firing PropertyValueChanged when it differs
func (p *Property) SetValue(v Value) error {
	return p.setValue(v, false)
}

// SetValueForce replaces the value and always fires PropertyValueChanged
func (p *Property) SetValueForce(v Value) error {
	return p.setValue(v, true)
}

func (p *Property) setValue(v Value, force bool) error {
	if !v.typ.Valid() {
		return fmt.Errorf("%w: value has no type", ErrInvalidValue)
	}
	if p.array != nil && v.typ != p.array.typ {
		return fmt.Errorf("%w: %s expects %s, got %s", ErrTypeMismatch, p.array.name, p.array.typ, v.typ)
	}

	old := p.value
	oldSet, _ := old.AsPropertySet()
	newSet, _ := v.AsPropertySet()
	if newSet != nil && newSet != oldSet {
		if err := p.checkPlaceable(newSet); err != nil {
			return err
		}
	}

	if oldSet != nil && oldSet != newSet {
		oldSet.property = nil
		oldSet.detachFromTree()
	}
	p.value = v
	if newSet != nil {
		p.adopt(newSet)
	}

	if force || !old.Equal(v) {
		p.fire(Event{Kind: PropertyValueChanged, Property: p, OldValue: old, NewValue: v})
	}
	return nil
}

// checkPlaceable verifies that set may become this property's value
func (p *Property) checkPlaceable(set *PropertySet) error {
	if set.property != nil && set.property != p {
		return fmt.Errorf("%w: set already held by %s", ErrSetInUse, set.property.Path())
	}
	if set.tree != nil && set.tree.root == set {
		return fmt.Errorf("%w: set is the root of a tree", ErrSetInUse)
	}
	if set.tree != nil && set.tree != p.Tree() {
		return ErrForeignTree
	}
	for cur := p.Parent(); cur != nil; cur = cur.property.Parent() {
		if cur == set {
			return fmt.Errorf("%w: set would contain itself", ErrSetInUse)
		}
		if cur.property == nil {
			break
		}
	}
	return nil
}

// adopt wires set under this property and into the property's tree
func (p *Property) adopt(set *PropertySet) {
	set.property = p
	if tree := p.Tree(); tree != nil {
		set.AttachToTree(tree)
	}
}

// setIndex is used by the owning array while re-indexing
func (p *Property) setIndex(n int) {
	p.index = n
}

// detach severs the property from its array and any nested set
func (p *Property) detach() {
	if set, ok := p.value.AsPropertySet(); ok {
		set.property = nil
		set.detachFromTree()
	}
	p.listeners.clear()
	p.array = nil
}

// copyTo deep-copies composite values into the destination's tree; scalar
// payloads are immutable and shared.
func (p *Property) copyTo(dest *PropertyArray) *Property {
	v := p.value
	if set, ok := v.AsPropertySet(); ok {
		v = DataValue(set.Copy(dest.Tree()))
	}
	return dest.appendProperty(v)
}

// Reset recursively resets a nested set, or nulls a scalar value
func (p *Property) Reset() error {
	if set, ok := p.value.AsPropertySet(); ok {
		return set.Reset()
	}
	return p.SetValue(p.value.typ.NewNullValue())
}

// Equals compares name, index and value
func (p *Property) Equals(other *Property) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil {
		return false
	}
	return p.name == other.name && p.index == other.index && p.value.Equal(other.value)
}

// OnValueChanged registers a listener for this property's value changes
func (p *Property) OnValueChanged(fn Listener) *Subscription {
	return p.listeners.add(PropertyValueChanged, fn)
}

// OnIndexChanged registers a listener for this property's index changes
func (p *Property) OnIndexChanged(fn Listener) *Subscription {
	return p.listeners.add(PropertyIndexChanged, fn)
}

// fire notifies this property's listeners, then forwards up the tree
func (p *Property) fire(ev Event) {
	ev.Path = p.Path()
	p.listeners.dispatch(ev)
	if p.array != nil {
		p.array.forward(ev)
	}
}

func (p *Property) String() string {
	return p.Path().String() + " = " + p.value.String()
}

func (p *Property) GetString() (string, bool)                   { return p.value.AsString() }
func (p *Property) GetLong() (int64, bool)                      { return p.value.AsLong() }
func (p *Property) GetDouble() (float64, bool)                  { return p.value.AsDouble() }
func (p *Property) GetBoolean() (bool, bool)                    { return p.value.AsBoolean() }
func (p *Property) GetReference() (Reference, bool)             { return p.value.AsReference() }
func (p *Property) GetBinaryReference() (BinaryReference, bool) { return p.value.AsBinaryReference() }
func (p *Property) GetGeoPoint() (GeoPoint, bool)               { return p.value.AsGeoPoint() }
func (p *Property) GetLocalDate() (LocalDate, bool)             { return p.value.AsLocalDate() }
func (p *Property) GetLocalTime() (LocalTime, bool)             { return p.value.AsLocalTime() }
func (p *Property) GetLocalDateTime() (LocalDateTime, bool)     { return p.value.AsLocalDateTime() }
func (p *Property) GetInstant() (time.Time, bool)               { return p.value.AsInstant() }
func (p *Property) GetLink() (Link, bool)                       { return p.value.AsLink() }
func (p *Property) GetPropertySet() (*PropertySet, bool)        { return p.value.AsPropertySet() }
