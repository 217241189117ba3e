// ABOUTME: Ordered, homogeneous sequence of same-named properties
// ABOUTME: Keeps indexes dense and forwards member events to the owning set

package property

import (
	"fmt"

	"github.com/nainya/proptree/pkg/path"
)

// PropertyArray holds every occurrence of one name within a PropertySet
type PropertyArray struct {
	name   string
	typ    ValueType
	parent *PropertySet
	props  []*Property

	// registered is true while the parent set maps name to this array
	registered bool

	listeners listeners
}

// NewPropertyArray creates an empty array owned by parent. It is not
// visible through parent until passed to parent.AddPropertyArray.
func NewPropertyArray(parent *PropertySet, name string, t ValueType) (*PropertyArray, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: array %q has no parent set", ErrNameMismatch, name)
	}
	if err := path.ValidateName(name); err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	return &PropertyArray{name: name, typ: t, parent: parent}, nil
}

// Name returns the shared property name
func (a *PropertyArray) Name() string { return a.name }

// Type returns the declared value type
func (a *PropertyArray) Type() ValueType { return a.typ }

// Parent returns the owning set
func (a *PropertyArray) Parent() *PropertySet { return a.parent }

// Tree returns the owning tree, nil when the parent set is detached
func (a *PropertyArray) Tree() *PropertyTree {
	if a.parent == nil {
		return nil
	}
	return a.parent.tree
}

// Size returns the number of properties
func (a *PropertyArray) Size() int { return len(a.props) }

// IsEmpty reports an array with no properties
func (a *PropertyArray) IsEmpty() bool { return len(a.props) == 0 }

// Get returns the property at index, or nil
func (a *PropertyArray) Get(index int) *Property {
	if index < 0 || index >= len(a.props) {
		return nil
	}
	return a.props[index]
}

// GetValue returns the value at index
func (a *PropertyArray) GetValue(index int) (Value, bool) {
	p := a.Get(index)
	if p == nil {
		return Value{}, false
	}
	return p.value, true
}

// Properties returns the members in index order
func (a *PropertyArray) Properties() []*Property {
	out := make([]*Property, len(a.props))
	copy(out, a.props)
	return out
}

// Values returns every member's value in index order
func (a *PropertyArray) Values() []Value {
	out := make([]Value, len(a.props))
	for i, p := range a.props {
		out[i] = p.value
	}
	return out
}

// ForEach visits members in index order until fn returns false
func (a *PropertyArray) ForEach(fn func(p *Property) bool) {
	for _, p := range a.Properties() {
		if !fn(p) {
			return
		}
	}
}

func (a *PropertyArray) checkType(v Value) error {
	if v.typ != a.typ {
		return fmt.Errorf("%w: array %q is %s, got %s", ErrTypeMismatch, a.name, a.typ, v.typ)
	}
	return nil
}

// Add appends a property holding v
func (a *PropertyArray) Add(v Value) (*Property, error) {
	if err := a.checkType(v); err != nil {
		return nil, err
	}
	if set, ok := v.AsPropertySet(); ok {
		pending := &Property{name: a.name, index: len(a.props), array: a}
		if err := pending.checkPlaceable(set); err != nil {
			return nil, err
		}
	}

	p := a.appendProperty(v)
	p.fire(Event{Kind: PropertyAdded, Property: p})
	return p, nil
}

// appendProperty places v at the end without type checks or events
func (a *PropertyArray) appendProperty(v Value) *Property {
	p := &Property{name: a.name, index: len(a.props), value: v, array: a}
	a.props = append(a.props, p)
	if set, ok := v.AsPropertySet(); ok {
		p.adopt(set)
	}
	return p
}

// Set replaces the value at index. When no property exists at index the
// value is appended and receives index Size(), not the requested index.
func (a *PropertyArray) Set(index int, v Value) (*Property, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, a.name, index)
	}
	if err := a.checkType(v); err != nil {
		return nil, err
	}
	if existing := a.Get(index); existing != nil {
		if err := existing.SetValue(v); err != nil {
			return nil, err
		}
		return existing, nil
	}
	return a.Add(v)
}

// Remove deletes the property at index. Later properties shift down. An
// array left empty is dropped from its parent set before events fire.
func (a *PropertyArray) Remove(index int) error {
	removed := a.Get(index)
	if removed == nil {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, a.name, index)
	}

	a.props = append(a.props[:index:index], a.props[index+1:]...)
	shifted := make([]indexChange, 0, len(a.props)-index)
	for _, p := range a.props[index:] {
		shifted = append(shifted, indexChange{p: p, old: p.index})
		p.setIndex(p.index - 1)
	}
	dropped := a.dropIfEmpty()

	removed.fire(Event{Kind: PropertyRemoved, Property: removed})
	a.fireIndexChanges(shifted)
	if dropped {
		a.registered = false
	}
	removed.detach()
	return nil
}

// removeAll drops every property, used when a whole name is removed
func (a *PropertyArray) removeAll() {
	removed := a.props
	a.props = nil
	dropped := a.dropIfEmpty()
	for _, p := range removed {
		p.fire(Event{Kind: PropertyRemoved, Property: p})
	}
	if dropped {
		a.registered = false
	}
	for _, p := range removed {
		p.detach()
	}
}

func (a *PropertyArray) dropIfEmpty() bool {
	if len(a.props) > 0 || !a.registered || a.parent == nil {
		return false
	}
	a.parent.unregisterArray(a)
	return true
}

// Move repositions the property at from to to. Every property whose index
// changes fires PropertyIndexChanged.
func (a *PropertyArray) Move(from, to int) error {
	moving := a.Get(from)
	if moving == nil {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, a.name, from)
	}
	if to < 0 || to >= len(a.props) {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, a.name, to)
	}
	if from == to {
		return nil
	}

	a.props = append(a.props[:from:from], a.props[from+1:]...)
	a.props = append(a.props[:to], append([]*Property{moving}, a.props[to:]...)...)

	var changes []indexChange
	for i, p := range a.props {
		if p.index != i {
			changes = append(changes, indexChange{p: p, old: p.index})
			p.setIndex(i)
		}
	}
	a.fireIndexChanges(changes)
	return nil
}

type indexChange struct {
	p   *Property
	old int
}

// fireIndexChanges reports each property's index as it is at dispatch
// time, so a listener that edits the array never sees a stale NewIndex.
// Properties that left the array or are back at their old index stay quiet.
func (a *PropertyArray) fireIndexChanges(changes []indexChange) {
	for _, c := range changes {
		if c.p.array != a || c.p.index == c.old {
			continue
		}
		c.p.fire(Event{Kind: PropertyIndexChanged, Property: c.p, OldIndex: c.old, NewIndex: c.p.index})
	}
}

// ConvertValues re-declares the array type and converts every member
// whose value is of another type. Nothing changes unless every member
// converts to a valid value of type to.
func (a *PropertyArray) ConvertValues(to ValueType, convert Converter) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownType, to)
	}
	if convert == nil {
		convert = ConvertValue
	}
	props := a.Properties()
	converted := make([]Value, len(props))
	for i, p := range props {
		if p.value.typ == to {
			converted[i] = p.value
			continue
		}
		v := convert(p.value, to)
		if v.typ != to {
			return fmt.Errorf("convert %s: %w: got %s, want %s", p.Path(), ErrTypeMismatch, v.typ, to)
		}
		if !v.IsNull() && !to.IsValid(v.data) {
			return fmt.Errorf("convert %s: %w", p.Path(), &ValueError{Type: to, Payload: v.data})
		}
		if set, _ := v.AsPropertySet(); set != nil {
			if err := p.checkPlaceable(set); err != nil {
				return fmt.Errorf("convert %s: %w", p.Path(), err)
			}
		}
		converted[i] = v
	}

	a.typ = to
	for i, p := range props {
		if p.value.typ == to {
			continue
		}
		if err := p.SetValue(converted[i]); err != nil {
			return fmt.Errorf("convert %s: %w", p.Path(), err)
		}
	}
	return nil
}

// Copy builds a detached copy of this array under dest, deep-copying
// nested sets into dest's tree. Register it with dest.AddPropertyArray.
func (a *PropertyArray) Copy(dest *PropertySet) *PropertyArray {
	c := &PropertyArray{name: a.name, typ: a.typ, parent: dest}
	for _, p := range a.props {
		p.copyTo(c)
	}
	return c
}

// Equals compares name, type and every member value in order
func (a *PropertyArray) Equals(other *PropertyArray) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	if a.name != other.name || a.typ != other.typ || len(a.props) != len(other.props) {
		return false
	}
	for i, p := range a.props {
		if !p.Equals(other.props[i]) {
			return false
		}
	}
	return true
}

// OnPropertyAdded registers a listener for additions to this array or below it
func (a *PropertyArray) OnPropertyAdded(fn Listener) *Subscription {
	return a.listeners.add(PropertyAdded, fn)
}

// OnPropertyRemoved registers a listener for removals from this array or below it
func (a *PropertyArray) OnPropertyRemoved(fn Listener) *Subscription {
	return a.listeners.add(PropertyRemoved, fn)
}

// OnPropertyIndexChanged registers a listener for moves in this array or below it
func (a *PropertyArray) OnPropertyIndexChanged(fn Listener) *Subscription {
	return a.listeners.add(PropertyIndexChanged, fn)
}

// OnPropertyValueChanged registers a listener for value changes in this array or below it
func (a *PropertyArray) OnPropertyValueChanged(fn Listener) *Subscription {
	return a.listeners.add(PropertyValueChanged, fn)
}

// forward passes an event from a member (or a set below one) upward
func (a *PropertyArray) forward(ev Event) {
	a.listeners.dispatch(ev)
	if a.registered && a.parent != nil {
		a.parent.forward(ev)
	}
}

func (a *PropertyArray) String() string {
	return fmt.Sprintf("%s(%s)[%d]", a.name, a.typ, len(a.props))
}
