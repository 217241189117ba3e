// ABOUTME: A node of named property arrays, the unit of nesting in a tree
// ABOUTME: Handles lazy array creation, path resolution, attachment and copying

package property

import (
	"fmt"

	"github.com/nainya/proptree/pkg/path"
)

// PropertySet maps names to arrays. A set is either attached (it has a
// tree and is reachable from that tree's root) or detached.
type PropertySet struct {
	tree     *PropertyTree
	property *Property
	arrays   map[string]*PropertyArray
	names    []string

	skipNextNull bool

	listeners listeners
}

// NewPropertySet creates a detached, empty set
func NewPropertySet() *PropertySet {
	return newSet(nil)
}

func newSet(tree *PropertyTree) *PropertySet {
	return &PropertySet{tree: tree, arrays: make(map[string]*PropertyArray)}
}

// Tree returns the owning tree, nil when detached
func (s *PropertySet) Tree() *PropertyTree { return s.tree }

// IsDetached reports a set that belongs to no tree
func (s *PropertySet) IsDetached() bool { return s.tree == nil }

// Property returns the container property, nil for roots and loose sets
func (s *PropertySet) Property() *Property { return s.property }

// NewSet creates an empty set belonging to this set's tree
func (s *PropertySet) NewSet() (*PropertySet, error) {
	if s.tree == nil {
		return nil, ErrDetached
	}
	return newSet(s.tree), nil
}

// AddPropertyArray registers a pre-built array created with this set as
// parent and fires PropertyAdded for each of its members.
func (s *PropertySet) AddPropertyArray(a *PropertyArray) error {
	if a.parent != s {
		return fmt.Errorf("%w: array %q belongs to another set", ErrNameMismatch, a.name)
	}
	if a.Tree() != s.tree {
		return fmt.Errorf("%w: array %q", ErrForeignTree, a.name)
	}
	if _, exists := s.arrays[a.name]; exists || a.registered {
		return fmt.Errorf("%w: %q", ErrDuplicateArray, a.name)
	}
	s.registerArray(a)
	for _, p := range a.Properties() {
		if p.array == a {
			p.fire(Event{Kind: PropertyAdded, Property: p})
		}
	}
	return nil
}

func (s *PropertySet) registerArray(a *PropertyArray) {
	s.arrays[a.name] = a
	s.names = append(s.names, a.name)
	a.registered = true
}

func (s *PropertySet) unregisterArray(a *PropertyArray) {
	if s.arrays[a.name] != a {
		return
	}
	delete(s.arrays, a.name)
	for i, n := range s.names {
		if n == a.name {
			s.names = append(s.names[:i:i], s.names[i+1:]...)
			break
		}
	}
}

// GetPropertyArray returns the array for name, or nil
func (s *PropertySet) GetPropertyArray(name string) *PropertyArray {
	mustValidName(name)
	return s.arrays[name]
}

// FindPropertyArray is GetPropertyArray returning ErrInvalidName instead
// of panicking
func (s *PropertySet) FindPropertyArray(name string) (*PropertyArray, error) {
	if err := path.ValidateName(name); err != nil {
		return nil, err
	}
	return s.arrays[name], nil
}

// PropertyArrays returns the arrays in insertion order
func (s *PropertySet) PropertyArrays() []*PropertyArray {
	out := make([]*PropertyArray, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, s.arrays[n])
	}
	return out
}

// PropertyNames returns the array names in insertion order
func (s *PropertySet) PropertyNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Size counts the properties directly in this set
func (s *PropertySet) Size() int {
	n := 0
	for _, a := range s.arrays {
		n += a.Size()
	}
	return n
}

// SkipNextNullValue arms a one-shot filter: the next null value passed to
// AddProperty is dropped instead of stored.
func (s *PropertySet) SkipNextNullValue() {
	s.skipNextNull = true
}

// arrayFor returns the array for name, creating and registering it with
// type t when absent. created reports whether it was new.
func (s *PropertySet) arrayFor(name string, t ValueType) (a *PropertyArray, created bool, err error) {
	if a = s.arrays[name]; a != nil {
		return a, false, nil
	}
	a, err = NewPropertyArray(s, name, t)
	if err != nil {
		return nil, false, err
	}
	s.registerArray(a)
	return a, true, nil
}

func (s *PropertySet) discardIfEmpty(a *PropertyArray) {
	if a.IsEmpty() {
		s.unregisterArray(a)
		a.registered = false
	}
}

// AddProperty appends v to the array called name, creating the array with
// v's type on first use. It returns nil, nil when a one-shot null skip
// swallowed the value.
func (s *PropertySet) AddProperty(name string, v Value) (*Property, error) {
	if err := path.ValidateName(name); err != nil {
		return nil, err
	}
	if s.skipNextNull && v.IsNull() {
		s.skipNextNull = false
		return nil, nil
	}
	a, created, err := s.arrayFor(name, v.typ)
	if err != nil {
		return nil, err
	}
	p, err := a.Add(v)
	if err != nil && created {
		s.discardIfEmpty(a)
	}
	return p, err
}

// SetProperty sets name[index], creating the array on first use
func (s *PropertySet) SetProperty(name string, index int, v Value) (*Property, error) {
	if err := path.ValidateName(name); err != nil {
		return nil, err
	}
	a, created, err := s.arrayFor(name, v.typ)
	if err != nil {
		return nil, err
	}
	p, err := a.Set(index, v)
	if err != nil && created {
		s.discardIfEmpty(a)
	}
	return p, err
}

// SetPropertyByPath sets the property addressed by p, creating missing
// intermediate sets. Absolute paths resolve from the tree root.
func (s *PropertySet) SetPropertyByPath(p path.Path, v Value) (*Property, error) {
	if p.IsAbsolute() && s.tree != nil && s.tree.root != s {
		return s.tree.root.SetPropertyByPath(p, v)
	}
	first, ok := p.FirstElement()
	if !ok {
		return nil, fmt.Errorf("%w: empty path", path.ErrInvalidPath)
	}
	if p.Len() == 1 {
		return s.SetProperty(first.Name, first.Index, v)
	}

	child, err := s.childSet(first)
	if err != nil {
		return nil, err
	}
	return child.SetPropertyByPath(p.RemoveFirstElement(), v)
}

// childSet returns the set held at e, creating it when missing or null
func (s *PropertySet) childSet(e path.Element) (*PropertySet, error) {
	existing := s.GetProperty(e.Name, e.Index)
	if existing != nil {
		if set, ok := existing.GetPropertySet(); ok {
			return set, nil
		}
		if existing.Type() != TypeData {
			return nil, fmt.Errorf("%w: %s is %s", ErrNotPropertySet, existing.Path(), existing.Type())
		}
	}
	nested, err := s.NewSet()
	if err != nil {
		return nil, err
	}
	if _, err := s.SetProperty(e.Name, e.Index, DataValue(nested)); err != nil {
		return nil, err
	}
	return nested, nil
}

// SetPropertyByString parses ref as a path and calls SetPropertyByPath
func (s *PropertySet) SetPropertyByString(ref string, v Value) (*Property, error) {
	p, err := path.Parse(ref)
	if err != nil {
		return nil, err
	}
	return s.SetPropertyByPath(p, v)
}

// GetProperty returns name[index], or nil. An invalid name is a contract
// violation and panics; use FindProperty to get it as an error.
func (s *PropertySet) GetProperty(name string, index int) *Property {
	mustValidName(name)
	a := s.arrays[name]
	if a == nil {
		return nil
	}
	return a.Get(index)
}

// GetPropertyByPath resolves p from this set, or from the root if absolute
func (s *PropertySet) GetPropertyByPath(p path.Path) *Property {
	if p.IsAbsolute() && s.tree != nil && s.tree.root != s {
		return s.tree.root.GetPropertyByPath(p)
	}
	cur := s
	var found *Property
	for i := 0; i < p.Len(); i++ {
		if cur == nil {
			return nil
		}
		e := p.Element(i)
		found = cur.GetProperty(e.Name, e.Index)
		if found == nil {
			return nil
		}
		cur, _ = found.GetPropertySet()
	}
	return found
}

// FindProperty returns name[index], nil when absent, or ErrInvalidName
func (s *PropertySet) FindProperty(name string, index int) (*Property, error) {
	if err := path.ValidateName(name); err != nil {
		return nil, err
	}
	return s.GetProperty(name, index), nil
}

// Lookup resolves a path string such as "title" or "address.street[1]".
// An absent property gives nil; a malformed reference gives the parse error.
func (s *PropertySet) Lookup(ref string) (*Property, error) {
	p, err := path.Parse(ref)
	if err != nil {
		return nil, err
	}
	return s.GetPropertyByPath(p), nil
}

// mustLookup is Lookup for the typed getters, which treat a malformed
// reference as a contract violation
func (s *PropertySet) mustLookup(ref string) *Property {
	p, err := s.Lookup(ref)
	if err != nil {
		panic(fmt.Errorf("property: lookup %q: %w", ref, err))
	}
	return p
}

func mustValidName(name string) {
	if err := path.ValidateName(name); err != nil {
		panic(fmt.Errorf("property: lookup: %w", err))
	}
}

// RemoveProperty removes name[index] if the array exists. Emptied arrays
// are dropped from the set.
func (s *PropertySet) RemoveProperty(name string, index int) error {
	a := s.arrays[name]
	if a == nil {
		return nil
	}
	return a.Remove(index)
}

// RemoveProperties removes every property called name
func (s *PropertySet) RemoveProperties(name string) {
	if a := s.arrays[name]; a != nil {
		a.removeAll()
	}
}

// IsEmpty reports a set whose every property is null, "", false or an
// empty nested set.
func (s *PropertySet) IsEmpty() bool {
	for _, a := range s.arrays {
		for _, p := range a.props {
			if !p.value.isEmptyValue() {
				return false
			}
		}
	}
	return true
}

// Reset nulls every scalar value and resets nested sets
func (s *PropertySet) Reset() error {
	for _, a := range s.PropertyArrays() {
		for _, p := range a.Properties() {
			if err := p.Reset(); err != nil {
				return err
			}
		}
	}
	return nil
}

// AttachToTree assigns tree to this set and every nested set below it
func (s *PropertySet) AttachToTree(tree *PropertyTree) {
	s.tree = tree
	for _, a := range s.arrays {
		for _, p := range a.props {
			if set, ok := p.value.AsPropertySet(); ok {
				set.AttachToTree(tree)
			}
		}
	}
}

func (s *PropertySet) detachFromTree() {
	s.AttachToTree(nil)
}

// Copy deep-copies this set into a new set belonging to tree (which may be
// nil for a detached copy).
func (s *PropertySet) Copy(tree *PropertyTree) *PropertySet {
	c := newSet(tree)
	for _, a := range s.PropertyArrays() {
		c.registerArray(a.Copy(c))
	}
	return c
}

// Equals compares every array by name, type and values
func (s *PropertySet) Equals(other *PropertySet) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.arrays) != len(other.arrays) {
		return false
	}
	for name, a := range s.arrays {
		if !a.Equals(other.arrays[name]) {
			return false
		}
	}
	return true
}

// ForEach visits the direct properties, array by array, until fn returns false
func (s *PropertySet) ForEach(fn func(p *Property) bool) {
	for _, a := range s.PropertyArrays() {
		for _, p := range a.Properties() {
			if !fn(p) {
				return
			}
		}
	}
}

// Walk visits every property depth-first, parents before their nested
// properties, until fn returns false.
func (s *PropertySet) Walk(fn func(p *Property) bool) {
	s.walk(fn)
}

func (s *PropertySet) walk(fn func(p *Property) bool) bool {
	for _, a := range s.PropertyArrays() {
		for _, p := range a.Properties() {
			if !fn(p) {
				return false
			}
			if set, ok := p.GetPropertySet(); ok {
				if !set.walk(fn) {
					return false
				}
			}
		}
	}
	return true
}

// AddPropertySet appends a composite property. A nil set adds a new empty
// set from this set's tree.
func (s *PropertySet) AddPropertySet(name string, set *PropertySet) (*Property, error) {
	if s.tree == nil {
		return nil, ErrDetached
	}
	if set == nil {
		set = newSet(s.tree)
	}
	return s.AddProperty(name, DataValue(set))
}

// SetPropertySet sets a composite property at ref
func (s *PropertySet) SetPropertySet(ref string, set *PropertySet) (*Property, error) {
	return s.SetPropertyByString(ref, DataValue(set))
}

// GetPropertySet returns the set held at ref
func (s *PropertySet) GetPropertySet(ref string) (*PropertySet, bool) {
	return getAs[*PropertySet](s, ref, TypeData)
}

// GetPropertySets returns every non-null set called name
func (s *PropertySet) GetPropertySets(name string) []*PropertySet {
	return getAllAs[*PropertySet](s, name, TypeData)
}

// OnChanged registers a listener for every event in or below this set
func (s *PropertySet) OnChanged(fn Listener) *Subscription {
	return s.listeners.add(0, fn)
}

func (s *PropertySet) OnPropertyAdded(fn Listener) *Subscription {
	return s.listeners.add(PropertyAdded, fn)
}

func (s *PropertySet) OnPropertyRemoved(fn Listener) *Subscription {
	return s.listeners.add(PropertyRemoved, fn)
}

func (s *PropertySet) OnPropertyIndexChanged(fn Listener) *Subscription {
	return s.listeners.add(PropertyIndexChanged, fn)
}

func (s *PropertySet) OnPropertyValueChanged(fn Listener) *Subscription {
	return s.listeners.add(PropertyValueChanged, fn)
}

// forward dispatches to this set's listeners, then to the container
// property's array, or to the tree when this is the root.
func (s *PropertySet) forward(ev Event) {
	s.listeners.dispatch(ev)
	switch {
	case s.property != nil:
		if a := s.property.array; a != nil {
			a.forward(ev)
		}
	case s.tree != nil && s.tree.root == s:
		s.tree.listeners.dispatch(ev)
	}
}
