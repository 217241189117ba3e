// ABOUTME: Root entry point owning the root property set
// ABOUTME: Receives every event fired anywhere below it

package property

import (
	"github.com/nainya/proptree/pkg/path"
)

// PropertyTree owns one root set whose container property is always nil
type PropertyTree struct {
	root      *PropertySet
	listeners listeners
}

// NewTree creates an empty tree
func NewTree() *PropertyTree {
	t := &PropertyTree{}
	t.root = newSet(t)
	return t
}

// NewTreeFromSet creates a tree whose root is a deep copy of set
func NewTreeFromSet(set *PropertySet) *PropertyTree {
	t := &PropertyTree{}
	t.root = set.Copy(t)
	return t
}

// Root returns the root set
func (t *PropertyTree) Root() *PropertySet { return t.root }

// Copy returns a new tree with a deep copy of the root set
func (t *PropertyTree) Copy() *PropertyTree {
	return NewTreeFromSet(t.root)
}

// Diff compares this tree to other; see PropertySet.Diff
func (t *PropertyTree) Diff(other *PropertyTree) Difference {
	return t.root.Diff(other.root)
}

// Equals compares the root sets structurally
func (t *PropertyTree) Equals(other *PropertyTree) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.root.Equals(other.root)
}

// Size counts every property in the tree, nested ones included
func (t *PropertyTree) Size() int {
	n := 0
	t.root.Walk(func(*Property) bool {
		n++
		return true
	})
	return n
}

// Walk visits every property depth-first
func (t *PropertyTree) Walk(fn func(p *Property) bool) { t.root.Walk(fn) }

// OnChanged registers a listener receiving every event in the tree
func (t *PropertyTree) OnChanged(fn Listener) *Subscription {
	return t.listeners.add(0, fn)
}

func (t *PropertyTree) OnPropertyAdded(fn Listener) *Subscription {
	return t.listeners.add(PropertyAdded, fn)
}

func (t *PropertyTree) OnPropertyRemoved(fn Listener) *Subscription {
	return t.listeners.add(PropertyRemoved, fn)
}

func (t *PropertyTree) OnPropertyIndexChanged(fn Listener) *Subscription {
	return t.listeners.add(PropertyIndexChanged, fn)
}

func (t *PropertyTree) OnPropertyValueChanged(fn Listener) *Subscription {
	return t.listeners.add(PropertyValueChanged, fn)
}

func (t *PropertyTree) NewSet() *PropertySet {
	return newSet(t)
}

func (t *PropertyTree) AddProperty(name string, v Value) (*Property, error) {
	return t.root.AddProperty(name, v)
}

func (t *PropertyTree) SetProperty(name string, index int, v Value) (*Property, error) {
	return t.root.SetProperty(name, index, v)
}

func (t *PropertyTree) SetPropertyByPath(p path.Path, v Value) (*Property, error) {
	return t.root.SetPropertyByPath(p, v)
}

func (t *PropertyTree) SetPropertyByString(ref string, v Value) (*Property, error) {
	return t.root.SetPropertyByString(ref, v)
}

func (t *PropertyTree) GetProperty(name string, index int) *Property {
	return t.root.GetProperty(name, index)
}

func (t *PropertyTree) GetPropertyByPath(p path.Path) *Property {
	return t.root.GetPropertyByPath(p)
}

func (t *PropertyTree) FindProperty(name string, index int) (*Property, error) {
	return t.root.FindProperty(name, index)
}

func (t *PropertyTree) Lookup(ref string) (*Property, error) {
	return t.root.Lookup(ref)
}

func (t *PropertyTree) GetPropertyArray(name string) *PropertyArray {
	return t.root.GetPropertyArray(name)
}

func (t *PropertyTree) FindPropertyArray(name string) (*PropertyArray, error) {
	return t.root.FindPropertyArray(name)
}

func (t *PropertyTree) RemoveProperty(name string, index int) error {
	return t.root.RemoveProperty(name, index)
}

func (t *PropertyTree) RemoveProperties(name string) {
	t.root.RemoveProperties(name)
}

func (t *PropertyTree) AddPropertySet(name string, set *PropertySet) (*Property, error) {
	return t.root.AddPropertySet(name, set)
}

func (t *PropertyTree) SetPropertySet(ref string, set *PropertySet) (*Property, error) {
	return t.root.SetPropertySet(ref, set)
}

func (t *PropertyTree) GetPropertySet(ref string) (*PropertySet, bool) {
	return t.root.GetPropertySet(ref)
}

func (t *PropertyTree) GetPropertySets(name string) []*PropertySet {
	return t.root.GetPropertySets(name)
}
