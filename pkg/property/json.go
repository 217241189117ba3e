// ABOUTME: JSON wire form of property trees: ordered arrays of typed values
// ABOUTME: Scalars travel as {"v": ...}, nested sets as {"set": [...]}

package property

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PropertyArrayJSON is the wire form of one PropertyArray
type PropertyArrayJSON struct {
	Name   string              `json:"name" yaml:"name" jsonschema:"required"`
	Type   string              `json:"type" yaml:"type" jsonschema:"required"`
	Values []PropertyValueJSON `json:"values" yaml:"values"`
}

// PropertyValueJSON is the wire form of one property value. Set is non-nil
// only for non-null composite values.
type PropertyValueJSON struct {
	V   any                 `json:"v,omitempty" yaml:"v,omitempty"`
	Set []PropertyArrayJSON `json:"set,omitempty" yaml:"set,omitempty"`
}

// MarshalJSON writes {"set": [...]} for composite values and {"v": ...}
// otherwise, keeping an explicit null.
func (j PropertyValueJSON) MarshalJSON() ([]byte, error) {
	if j.Set != nil {
		return json.Marshal(struct {
			Set []PropertyArrayJSON `json:"set"`
		}{j.Set})
	}
	return json.Marshal(struct {
		V any `json:"v"`
	}{j.V})
}

// MarshalYAML mirrors MarshalJSON
func (j PropertyValueJSON) MarshalYAML() (any, error) {
	if j.Set != nil {
		return map[string]any{"set": j.Set}, nil
	}
	return map[string]any{"v": j.V}, nil
}

// ToJSON serializes the tree depth-first
func (t *PropertyTree) ToJSON() []PropertyArrayJSON {
	return t.root.ToJSON()
}

// ToJSON serializes every array in insertion order
func (s *PropertySet) ToJSON() []PropertyArrayJSON {
	out := make([]PropertyArrayJSON, 0, len(s.names))
	for _, a := range s.PropertyArrays() {
		out = append(out, a.ToJSON())
	}
	return out
}

// ToJSON serializes the array and its members
func (a *PropertyArray) ToJSON() PropertyArrayJSON {
	values := make([]PropertyValueJSON, len(a.props))
	for i, p := range a.props {
		if set, ok := p.GetPropertySet(); ok {
			values[i] = PropertyValueJSON{Set: set.ToJSON()}
			continue
		}
		values[i] = PropertyValueJSON{V: p.value.ToJSON()}
	}
	return PropertyArrayJSON{Name: a.name, Type: a.typ.String(), Values: values}
}

// FromJSON builds a tree from its wire form. Arrays without values are
// skipped since a set never holds an empty array.
func FromJSON(arrays []PropertyArrayJSON) (*PropertyTree, error) {
	t := NewTree()
	for _, aj := range arrays {
		a, err := ArrayFromJSON(aj, t.root)
		if err != nil {
			return nil, err
		}
		if a.IsEmpty() {
			continue
		}
		if err := t.root.AddPropertyArray(a); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ArrayFromJSON rebuilds an array under parent. Indexes follow positions
// and nested sets are wired into parent's tree. The array still has to be
// registered with parent.AddPropertyArray.
func ArrayFromJSON(aj PropertyArrayJSON, parent *PropertySet) (*PropertyArray, error) {
	t, err := ParseValueType(aj.Type)
	if err != nil {
		return nil, fmt.Errorf("array %q: %w", aj.Name, err)
	}
	a, err := NewPropertyArray(parent, aj.Name, t)
	if err != nil {
		return nil, err
	}
	for i, vj := range aj.Values {
		v, err := valueFromJSON(t, vj, parent)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", aj.Name, i, err)
		}
		if _, err := a.Add(v); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", aj.Name, i, err)
		}
	}
	return a, nil
}

func valueFromJSON(t ValueType, vj PropertyValueJSON, parent *PropertySet) (Value, error) {
	if t != TypeData {
		return t.FromJSONValue(vj.V)
	}
	if vj.Set == nil {
		return NullValue(TypeData), nil
	}
	nested := newSet(parent.tree)
	for _, child := range vj.Set {
		ca, err := ArrayFromJSON(child, nested)
		if err != nil {
			return Value{}, err
		}
		if ca.IsEmpty() {
			continue
		}
		if err := nested.AddPropertyArray(ca); err != nil {
			return Value{}, err
		}
	}
	return DataValue(nested), nil
}

// MarshalJSON encodes the tree's wire form
func (t *PropertyTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToJSON())
}

// UnmarshalJSON replaces the tree's content with the decoded wire form.
// Numbers are decoded exactly so that large longs survive. A zero-value
// tree gets its root set here.
func (t *PropertyTree) UnmarshalJSON(data []byte) error {
	arrays, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	decoded, err := FromJSON(arrays)
	if err != nil {
		return err
	}
	if t.root == nil {
		t.root = newSet(t)
	}
	for _, a := range t.root.PropertyArrays() {
		a.removeAll()
	}
	for _, a := range decoded.root.PropertyArrays() {
		if err := t.root.AddPropertyArray(a.Copy(t.root)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeJSON parses wire-form JSON without losing integer precision
func DecodeJSON(data []byte) ([]PropertyArrayJSON, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var arrays []PropertyArrayJSON
	if err := dec.Decode(&arrays); err != nil {
		return nil, err
	}
	return arrays, nil
}
