// ABOUTME: Protobuf codec for property trees built on structpb
// ABOUTME: The wire form is carried as a google.protobuf.ListValue

package wire

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nainya/proptree/pkg/property"
)

// ProtoCodec writes the wire form as a binary google.protobuf.ListValue.
// Long values travel as decimal strings so that 64-bit precision survives
// the double-only number type of structpb.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return "proto" }

func (ProtoCodec) Encode(tree *property.PropertyTree) ([]byte, error) {
	list, err := ToProto(tree.ToJSON())
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(list)
}

func (ProtoCodec) Decode(data []byte) (*property.PropertyTree, error) {
	list := &structpb.ListValue{}
	if err := proto.Unmarshal(data, list); err != nil {
		return nil, err
	}
	arrays, err := FromProto(list)
	if err != nil {
		return nil, err
	}
	return property.FromJSON(arrays)
}

// ToProto converts the wire form into a structpb list
func ToProto(arrays []property.PropertyArrayJSON) (*structpb.ListValue, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(arrays))}
	for _, a := range arrays {
		values := make([]*structpb.Value, 0, len(a.Values))
		for i, v := range a.Values {
			pv, err := valueToProto(a.Type, v)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", a.Name, i, err)
			}
			values = append(values, pv)
		}
		list.Values = append(list.Values, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"name":   structpb.NewStringValue(a.Name),
				"type":   structpb.NewStringValue(a.Type),
				"values": structpb.NewListValue(&structpb.ListValue{Values: values}),
			},
		}))
	}
	return list, nil
}

func valueToProto(typ string, v property.PropertyValueJSON) (*structpb.Value, error) {
	if v.Set != nil {
		nested, err := ToProto(v.Set)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{"set": structpb.NewListValue(nested)},
		}), nil
	}

	payload := v.V
	if n, ok := payload.(int64); ok && typ == property.TypeLong.String() {
		payload = fmt.Sprint(n)
	}
	pv, err := structpb.NewValue(payload)
	if err != nil {
		return nil, err
	}
	return structpb.NewStructValue(&structpb.Struct{
		Fields: map[string]*structpb.Value{"v": pv},
	}), nil
}

// FromProto converts a structpb list back into the wire form
func FromProto(list *structpb.ListValue) ([]property.PropertyArrayJSON, error) {
	arrays := make([]property.PropertyArrayJSON, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		s := item.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrMalformed, i)
		}
		a := property.PropertyArrayJSON{
			Name: s.GetFields()["name"].GetStringValue(),
			Type: s.GetFields()["type"].GetStringValue(),
		}
		for j, pv := range s.GetFields()["values"].GetListValue().GetValues() {
			v, err := valueFromProto(pv)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", a.Name, j, err)
			}
			a.Values = append(a.Values, v)
		}
		arrays = append(arrays, a)
	}
	return arrays, nil
}

func valueFromProto(pv *structpb.Value) (property.PropertyValueJSON, error) {
	fields := pv.GetStructValue().GetFields()
	if set, ok := fields["set"]; ok {
		nested, err := FromProto(set.GetListValue())
		if err != nil {
			return property.PropertyValueJSON{}, err
		}
		return property.PropertyValueJSON{Set: nested}, nil
	}
	v, ok := fields["v"]
	if !ok {
		return property.PropertyValueJSON{}, fmt.Errorf("%w: value has neither v nor set", ErrMalformed)
	}
	return property.PropertyValueJSON{V: v.AsInterface()}, nil
}
