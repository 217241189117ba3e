// ABOUTME: JSON Schema describing the property tree wire form
// ABOUTME: Reflected from the wire structs, with the value type tags as an enum

package wire

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/stoewer/go-strcase"

	"github.com/nainya/proptree/pkg/property"
)

// Schema reflects the JSON Schema of a serialized tree
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Namer: func(t reflect.Type) string {
			return strcase.SnakeCase(t.Name())
		},
		AllowAdditionalProperties: false,
	}
	s := r.Reflect(&[]property.PropertyArrayJSON{})
	s.Title = "Property tree"
	s.Description = "Ordered property arrays; scalars are {\"v\": value}, nested sets are {\"set\": [...]}"

	tags := make([]any, 0, len(property.AllValueTypes()))
	for _, t := range property.AllValueTypes() {
		tags = append(tags, t.String())
	}
	for _, def := range s.Definitions {
		if def.Properties == nil {
			continue
		}
		if _, ok := def.Properties.Get("values"); !ok {
			continue
		}
		if typ, ok := def.Properties.Get("type"); ok {
			typ.Enum = tags
		}
	}
	return s
}

// SchemaJSON renders Schema as indented JSON
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
