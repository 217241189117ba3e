// ABOUTME: JSON codec for property trees
// ABOUTME: Uses the tree's own wire form with optional indentation

package wire

import (
	"encoding/json"

	"github.com/nainya/proptree/pkg/property"
)

// JSONCodec reads and writes the JSON wire form
type JSONCodec struct {
	Indent bool
}

func (JSONCodec) Name() string { return "json" }

func (c JSONCodec) Encode(tree *property.PropertyTree) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(tree.ToJSON(), "", "  ")
	}
	return json.Marshal(tree.ToJSON())
}

func (JSONCodec) Decode(data []byte) (*property.PropertyTree, error) {
	arrays, err := property.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return property.FromJSON(arrays)
}
