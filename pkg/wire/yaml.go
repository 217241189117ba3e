// ABOUTME: YAML codec for property trees
// ABOUTME: Same document shape as the JSON wire form, written as YAML

package wire

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/nainya/proptree/pkg/property"
)

// YAMLCodec reads and writes the wire form as YAML
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Encode(tree *property.PropertyTree) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tree.ToJSON()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode accepts any YAML document of the wire shape. Plain scalars are
// converted by each value type, so unquoted numbers and booleans work.
func (YAMLCodec) Decode(data []byte) (*property.PropertyTree, error) {
	var arrays []property.PropertyArrayJSON
	if err := yaml.Unmarshal(data, &arrays); err != nil {
		return nil, err
	}
	return property.FromJSON(arrays)
}
