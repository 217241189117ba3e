// ABOUTME: Codec abstraction over the property tree wire form
// ABOUTME: Codecs are looked up by name for the CLI and the diagnostic server

package wire

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nainya/proptree/pkg/property"
)

// Codec encodes and decodes whole trees
type Codec interface {
	Name() string
	Encode(tree *property.PropertyTree) ([]byte, error)
	Decode(data []byte) (*property.PropertyTree, error)
}

var codecs = map[string]Codec{
	"json":  JSONCodec{Indent: true},
	"yaml":  YAMLCodec{},
	"proto": ProtoCodec{},
}

// Lookup returns the codec registered under name
func Lookup(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownCodec, name, Names())
	}
	return c, nil
}

// Names lists the registered codec names in sorted order
func Names() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForFile picks a codec from a file extension, defaulting to JSON
func ForFile(filename string) Codec {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return codecs["yaml"]
	case ".pb", ".bin":
		return codecs["proto"]
	}
	return codecs["json"]
}
