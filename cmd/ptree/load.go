package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nainya/proptree/pkg/property"
	"github.com/nainya/proptree/pkg/version"
	"github.com/nainya/proptree/pkg/wire"
)

// stdio is the file name that stands for stdin or stdout
const stdio = "-"

// codecFor picks the named codec, or one matching the file extension
func codecFor(name, file string) (wire.Codec, error) {
	if name != "" {
		return wire.Lookup(name)
	}
	if file == stdio {
		return wire.Lookup("json")
	}
	return wire.ForFile(file), nil
}

// readTree decodes file with codec, recording metrics and logging the call
func (a *app) readTree(in io.Reader, file string, codec wire.Codec) (*property.PropertyTree, error) {
	var (
		data []byte
		err  error
	)
	if file == stdio {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	start := time.Now()
	tree, err := codec.Decode(data)
	duration := time.Since(start)
	a.metrics.RecordCodec(codec.Name(), "decode", duration, err)
	a.log.CodecLogger(codec.Name()).LogCodec(codec.Name(), "decode", duration, len(data), err)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}

	a.metrics.UpdateTreeStats(tree)
	return tree, nil
}

// loadTree reads a tree using the codec implied by the file name
func (a *app) loadTree(in io.Reader, file string) (*property.PropertyTree, error) {
	codec, err := codecFor("", file)
	if err != nil {
		return nil, err
	}
	return a.readTree(in, file, codec)
}

// writeTree encodes tree with codec into file, or out for "-"
func (a *app) writeTree(out io.Writer, file string, codec wire.Codec, tree *property.PropertyTree) error {
	start := time.Now()
	data, err := codec.Encode(tree)
	duration := time.Since(start)
	a.metrics.RecordCodec(codec.Name(), "encode", duration, err)
	a.log.CodecLogger(codec.Name()).LogCodec(codec.Name(), "encode", duration, len(data), err)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if file == "" || file == stdio {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}

// buildStore loads each file as one version, timestamped with the file's
// modification time and tagged with its base name
func (a *app) buildStore(files []string) (*version.Store, error) {
	store := version.NewStore()
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, err
		}
		tree, err := a.loadTree(nil, file)
		if err != nil {
			return nil, err
		}
		v, err := store.Create(tree, version.CreateOptions{
			At:          info.ModTime(),
			Description: file,
			Tags:        []string{filepath.Base(file)},
			Metadata:    map[string]string{"codec": wire.ForFile(file).Name()},
		})
		if err != nil {
			return nil, err
		}
		a.log.Debug("Version loaded").
			Str("version", v.ID).
			Str("file", file).
			Int("properties", v.Size()).
			Send()
	}
	return store, nil
}
