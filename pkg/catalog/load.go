package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/satforge/pkg/geom"
	"gopkg.in/yaml.v3"
)

// File is the YAML document describing a set of part types.
//
//	types:
//	  - name: mainframe
//	    glyph: "#"
//	    connectors:
//	      - {x: 0, y: 0, dir: down}
type File struct {
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec is one part type in a catalog file.
type TypeSpec struct {
	Name       string          `yaml:"name"`
	Glyph      string          `yaml:"glyph,omitempty"` // one glyph, or four (one per rotation)
	Connectors []ConnectorSpec `yaml:"connectors"`
}

// ConnectorSpec is one connector in a catalog file.
type ConnectorSpec struct {
	X   int    `yaml:"x"`
	Y   int    `yaml:"y"`
	Dir string `yaml:"dir"`
}

// Validate checks the type spec without registering anything.
func (ts TypeSpec) Validate() error {
	if ts.Name == "" {
		return errors.New("part type has no name")
	}
	if n := len([]rune(ts.Glyph)); n != 0 && n != 1 && n != 4 {
		return fmt.Errorf("part type %q: glyph must be 1 or 4 characters, got %d", ts.Name, n)
	}
	for i, cs := range ts.Connectors {
		if _, err := geom.ParseDirection(cs.Dir); err != nil {
			return fmt.Errorf("part type %q: connector %d: %w", ts.Name, i, err)
		}
	}
	return nil
}

// Build converts the type spec into a PartType.
func (ts TypeSpec) Build() (*PartType, error) {
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	sigs := make([]Signature, 0, len(ts.Connectors))
	for _, cs := range ts.Connectors {
		dir, _ := geom.ParseDirection(cs.Dir)
		sigs = append(sigs, Signature{X: cs.X, Y: cs.Y, Direction: dir})
	}
	return NewPartType(ts.Name, []rune(ts.Glyph), sigs...)
}

// LoadYAML decodes a catalog document from r and registers every type in
// it into c. Nothing is registered if any type is invalid or collides.
func (c *Catalog) LoadYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("cannot unmarshal catalog YAML: %w", err)
	}

	built := make([]*PartType, 0, len(f.Types))
	seen := make(map[string]bool, len(f.Types))
	for _, ts := range f.Types {
		pt, err := ts.Build()
		if err != nil {
			return err
		}
		if seen[pt.Name] {
			return &DuplicateTypeError{Name: pt.Name}
		}
		if _, ok := c.types[pt.Name]; ok {
			return &DuplicateTypeError{Name: pt.Name}
		}
		seen[pt.Name] = true
		built = append(built, pt)
	}

	for _, pt := range built {
		if err := c.Register(pt); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads a YAML catalog file into a new Catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c := New()
	if err := c.LoadYAML(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}
