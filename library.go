package patchbay

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// PortTemplate is the blueprint for one port on a template. The ID is a short
// stable key ("value", "a", "uv"); instantiation suffixes it with the node's
// creation timestamp to keep port ids unique across clones.
type PortTemplate struct {
	ID    string   `toml:"id"`
	Name  string   `toml:"name"`
	Type  PortType `toml:"type"`
	Value float64  `toml:"value"`
}

// PropertyTemplate is a named default carried by a template. Properties do
// not appear on the canvas; they seed the object-properties projection the
// host derives after structural changes.
type PropertyTemplate struct {
	Name  string  `toml:"name"`
	Value float64 `toml:"value"`
}

// Template is an immutable blueprint used to instantiate a Node with fresh
// ids. Type doubles as the library key.
type Template struct {
	Type       string             `toml:"type"`
	Title      string             `toml:"title"`
	Color      Color              `toml:"color"`
	Inputs     []PortTemplate     `toml:"inputs"`
	Outputs    []PortTemplate     `toml:"outputs"`
	Properties []PropertyTemplate `toml:"properties"`
}

// valid reports whether the template has the fields instantiation requires.
// Malformed catalog entries are skipped rather than rejected wholesale.
func (t Template) valid() bool {
	return t.Type != "" && t.Title != ""
}

// UnmarshalText parses a "#rrggbb" or "#rrggbbaa" hex color, the format the
// TOML catalogs use. Alpha defaults to opaque.
func (c *Color) UnmarshalText(b []byte) error {
	s := string(b)
	if len(s) != 7 && len(s) != 9 || s[0] != '#' {
		return fmt.Errorf("patchbay: invalid color %q, want #rrggbb or #rrggbbaa", s)
	}
	var r, g, bb uint8
	if _, err := fmt.Sscanf(s[1:7], "%02x%02x%02x", &r, &g, &bb); err != nil {
		return fmt.Errorf("patchbay: invalid color %q: %w", s, err)
	}
	a := uint8(0xff)
	if len(s) == 9 {
		if _, err := fmt.Sscanf(s[7:9], "%02x", &a); err != nil {
			return fmt.Errorf("patchbay: invalid color %q: %w", s, err)
		}
	}
	*c = Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(bb) / 255, A: float64(a) / 255}
	return nil
}

// Library is a read-only catalog of node templates keyed by type string.
// The zero value is an empty library; use DefaultLibrary for the built-in
// catalog.
type Library struct {
	templates map[string]Template
}

// NewLibrary builds a library from the given templates. Malformed entries
// (missing type or title) are dropped. Later entries with the same type win.
func NewLibrary(templates ...Template) Library {
	m := make(map[string]Template, len(templates))
	for _, t := range templates {
		if !t.valid() {
			continue
		}
		m[t.Type] = t
	}
	return Library{templates: m}
}

// Template returns the template registered under key. The second result is
// false for unknown keys; callers treat that as a recoverable "node type not
// found" and mutate nothing.
func (l Library) Template(key string) (Template, bool) {
	t, ok := l.templates[key]
	return t, ok
}

// Len returns the number of registered templates.
func (l Library) Len() int {
	return len(l.templates)
}

// Keys returns the registered template keys in unspecified order.
func (l Library) Keys() []string {
	keys := make([]string, 0, len(l.templates))
	for k := range l.templates {
		keys = append(keys, k)
	}
	return keys
}

// Merge returns a new library containing l's templates overlaid with other's.
// Neither input is modified.
func (l Library) Merge(other Library) Library {
	m := make(map[string]Template, len(l.templates)+len(other.templates))
	for k, t := range l.templates {
		m[k] = t
	}
	for k, t := range other.templates {
		m[k] = t
	}
	return Library{templates: m}
}

// catalogFile is the on-disk TOML shape: a list of [[template]] tables.
type catalogFile struct {
	Templates []Template `toml:"template"`
}

// LoadLibrary reads a TOML template catalog from r. Malformed entries are
// skipped; a syntactically invalid document is an error.
func LoadLibrary(r io.Reader) (Library, error) {
	var file catalogFile
	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return Library{}, fmt.Errorf("patchbay: parsing template catalog: %w", err)
	}
	return NewLibrary(file.Templates...), nil
}

// LoadLibraryFile reads a TOML template catalog from path.
func LoadLibraryFile(path string) (Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return Library{}, fmt.Errorf("patchbay: opening template catalog: %w", err)
	}
	defer f.Close()
	return LoadLibrary(f)
}

// DefaultLibrary returns the built-in catalog: constant inputs, scalar and
// vector math, texture sampling, and the single material output sink.
func DefaultLibrary() Library {
	inputColor := Color{R: 0.24, G: 0.49, B: 0.32, A: 1}
	mathColor := Color{R: 0.27, G: 0.38, B: 0.56, A: 1}
	textureColor := Color{R: 0.45, G: 0.33, B: 0.55, A: 1}
	outputColor := Color{R: 0.58, G: 0.29, B: 0.26, A: 1}

	return NewLibrary(
		Template{
			Type:  "float-constant",
			Title: "Float",
			Color: inputColor,
			Outputs: []PortTemplate{
				{ID: "value", Name: "Value", Type: PortFloat},
			},
			Properties: []PropertyTemplate{{Name: "value", Value: 0}},
		},
		Template{
			Type:  "color-constant",
			Title: "Color",
			Color: inputColor,
			Outputs: []PortTemplate{
				{ID: "color", Name: "Color", Type: PortColor},
			},
		},
		Template{
			Type:  "vector2-constant",
			Title: "Vector2",
			Color: inputColor,
			Outputs: []PortTemplate{
				{ID: "vector", Name: "Vector", Type: PortVector2},
			},
			Properties: []PropertyTemplate{{Name: "x"}, {Name: "y"}},
		},
		Template{
			Type:  "vector3-constant",
			Title: "Vector3",
			Color: inputColor,
			Outputs: []PortTemplate{
				{ID: "vector", Name: "Vector", Type: PortVector3},
			},
			Properties: []PropertyTemplate{{Name: "x"}, {Name: "y"}, {Name: "z"}},
		},
		Template{
			Type:  "time",
			Title: "Time",
			Color: inputColor,
			Outputs: []PortTemplate{
				{ID: "seconds", Name: "Seconds", Type: PortFloat},
			},
		},
		Template{
			Type:  "uv-coordinate",
			Title: "UV",
			Color: textureColor,
			Outputs: []PortTemplate{
				{ID: "uv", Name: "UV", Type: PortVector2},
			},
		},
		Template{
			Type:  "texture-sample",
			Title: "Texture Sample",
			Color: textureColor,
			Inputs: []PortTemplate{
				{ID: "texture", Name: "Texture", Type: PortTexture},
				{ID: "uv", Name: "UV", Type: PortVector2},
			},
			Outputs: []PortTemplate{
				{ID: "color", Name: "Color", Type: PortColor},
				{ID: "alpha", Name: "Alpha", Type: PortFloat},
			},
		},
		Template{
			Type:  "add",
			Title: "Add",
			Color: mathColor,
			Inputs: []PortTemplate{
				{ID: "a", Name: "A", Type: PortFloat},
				{ID: "b", Name: "B", Type: PortFloat},
			},
			Outputs: []PortTemplate{
				{ID: "result", Name: "Result", Type: PortFloat},
			},
		},
		Template{
			Type:  "multiply",
			Title: "Multiply",
			Color: mathColor,
			Inputs: []PortTemplate{
				{ID: "a", Name: "A", Type: PortFloat},
				{ID: "b", Name: "B", Type: PortFloat, Value: 1},
			},
			Outputs: []PortTemplate{
				{ID: "result", Name: "Result", Type: PortFloat},
			},
		},
		Template{
			Type:  "mix",
			Title: "Mix",
			Color: mathColor,
			Inputs: []PortTemplate{
				{ID: "a", Name: "A", Type: PortFloat},
				{ID: "b", Name: "B", Type: PortFloat},
				{ID: "factor", Name: "Factor", Type: PortFloat, Value: 0.5},
			},
			Outputs: []PortTemplate{
				{ID: "result", Name: "Result", Type: PortFloat},
			},
		},
		Template{
			Type:  "clamp",
			Title: "Clamp",
			Color: mathColor,
			Inputs: []PortTemplate{
				{ID: "value", Name: "Value", Type: PortFloat},
				{ID: "min", Name: "Min", Type: PortFloat},
				{ID: "max", Name: "Max", Type: PortFloat, Value: 1},
			},
			Outputs: []PortTemplate{
				{ID: "result", Name: "Result", Type: PortFloat},
			},
		},
		Template{
			Type:  "dot-product",
			Title: "Dot Product",
			Color: mathColor,
			Inputs: []PortTemplate{
				{ID: "a", Name: "A", Type: PortVector3},
				{ID: "b", Name: "B", Type: PortVector3},
			},
			Outputs: []PortTemplate{
				{ID: "result", Name: "Result", Type: PortFloat},
			},
		},
		Template{
			Type:  "split-vector",
			Title: "Split Vector",
			Color: mathColor,
			Inputs: []PortTemplate{
				{ID: "vector", Name: "Vector", Type: PortVector3},
			},
			Outputs: []PortTemplate{
				{ID: "x", Name: "X", Type: PortFloat},
				{ID: "y", Name: "Y", Type: PortFloat},
				{ID: "z", Name: "Z", Type: PortFloat},
			},
		},
		Template{
			Type:  "material-output",
			Title: "Material Output",
			Color: outputColor,
			Inputs: []PortTemplate{
				{ID: "base-color", Name: "Base Color", Type: PortColor},
				{ID: "metallic", Name: "Metallic", Type: PortFloat},
				{ID: "roughness", Name: "Roughness", Type: PortFloat, Value: 0.5},
				{ID: "normal", Name: "Normal", Type: PortVector3},
				{ID: "emission", Name: "Emission", Type: PortColor},
			},
		},
	)
}
