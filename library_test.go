package patchbay

import (
	"strings"
	"testing"
)

func TestDefaultLibraryLookup(t *testing.T) {
	lib := DefaultLibrary()
	tpl, ok := lib.Template("add")
	if !ok {
		t.Fatal("add template missing from default library")
	}
	if tpl.Title != "Add" || len(tpl.Inputs) != 2 || len(tpl.Outputs) != 1 {
		t.Errorf("add template = %+v", tpl)
	}

	if _, ok := lib.Template("nope"); ok {
		t.Error("unknown key reported found")
	}
	if lib.Len() == 0 {
		t.Error("default library is empty")
	}
}

func TestDefaultLibraryMaterialOutput(t *testing.T) {
	lib := DefaultLibrary()
	tpl, ok := lib.Template("material-output")
	if !ok {
		t.Fatal("material-output template missing")
	}
	if len(tpl.Outputs) != 0 {
		t.Error("material-output is a sink; it must have no outputs")
	}
	found := false
	for _, p := range tpl.Inputs {
		if p.ID == "roughness" {
			found = true
			if p.Value != 0.5 {
				t.Errorf("roughness default = %f, want 0.5", p.Value)
			}
		}
	}
	if !found {
		t.Error("material-output has no roughness input")
	}
}

func TestNewLibraryDropsMalformed(t *testing.T) {
	lib := NewLibrary(
		Template{Type: "good", Title: "Good"},
		Template{Type: "", Title: "No Key"},
		Template{Type: "untitled"},
	)
	if lib.Len() != 1 {
		t.Errorf("library size = %d, want 1", lib.Len())
	}
	if _, ok := lib.Template("untitled"); ok {
		t.Error("template without a title survived")
	}
}

func TestNewLibraryLaterEntryWins(t *testing.T) {
	lib := NewLibrary(
		Template{Type: "k", Title: "First"},
		Template{Type: "k", Title: "Second"},
	)
	tpl, _ := lib.Template("k")
	if tpl.Title != "Second" {
		t.Errorf("title = %q, want Second", tpl.Title)
	}
}

func TestLibraryMerge(t *testing.T) {
	base := NewLibrary(
		Template{Type: "a", Title: "Base A"},
		Template{Type: "b", Title: "Base B"},
	)
	overlay := NewLibrary(
		Template{Type: "b", Title: "Overlay B"},
		Template{Type: "c", Title: "Overlay C"},
	)

	merged := base.Merge(overlay)
	if merged.Len() != 3 {
		t.Errorf("merged size = %d, want 3", merged.Len())
	}
	if tpl, _ := merged.Template("b"); tpl.Title != "Overlay B" {
		t.Errorf("overlay did not win: %q", tpl.Title)
	}
	// Inputs untouched.
	if tpl, _ := base.Template("b"); tpl.Title != "Base B" {
		t.Error("Merge mutated the receiver")
	}
}

const testCatalog = `
[[template]]
type = "noise"
title = "Noise"
color = "#8855cc"

[[template.inputs]]
id = "scale"
name = "Scale"
type = "float"
value = 1.0

[[template.outputs]]
id = "value"
name = "Value"
type = "float"

[[template]]
type = ""
title = "Malformed"
`

func TestLoadLibrary(t *testing.T) {
	lib, err := LoadLibrary(strings.NewReader(testCatalog))
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	if lib.Len() != 1 {
		t.Errorf("catalog size = %d, want 1 (malformed entry dropped)", lib.Len())
	}

	tpl, ok := lib.Template("noise")
	if !ok {
		t.Fatal("noise template missing")
	}
	if tpl.Inputs[0].ID != "scale" || tpl.Inputs[0].Value != 1.0 {
		t.Errorf("input = %+v", tpl.Inputs[0])
	}
	if tpl.Outputs[0].Type != PortFloat {
		t.Errorf("output type = %q, want float", tpl.Outputs[0].Type)
	}
	if !approxEqual(tpl.Color.R, 0x88/255.0, epsilon) || tpl.Color.A != 1 {
		t.Errorf("color = %+v", tpl.Color)
	}
}

func TestLoadLibraryBadSyntax(t *testing.T) {
	if _, err := LoadLibrary(strings.NewReader("[[template")); err == nil {
		t.Error("syntactically invalid catalog did not error")
	}
}

func TestColorUnmarshalText(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte("#ff8000")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if c.R != 1 || !approxEqual(c.G, 0x80/255.0, epsilon) || c.B != 0 || c.A != 1 {
		t.Errorf("color = %+v", c)
	}

	if err := c.UnmarshalText([]byte("#ff800080")); err != nil {
		t.Fatalf("UnmarshalText with alpha: %v", err)
	}
	if !approxEqual(c.A, 0x80/255.0, epsilon) {
		t.Errorf("alpha = %f", c.A)
	}

	for _, bad := range []string{"", "#fff", "ff8000", "#zzzzzz"} {
		if err := c.UnmarshalText([]byte(bad)); err == nil {
			t.Errorf("%q parsed without error", bad)
		}
	}
}

func TestStoreWithCustomLibrary(t *testing.T) {
	lib := NewLibrary(Template{
		Type:    "custom",
		Title:   "Custom",
		Outputs: []PortTemplate{{ID: "out", Name: "Out", Type: PortFloat}},
	})
	s, _ := newTestStore(WithLibrary(lib))

	if _, ok := s.AddNode("obj", "add", Vec2{}); ok {
		t.Error("default template available despite custom library")
	}
	id, ok := s.AddNode("obj", "custom", Vec2{})
	if !ok {
		t.Fatal("custom template not available")
	}
	if n := s.Graph("obj").NodeByID(id); n.Title != "Custom" {
		t.Errorf("title = %q", n.Title)
	}
}
