package patchbay

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
)

func populatedGraph() *Graph {
	g := NewGraph()
	g.Nodes = append(g.Nodes,
		Node{
			ID:       "float-constant-1000",
			Type:     "float-constant",
			Title:    "Float",
			Position: Vec2{X: 10, Y: 20},
			Inputs:   []Port{},
			Outputs:  []Port{{ID: "value-1000", Name: "Value", Type: PortFloat}},
		},
		Node{
			ID:       "add-1001",
			Type:     "add",
			Title:    "Add",
			Position: Vec2{X: 300, Y: 0},
			Inputs: []Port{
				{ID: "a-1001", Name: "A", Type: PortFloat},
				{ID: "b-1001", Name: "B", Type: PortFloat, Value: 1},
			},
			Outputs: []Port{{ID: "result-1001", Name: "Result", Type: PortFloat}},
		},
	)
	g.Connections = append(g.Connections, Connection{
		ID:   "c1",
		From: PortRef{NodeID: "float-constant-1000", PortID: "value-1000"},
		To:   PortRef{NodeID: "add-1001", PortID: "a-1001"},
	})
	g.View = ViewTransform{X: -40, Y: 25.5, Scale: 1.5}
	return g
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := populatedGraph()
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Graph
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(g, &back) {
		t.Errorf("round trip changed the graph:\n got %+v\nwant %+v", &back, g)
	}
}

func TestGraphJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(populatedGraph())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{
		`"nodes"`, `"connections"`, `"viewTransform"`,
		`"nodeId"`, `"portId"`, `"position"`, `"scale"`,
	} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("serialized graph missing %s key", key)
		}
	}
}

func TestNodeByID(t *testing.T) {
	g := populatedGraph()
	n := g.NodeByID("add-1001")
	if n == nil || n.Title != "Add" {
		t.Errorf("NodeByID = %+v", n)
	}
	if g.NodeByID("ghost") != nil {
		t.Error("missing node reported found")
	}
	// The pointer aliases the backing slice.
	n.Position = Vec2{X: 999}
	if g.Nodes[1].Position.X != 999 {
		t.Error("NodeByID returned a copy, not an alias")
	}
}

func TestConnectionByID(t *testing.T) {
	g := populatedGraph()
	if c := g.ConnectionByID("c1"); c == nil || c.From.PortID != "value-1000" {
		t.Errorf("ConnectionByID = %+v", c)
	}
	if g.ConnectionByID("ghost") != nil {
		t.Error("missing connection reported found")
	}
}

func TestConnectionTouches(t *testing.T) {
	c := Connection{
		From: PortRef{NodeID: "a", PortID: "p1"},
		To:   PortRef{NodeID: "b", PortID: "p2"},
	}
	if !c.Touches("a") || !c.Touches("b") {
		t.Error("Touches missed an endpoint")
	}
	if c.Touches("c") {
		t.Error("Touches matched an unrelated node")
	}
}

func TestResolvePort(t *testing.T) {
	g := populatedGraph()
	cases := []struct {
		ref  PortRef
		want portDirection
	}{
		{PortRef{NodeID: "add-1001", PortID: "a-1001"}, portIsInput},
		{PortRef{NodeID: "add-1001", PortID: "result-1001"}, portIsOutput},
		{PortRef{NodeID: "add-1001", PortID: "nope"}, portMissing},
		{PortRef{NodeID: "ghost", PortID: "a-1001"}, portMissing},
	}
	for _, tc := range cases {
		if got := g.resolvePort(tc.ref); got != tc.want {
			t.Errorf("resolvePort(%+v) = %v, want %v", tc.ref, got, tc.want)
		}
	}
}

func TestConnectionAllowed(t *testing.T) {
	g := populatedGraph()
	out := PortRef{NodeID: "float-constant-1000", PortID: "value-1000"}
	in := PortRef{NodeID: "add-1001", PortID: "b-1001"}

	if !connectionAllowed(g, out, in) {
		t.Error("output -> input rejected")
	}
	if connectionAllowed(g, in, out) {
		t.Error("input -> output allowed")
	}
	if connectionAllowed(g, out, out) {
		t.Error("output -> output allowed")
	}
	if connectionAllowed(g, PortRef{NodeID: "ghost"}, in) {
		t.Error("missing from endpoint allowed")
	}
}

func TestPortIndexLookups(t *testing.T) {
	g := populatedGraph()
	n := g.NodeByID("add-1001")
	if i := n.InputIndex("b-1001"); i != 1 {
		t.Errorf("InputIndex = %d, want 1", i)
	}
	if i := n.InputIndex("result-1001"); i != -1 {
		t.Errorf("InputIndex for an output = %d, want -1", i)
	}
	if i := n.OutputIndex("result-1001"); i != 0 {
		t.Errorf("OutputIndex = %d, want 0", i)
	}
}
