package patchbay

import "testing"

func TestLoadReplayScript(t *testing.T) {
	r, err := LoadReplayScript([]byte(`{"steps":[{"action":"click","x":5,"y":6}]}`))
	if err != nil {
		t.Fatalf("LoadReplayScript: %v", err)
	}
	if r.Done() {
		t.Error("fresh replay reports done")
	}

	if _, err := LoadReplayScript([]byte(`{"steps":[]}`)); err == nil {
		t.Error("empty script did not error")
	}
	if _, err := LoadReplayScript([]byte(`{`)); err == nil {
		t.Error("invalid JSON did not error")
	}
}

func TestReplayDragMovesNode(t *testing.T) {
	c, _, _, _ := newTestEditor(t)

	// Drag the float-constant's body from (100,30) to (150,80).
	r, err := LoadReplayScript([]byte(`{"steps":[
		{"action":"drag","fromX":100,"fromY":30,"toX":150,"toY":80,"steps":6}
	]}`))
	if err != nil {
		t.Fatalf("LoadReplayScript: %v", err)
	}
	r.Run(c)
	if !r.Done() {
		t.Error("replay not done after Run")
	}

	g := c.Graph()
	got := g.Nodes[0].Position
	if got != (Vec2{X: 50, Y: 50}) {
		t.Errorf("position = %v, want (50,50)", got)
	}
}

func TestReplayBuildsConnection(t *testing.T) {
	c, _, src, dst := newTestEditor(t)

	// Cable from the source's output anchor to the destination's first input.
	r, err := LoadReplayScript([]byte(`{"steps":[
		{"action":"drag","fromX":200,"fromY":52,"toX":300,"toY":52,"steps":4},
		{"action":"wheel","x":400,"y":300,"dy":1}
	]}`))
	if err != nil {
		t.Fatalf("LoadReplayScript: %v", err)
	}
	r.Run(c)

	g := c.Graph()
	if len(g.Connections) != 1 {
		t.Fatalf("connections = %d, want 1", len(g.Connections))
	}
	conn := g.Connections[0]
	if conn.From.NodeID != src || conn.To.NodeID != dst {
		t.Errorf("connection = %+v, want %s -> %s", conn, src, dst)
	}
	if !approxEqual(g.View.Scale, 1.1, epsilon) {
		t.Errorf("scale = %f, want 1.1 after scripted wheel", g.View.Scale)
	}
}

func TestReplayAltClickDisconnects(t *testing.T) {
	c, s, src, dst := newTestEditor(t)
	g := s.Graph("obj")
	s.AddConnection("obj",
		PortRef{NodeID: src, PortID: g.NodeByID(src).Outputs[0].ID},
		PortRef{NodeID: dst, PortID: g.NodeByID(dst).Inputs[0].ID})

	r, err := LoadReplayScript([]byte(`{"steps":[
		{"action":"click","x":200,"y":52,"alt":true}
	]}`))
	if err != nil {
		t.Fatalf("LoadReplayScript: %v", err)
	}
	r.Run(c)

	if n := len(g.Connections); n != 0 {
		t.Errorf("connections = %d, want 0", n)
	}
}
