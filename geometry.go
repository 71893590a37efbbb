package patchbay

import "math"

// NodeSize returns the world-space dimensions of a node's box. Width is
// fixed; height grows with the longer of the two port columns.
func NodeSize(n *Node) Vec2 {
	rows := len(n.Inputs)
	if len(n.Outputs) > rows {
		rows = len(n.Outputs)
	}
	return Vec2{X: NodeWidth, Y: NodeHeaderHeight + float64(rows)*PortSpacing}
}

// NodeRect returns the node's world-space bounding rectangle.
func NodeRect(n *Node) Rect {
	size := NodeSize(n)
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: size.X, Height: size.Y}
}

// PortPosition returns the world-space anchor of the port at index on the
// given side. Inputs anchor on the left edge, outputs on the right.
func PortPosition(n *Node, index int, isInput bool) Vec2 {
	x := n.Position.X
	if !isInput {
		x += NodeWidth
	}
	y := n.Position.Y + NodeHeaderHeight + float64(index)*PortSpacing + PortCenterOffset
	return Vec2{X: x, Y: y}
}

// PortAnchor resolves a PortRef to its world-space anchor point.
// Returns false if the node or port no longer exists.
func PortAnchor(g *Graph, ref PortRef) (Vec2, bool) {
	n := g.NodeByID(ref.NodeID)
	if n == nil {
		return Vec2{}, false
	}
	if i := n.InputIndex(ref.PortID); i >= 0 {
		return PortPosition(n, i, true), true
	}
	if i := n.OutputIndex(ref.PortID); i >= 0 {
		return PortPosition(n, i, false), true
	}
	return Vec2{}, false
}

// closeButtonRect returns the world-space rectangle of the node's delete
// control, tucked into the header's top-right corner.
func closeButtonRect(n *Node) Rect {
	return Rect{
		X:      n.Position.X + NodeWidth - CloseButtonSize - CloseButtonMargin,
		Y:      n.Position.Y + CloseButtonMargin,
		Width:  CloseButtonSize,
		Height: CloseButtonSize,
	}
}

// --- Cable path ---

// CubicCurve is a cubic Bézier segment. ConnectionPath produces curves whose
// control points are deterministic functions of the endpoints, so the same
// two points always yield bit-identical curves.
type CubicCurve struct {
	From, C1, C2, To Vec2
}

// ConnectionPath returns the cable curve between two world-space port
// anchors: both control points sit at 60% of the horizontal span, each
// pinned to its own endpoint's y, giving the horizontal "S" typical of node
// editors.
func ConnectionPath(from, to Vec2) CubicCurve {
	cx := from.X + (to.X-from.X)*0.6
	return CubicCurve{
		From: from,
		C1:   Vec2{X: cx, Y: from.Y},
		C2:   Vec2{X: cx, Y: to.Y},
		To:   to,
	}
}

// PointAt evaluates the curve at t in [0, 1] using the Bernstein form.
func (c CubicCurve) PointAt(t float64) Vec2 {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Vec2{
		X: b0*c.From.X + b1*c.C1.X + b2*c.C2.X + b3*c.To.X,
		Y: b0*c.From.Y + b1*c.C1.Y + b2*c.C2.Y + b3*c.To.Y,
	}
}

// Flatten appends segments+1 evenly spaced points of the curve to buf and
// returns it. The first point is From and the last is To exactly.
func (c CubicCurve) Flatten(buf []Vec2, segments int) []Vec2 {
	if segments < 1 {
		segments = 1
	}
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		buf = append(buf, c.PointAt(t))
	}
	return buf
}

// --- Hit testing ---

// HitKind classifies what lies under a screen point.
type HitKind uint8

const (
	HitCanvas      HitKind = iota // empty canvas
	HitNodeBody                   // a node's box, outside any port
	HitPort                       // a port anchor circle
	HitCloseButton                // a node's delete control
)

// Hit is the result of HitTest. NodeID is set for every kind except
// HitCanvas; PortID and PortIsInput are set only for HitPort.
type Hit struct {
	Kind        HitKind
	NodeID      string
	PortID      string
	PortIsInput bool
}

// HitTest resolves what sits under the given screen point. Nodes are probed
// topmost-first (reverse slice order, matching painter order), and within a
// node ports take priority over the close control, which takes priority over
// the body. The enlarged PortHitRadius keeps cables grabbable even where a
// port circle overlaps the node edge.
func HitTest(g *Graph, screen Vec2) Hit {
	world := g.View.ScreenToWorld(screen)

	for i := len(g.Nodes) - 1; i >= 0; i-- {
		n := &g.Nodes[i]

		if portID, isInput, ok := portAt(n, world); ok {
			return Hit{Kind: HitPort, NodeID: n.ID, PortID: portID, PortIsInput: isInput}
		}
		if closeButtonRect(n).Contains(world.X, world.Y) {
			return Hit{Kind: HitCloseButton, NodeID: n.ID}
		}
		if NodeRect(n).Contains(world.X, world.Y) {
			return Hit{Kind: HitNodeBody, NodeID: n.ID}
		}
	}
	return Hit{Kind: HitCanvas}
}

// portAt finds the port whose anchor circle contains the world point.
func portAt(n *Node, world Vec2) (portID string, isInput, ok bool) {
	for i := range n.Inputs {
		if withinRadius(PortPosition(n, i, true), world, PortHitRadius) {
			return n.Inputs[i].ID, true, true
		}
	}
	for i := range n.Outputs {
		if withinRadius(PortPosition(n, i, false), world, PortHitRadius) {
			return n.Outputs[i].ID, false, true
		}
	}
	return "", false, false
}

func withinRadius(center, p Vec2, r float64) bool {
	dx := p.X - center.X
	dy := p.Y - center.Y
	return math.Sqrt(dx*dx+dy*dy) <= r
}
