package patchbay

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// cableSegments is the flattening resolution for drawing one cable.
const cableSegments = 24

// Renderer draws a graph onto an Ebitengine image: grid, cables, node boxes,
// ports, and the controller's in-progress cable. It is a thin consumer of
// the geometry functions — it holds no graph state of its own, so hit
// testing and drawing can never disagree about where things are.
type Renderer struct {
	// Background is the canvas clear color.
	Background Color
	// GridSpacing is the dot grid pitch in world units.
	GridSpacing float64
	// NodeFill and NodeBorder style the node boxes.
	NodeFill   Color
	NodeBorder Color
	// SelectionBorder outlines selected nodes.
	SelectionBorder Color

	lib        Library
	flattenBuf []Vec2
}

// NewRenderer creates a renderer with the default dark theme. The library is
// used to color node headers by template.
func NewRenderer(lib Library) *Renderer {
	return &Renderer{
		Background:      Color{R: 0.10, G: 0.10, B: 0.12, A: 1},
		GridSpacing:     20,
		NodeFill:        Color{R: 0.16, G: 0.16, B: 0.18, A: 1},
		NodeBorder:      Color{R: 0.24, G: 0.24, B: 0.26, A: 1},
		SelectionBorder: Color{R: 0.39, G: 0.59, B: 1.00, A: 1},
		lib:             lib,
	}
}

// Draw renders the controller's graph onto dst.
func (r *Renderer) Draw(dst *ebiten.Image, ctrl *Controller) {
	g := ctrl.Graph()
	dst.Fill(r.Background.toRGBA())

	bounds := dst.Bounds()
	r.drawGrid(dst, g.View, float64(bounds.Dx()), float64(bounds.Dy()))

	for i := range g.Connections {
		r.drawConnection(dst, g, &g.Connections[i])
	}
	if curve, ok := ctrl.TempCable(); ok {
		r.strokeCurve(dst, g.View, curve, Color{R: 0.86, G: 0.86, B: 0.86, A: 0.8}, 2)
	}

	for i := range g.Nodes {
		r.drawNode(dst, g.View, &g.Nodes[i], ctrl.Selected(g.Nodes[i].ID))
	}
}

// drawGrid draws the dot grid. Spacing scales with zoom and the first dot is
// phase-locked to the view offset so the grid appears to pan with the world.
func (r *Renderer) drawGrid(dst *ebiten.Image, v ViewTransform, w, h float64) {
	spacing := r.GridSpacing * v.Scale
	if spacing < 4 {
		return // too dense to be anything but noise
	}
	dot := r.NodeBorder.toRGBA()
	offX := mod(v.X, spacing)
	offY := mod(v.Y, spacing)
	for y := offY; y < h; y += spacing {
		for x := offX; x < w; x += spacing {
			vector.DrawFilledCircle(dst, float32(x), float32(y), 1, dot, false)
		}
	}
}

func mod(a, b float64) float64 {
	m := a - float64(int(a/b))*b
	if m < 0 {
		m += b
	}
	return m
}

func (r *Renderer) drawConnection(dst *ebiten.Image, g *Graph, c *Connection) {
	from, okFrom := PortAnchor(g, c.From)
	to, okTo := PortAnchor(g, c.To)
	if !okFrom || !okTo {
		return
	}
	clr := Color{R: 0.59, G: 0.59, B: 0.59, A: 1}
	if n := g.NodeByID(c.From.NodeID); n != nil {
		if i := n.OutputIndex(c.From.PortID); i >= 0 {
			clr = n.Outputs[i].Type.DisplayColor()
		}
	}
	r.strokeCurve(dst, g.View, ConnectionPath(from, to), clr, 2)
}

// strokeCurve flattens a world-space cubic and strokes it as screen-space
// line segments.
func (r *Renderer) strokeCurve(dst *ebiten.Image, v ViewTransform, curve CubicCurve, clr Color, width float32) {
	r.flattenBuf = curve.Flatten(r.flattenBuf[:0], cableSegments)
	rgba := clr.toRGBA()
	for i := 1; i < len(r.flattenBuf); i++ {
		p0 := v.WorldToScreen(r.flattenBuf[i-1])
		p1 := v.WorldToScreen(r.flattenBuf[i])
		vector.StrokeLine(dst, float32(p0.X), float32(p0.Y), float32(p1.X), float32(p1.Y), width, rgba, true)
	}
}

func (r *Renderer) drawNode(dst *ebiten.Image, v ViewTransform, n *Node, selected bool) {
	rect := NodeRect(n)
	tl := v.WorldToScreen(Vec2{X: rect.X, Y: rect.Y})
	w := float32(rect.Width * v.Scale)
	h := float32(rect.Height * v.Scale)
	x := float32(tl.X)
	y := float32(tl.Y)

	vector.DrawFilledRect(dst, x, y, w, h, r.NodeFill.toRGBA(), false)

	header := r.NodeBorder
	if tpl, ok := r.lib.Template(n.Type); ok {
		header = tpl.Color
	}
	vector.DrawFilledRect(dst, x, y, w, float32(NodeHeaderHeight*v.Scale*0.6), header.toRGBA(), false)

	border := r.NodeBorder
	if selected {
		border = r.SelectionBorder
	}
	vector.StrokeRect(dst, x, y, w, h, 1.5, border.toRGBA(), false)

	ebitenutil.DebugPrintAt(dst, n.Title, int(tl.X)+6, int(tl.Y)+4)

	r.drawCloseButton(dst, v, n)

	for i := range n.Inputs {
		r.drawPort(dst, v, PortPosition(n, i, true), n.Inputs[i].Type)
	}
	for i := range n.Outputs {
		r.drawPort(dst, v, PortPosition(n, i, false), n.Outputs[i].Type)
	}
}

func (r *Renderer) drawPort(dst *ebiten.Image, v ViewTransform, worldPos Vec2, t PortType) {
	p := v.WorldToScreen(worldPos)
	radius := float32(PortRadius * v.Scale)
	vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), radius, t.DisplayColor().toRGBA(), true)
	vector.StrokeCircle(dst, float32(p.X), float32(p.Y), radius, 1, r.Background.toRGBA(), true)
}

func (r *Renderer) drawCloseButton(dst *ebiten.Image, v ViewTransform, n *Node) {
	rect := closeButtonRect(n)
	tl := v.WorldToScreen(Vec2{X: rect.X, Y: rect.Y})
	br := v.WorldToScreen(Vec2{X: rect.X + rect.Width, Y: rect.Y + rect.Height})
	clr := Color{R: 0.78, G: 0.47, B: 0.47, A: 1}.toRGBA()
	vector.StrokeLine(dst, float32(tl.X), float32(tl.Y), float32(br.X), float32(br.Y), 1.5, clr, true)
	vector.StrokeLine(dst, float32(br.X), float32(tl.Y), float32(tl.X), float32(br.Y), 1.5, clr, true)
}
