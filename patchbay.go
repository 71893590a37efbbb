package patchbay

import "image/color"

// Vec2 is a 2D vector used for positions, offsets, and sizes throughout the
// API. Whether a Vec2 is in world or screen space is part of each function's
// contract, never of the type.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// toRGBA converts to the standard library's 8-bit color type for drawing.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PortType identifies the kind of value a port carries. It is an open string
// set: unknown values are legal and render with the default color. Port types
// are display-only — connection creation checks direction, not type.
type PortType string

const (
	PortFloat    PortType = "float"
	PortVector2  PortType = "vector2"
	PortVector3  PortType = "vector3"
	PortColor    PortType = "color"
	PortTexture  PortType = "texture"
	PortBoolean  PortType = "boolean"
	PortMaterial PortType = "material"
	PortMatrix4  PortType = "matrix4"
)

// DisplayColor returns the color-coding for a port type. Unknown types get
// the neutral gray used for generic ports.
func (t PortType) DisplayColor() Color {
	switch t {
	case PortFloat:
		return Color{0.39, 0.78, 0.39, 1} // green
	case PortVector2:
		return Color{0.78, 0.78, 0.39, 1} // yellow
	case PortVector3:
		return Color{0.78, 0.59, 0.39, 1} // orange
	case PortColor:
		return Color{0.59, 0.39, 0.78, 1} // purple
	case PortTexture:
		return Color{0.39, 0.59, 0.86, 1} // blue
	case PortBoolean:
		return Color{0.78, 0.39, 0.39, 1} // red
	case PortMaterial:
		return Color{0.86, 0.86, 0.86, 1} // white
	case PortMatrix4:
		return Color{0.39, 0.78, 0.78, 1} // cyan
	default:
		return Color{0.59, 0.59, 0.59, 1} // gray
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command key
)

// multiSelect reports whether the modifier combination toggles selection
// membership instead of replacing the selection. Ctrl on most platforms,
// Cmd on macOS.
func (m KeyModifiers) multiSelect() bool {
	return m&(ModCtrl|ModMeta) != 0
}

// --- Node box layout (world units) ---

// Node boxes have a fixed width and a height derived from the port count.
// All geometry in geometry.go and all drawing in render.go derive from these
// five constants, so hit testing and rendering cannot disagree.
const (
	// NodeWidth is the fixed width of every node box.
	NodeWidth = 200.0
	// NodeHeaderHeight is the height of the title bar above the first port row.
	NodeHeaderHeight = 40.0
	// PortSpacing is the vertical distance between consecutive port rows.
	PortSpacing = 25.0
	// PortCenterOffset is the distance from the top of a port row to the
	// port's anchor point.
	PortCenterOffset = 12.0
	// PortRadius is the drawn radius of a port circle.
	PortRadius = 6.0
)

// PortHitRadius is the hit-test radius for ports, enlarged past the drawn
// radius so cables are easy to grab at any zoom.
const PortHitRadius = PortRadius * 1.5

// Close control: a small square in the node header's top-right corner that
// deletes the node. It is hit-tested before the node body so clicking it
// never starts a drag.
const (
	CloseButtonSize   = 14.0
	CloseButtonMargin = 5.0
)

// --- Zoom limits ---

const (
	// MinScale and MaxScale clamp ViewTransform.Scale.
	MinScale = 0.1
	MaxScale = 3.0

	// ZoomInFactor and ZoomOutFactor are the per-notch multiplicative wheel
	// zoom steps.
	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9
)
