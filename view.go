package patchbay

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ViewTransform is the affine mapping from world space to screen space:
//
//	screen = world*Scale + (X, Y)
//
// X and Y are in screen pixels; Scale is unitless and clamped to
// [MinScale, MaxScale] by every mutating path in this package.
type ViewTransform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// WorldToScreen converts a world-space point to screen space.
func (v ViewTransform) WorldToScreen(p Vec2) Vec2 {
	return Vec2{X: p.X*v.Scale + v.X, Y: p.Y*v.Scale + v.Y}
}

// ScreenToWorld converts a screen-space point to world space. It is the
// exact inverse of WorldToScreen: the two round-trip within floating-point
// tolerance.
func (v ViewTransform) ScreenToWorld(p Vec2) Vec2 {
	return Vec2{X: (p.X - v.X) / v.Scale, Y: (p.Y - v.Y) / v.Scale}
}

// Panned returns the transform translated by (dx, dy) screen pixels.
// Panning is a pure screen-space translation; Scale is untouched.
func (v ViewTransform) Panned(dx, dy float64) ViewTransform {
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAt returns the transform rescaled to newScale (clamped) such that the
// world point currently under the screen-space anchor stays under it:
//
//	newOffset = anchor - worldUnderAnchor*newScale
func (v ViewTransform) ZoomAt(anchor Vec2, newScale float64) ViewTransform {
	newScale = clampScale(newScale)
	w := v.ScreenToWorld(anchor)
	return ViewTransform{
		X:     anchor.X - w.X*newScale,
		Y:     anchor.Y - w.Y*newScale,
		Scale: newScale,
	}
}

// clamped returns the transform with Scale forced into the legal range.
// Used when a whole transform arrives from outside (Update, persistence).
func (v ViewTransform) clamped() ViewTransform {
	v.Scale = clampScale(v.Scale)
	return v
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// --- Animated scrolling ---

// viewScroll holds active scroll-to tweens for the view offset X and Y.
type viewScroll struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// newViewScroll starts a tween from the current offset to (toX, toY) over
// duration seconds.
func newViewScroll(v ViewTransform, toX, toY float64, duration float32, easeFn ease.TweenFunc) *viewScroll {
	return &viewScroll{
		tweenX: gween.New(float32(v.X), float32(toX), duration, easeFn),
		tweenY: gween.New(float32(v.Y), float32(toY), duration, easeFn),
	}
}

// advance steps the tween by dt seconds and applies the result to v.
// Returns the updated transform and whether the scroll has finished.
func (s *viewScroll) advance(v ViewTransform, dt float32) (ViewTransform, bool) {
	if !s.doneX {
		val, done := s.tweenX.Update(dt)
		v.X = float64(val)
		s.doneX = done
	}
	if !s.doneY {
		val, done := s.tweenY.Update(dt)
		v.Y = float64(val)
		s.doneY = done
	}
	return v, s.doneX && s.doneY
}
