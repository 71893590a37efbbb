// Package patchbay is a node-graph visual-scripting engine for [Ebitengine].
//
// Patchbay provides the data model, coordinate math, and pointer-driven
// interaction state machine needed to build a directed node graph by dragging
// boxes and cables on an infinite pan/zoom canvas — the editing core of a
// material or shader graph editor. Rendering is a thin consumer: everything
// that carries an invariant lives in the store, the geometry functions, and
// the controller, all of which are testable without a window.
//
// # Quick start
//
// Create a store, a controller bound to one graph, and feed it events:
//
//	store := patchbay.NewStore()
//	ctrl := patchbay.NewController(store, "my-object")
//
//	ctrl.PointerDown(patchbay.Vec2{X: 120, Y: 80}, patchbay.MouseButtonLeft, 0)
//	ctrl.PointerMove(patchbay.Vec2{X: 200, Y: 140})
//	ctrl.PointerUp(patchbay.Vec2{X: 200, Y: 140})
//
// For a runnable editor window see examples/editor, which wires the
// controller to Ebitengine input and draws with [Renderer].
//
// # Graphs, nodes, cables
//
// A [Graph] holds nodes, connections, and a [ViewTransform]. Graphs are keyed
// by an externally supplied object id and created lazily on first access:
//
//	g := store.Graph("my-object")
//
// Nodes are instantiated from [Library] templates. Every instantiation mints
// fresh node and port ids, so placing the same template twice never collides:
//
//	id, ok := store.AddNode("my-object", "float-constant", patchbay.Vec2{})
//
// Connections are directed output → input. Direction is enforced at creation;
// port types are display-only and never checked.
//
// # Coordinate spaces
//
// Node positions live in world space. The [ViewTransform] maps world to
// screen (screen = world·scale + offset) and back, and [ViewTransform.ZoomAt]
// rescales around a screen anchor so the point under the cursor stays put.
// Scale is clamped to [MinScale, MaxScale].
//
// # Interaction
//
// [Controller] is a four-state machine (idle, dragging a node, dragging a
// cable, panning) driven by PointerDown/PointerMove/PointerUp/Wheel calls in
// screen coordinates. Hit testing runs against the same geometry the renderer
// draws from, so what you see is what you grab.
//
// [Ebitengine]: https://ebitengine.org
package patchbay
