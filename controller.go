package patchbay

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// controllerState identifies what the pointer is currently doing.
type controllerState uint8

const (
	stateIdle         controllerState = iota
	stateDraggingNode                 // moving one node, pointer held
	stateDraggingCable                // pulling a cable from a port
	statePanning                      // translating the canvas
)

// Controller turns raw pointer, wheel, and key events into graph mutations
// on a single object's graph. It is a four-state machine: idle, dragging a
// node, dragging a cable, or panning. All event coordinates are screen-space
// pixels; the controller does every world conversion itself.
//
// Every transition re-resolves the entities it references against the live
// graph, so an event racing a deletion degrades to a no-op instead of a
// panic.
type Controller struct {
	store    *Store
	objectID string

	// OnContextMenu, when set, fires on a right click over empty canvas with
	// the click's screen and world positions. The host opens its library
	// picker there and calls Store.AddNode with the world position.
	OnContextMenu func(screen, world Vec2)

	state controllerState

	// stateDraggingNode
	dragNodeID string
	grabOffset Vec2 // worldPointer - node.Position at grab time

	// stateDraggingCable
	cableOrigin  PortRef
	originIsIn   bool
	cableAnchor  Vec2 // origin port anchor, world space
	cableFreeEnd Vec2 // follows the pointer, world space

	// statePanning
	panStartScreen Vec2
	panStartView   ViewTransform

	selection map[string]struct{}

	scroll *viewScroll
}

// NewController creates a controller bound to one object's graph in store.
func NewController(store *Store, objectID string) *Controller {
	return &Controller{
		store:     store,
		objectID:  objectID,
		selection: make(map[string]struct{}),
	}
}

// ObjectID returns the id of the graph this controller edits.
func (c *Controller) ObjectID() string {
	return c.objectID
}

// Graph returns the live graph this controller edits.
func (c *Controller) Graph() *Graph {
	return c.store.Graph(c.objectID)
}

// --- Pointer events ---

// PointerDown starts an interaction. Priority order: port (start cable),
// delete control (remove node immediately, no drag), node body (select and
// start node drag), empty canvas (pan, or context menu on right click).
func (c *Controller) PointerDown(screen Vec2, button MouseButton, mods KeyModifiers) {
	if c.state != stateIdle {
		return
	}
	g := c.Graph()
	world := g.View.ScreenToWorld(screen)
	hit := HitTest(g, screen)

	switch hit.Kind {
	case HitPort:
		// Alt-click or right-click on a port unplugs it instead of starting
		// a cable.
		if mods&ModAlt != 0 || button == MouseButtonRight {
			c.store.DisconnectPort(c.objectID, hit.NodeID, hit.PortID)
			return
		}
		if button != MouseButtonLeft {
			return
		}
		origin := PortRef{NodeID: hit.NodeID, PortID: hit.PortID}
		anchor, ok := PortAnchor(g, origin)
		if !ok {
			return
		}
		c.state = stateDraggingCable
		c.cableOrigin = origin
		c.originIsIn = hit.PortIsInput
		c.cableAnchor = anchor
		c.cableFreeEnd = world

	case HitCloseButton:
		if button != MouseButtonLeft {
			return
		}
		delete(c.selection, hit.NodeID)
		c.store.RemoveNode(c.objectID, hit.NodeID)

	case HitNodeBody:
		if button != MouseButtonLeft {
			return
		}
		n := g.NodeByID(hit.NodeID)
		if n == nil {
			return
		}
		if mods.multiSelect() {
			c.toggleSelected(hit.NodeID)
		} else {
			c.selection = map[string]struct{}{hit.NodeID: {}}
		}
		c.state = stateDraggingNode
		c.dragNodeID = hit.NodeID
		c.grabOffset = world.Sub(n.Position)

	case HitCanvas:
		if button == MouseButtonRight {
			if c.OnContextMenu != nil {
				c.OnContextMenu(screen, world)
			}
			return
		}
		if button != MouseButtonLeft && button != MouseButtonMiddle {
			return
		}
		if !mods.multiSelect() {
			c.ClearSelection()
		}
		c.scroll = nil // user takes over from any scroll animation
		c.state = statePanning
		c.panStartScreen = screen
		c.panStartView = g.View
	}
}

// PointerMove advances the current interaction. In the idle state it does
// nothing; hover feedback is the renderer's business.
func (c *Controller) PointerMove(screen Vec2) {
	g := c.Graph()
	world := g.View.ScreenToWorld(screen)

	switch c.state {
	case stateDraggingNode:
		if g.NodeByID(c.dragNodeID) == nil {
			// Node deleted out from under the drag. Abort without mutation.
			c.state = stateIdle
			return
		}
		c.store.MoveNode(c.objectID, c.dragNodeID, world.Sub(c.grabOffset))

	case stateDraggingCable:
		if _, ok := PortAnchor(g, c.cableOrigin); !ok {
			c.state = stateIdle
			return
		}
		c.cableFreeEnd = world

	case statePanning:
		d := screen.Sub(c.panStartScreen)
		c.store.SetView(c.objectID, c.panStartView.Panned(d.X, d.Y))
	}
}

// PointerUp finishes the current interaction. A cable released over a port
// of the opposite direction commits a connection (output side always becomes
// from); anything else discards the cable. Node drags and pans just return
// to idle — their last move already committed.
func (c *Controller) PointerUp(screen Vec2) {
	if c.state == stateDraggingCable {
		c.finishCable(screen)
	}
	c.state = stateIdle
}

// finishCable resolves the drop target and creates the connection if legal.
func (c *Controller) finishCable(screen Vec2) {
	g := c.Graph()
	hit := HitTest(g, screen)
	if hit.Kind != HitPort || hit.PortIsInput == c.originIsIn {
		return
	}
	target := PortRef{NodeID: hit.NodeID, PortID: hit.PortID}
	var from, to PortRef
	if c.originIsIn {
		from, to = target, c.cableOrigin
	} else {
		from, to = c.cableOrigin, target
	}
	c.store.AddConnection(c.objectID, from, to)
}

// Wheel applies one zoom notch anchored at the pointer. Positive dy zooms
// in, negative zooms out. Ignored while a drag or pan is active.
func (c *Controller) Wheel(screen Vec2, dy float64) {
	if c.state != stateIdle || dy == 0 {
		return
	}
	factor := ZoomOutFactor
	if dy > 0 {
		factor = ZoomInFactor
	}
	g := c.Graph()
	c.store.SetView(c.objectID, g.View.ZoomAt(screen, g.View.Scale*factor))
}

// Cancel aborts the current interaction (Escape). An uncommitted cable is
// discarded; node positions and pan offsets keep whatever the last move
// committed.
func (c *Controller) Cancel() {
	c.state = stateIdle
}

// --- Selection ---

// Selected reports whether the node is in the selection set.
func (c *Controller) Selected(nodeID string) bool {
	_, ok := c.selection[nodeID]
	return ok
}

// Selection returns the selected node ids, sorted for determinism.
func (c *Controller) Selection() []string {
	ids := make([]string, 0, len(c.selection))
	for id := range c.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearSelection empties the selection set.
func (c *Controller) ClearSelection() {
	clear(c.selection)
}

// SelectAll selects every node currently in the graph.
func (c *Controller) SelectAll() {
	c.selection = make(map[string]struct{})
	g := c.Graph()
	for i := range g.Nodes {
		c.selection[g.Nodes[i].ID] = struct{}{}
	}
}

// DeleteSelection removes every selected node (Delete key), cascading their
// connections, then clears the selection. Ids that no longer resolve are
// skipped silently.
func (c *Controller) DeleteSelection() {
	for _, id := range c.Selection() {
		c.store.RemoveNode(c.objectID, id)
	}
	c.ClearSelection()
}

func (c *Controller) toggleSelected(nodeID string) {
	if _, ok := c.selection[nodeID]; ok {
		delete(c.selection, nodeID)
	} else {
		c.selection[nodeID] = struct{}{}
	}
}

// --- In-progress cable (renderer feedback) ---

// TempCable returns the in-progress cable curve while a cable drag is
// active. The curve is oriented output → input so it renders with the same
// shape the committed connection will have.
func (c *Controller) TempCable() (CubicCurve, bool) {
	if c.state != stateDraggingCable {
		return CubicCurve{}, false
	}
	if c.originIsIn {
		return ConnectionPath(c.cableFreeEnd, c.cableAnchor), true
	}
	return ConnectionPath(c.cableAnchor, c.cableFreeEnd), true
}

// --- Animated scrolling ---

// ScrollTo animates the view offset to (x, y) screen pixels over duration
// seconds. The animation is advanced by Update and cancelled by a manual pan.
func (c *Controller) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scroll = newViewScroll(c.Graph().View, x, y, duration, easeFn)
}

// FocusNode animates the view so the given node's box is centered in a
// viewport of the given size. No-op if the node is missing. Scale is kept.
func (c *Controller) FocusNode(nodeID string, viewport Vec2, duration float32, easeFn ease.TweenFunc) {
	g := c.Graph()
	n := g.NodeByID(nodeID)
	if n == nil {
		return
	}
	size := NodeSize(n)
	center := Vec2{X: n.Position.X + size.X/2, Y: n.Position.Y + size.Y/2}
	// Solve screen = world*scale + offset for the viewport center.
	tx := viewport.X/2 - center.X*g.View.Scale
	ty := viewport.Y/2 - center.Y*g.View.Scale
	c.scroll = newViewScroll(g.View, tx, ty, duration, easeFn)
}

// Update advances any active scroll animation by dt seconds. Call once per
// frame; a frame with no active animation is free.
func (c *Controller) Update(dt float32) {
	if c.scroll == nil {
		return
	}
	v, done := c.scroll.advance(c.Graph().View, dt)
	c.store.SetView(c.objectID, v)
	if done {
		c.scroll = nil
	}
}
