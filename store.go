package patchbay

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Storage is the persistence collaborator: an external key-value store the
// engine treats as durable. A Graph must round-trip through it unchanged;
// the storage format is the implementation's business.
type Storage interface {
	// GetNodeGraph returns the stored graph for objectID, or false if none
	// has been stored yet.
	GetNodeGraph(objectID string) (*Graph, bool)
	// SetNodeGraph stores the graph for objectID.
	SetNodeGraph(objectID string, g *Graph)
}

// ChangeFunc is notified after a structural graph change (node or connection
// added or removed) has been committed. The host uses it to regenerate the
// object-properties projection. Pan/zoom and node movement do not fire it.
type ChangeFunc func(objectID string)

// Store owns one Graph per externally supplied object id. Graphs are created
// lazily on first access and mutated exclusively through Store methods.
//
// Store is not safe for concurrent use: like the rest of the engine it
// assumes the single event-driven UI goroutine.
type Store struct {
	graphs  map[string]*Graph
	lib     Library
	logger  *log.Logger
	storage Storage
	changed []ChangeFunc

	// now returns milliseconds since the Unix epoch. Injectable for tests.
	now func() int64
	// lastStamp forces creation timestamps to be strictly monotonic even
	// when two nodes are added within the same millisecond.
	lastStamp int64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLibrary sets the template catalog used by AddNode.
// The default is DefaultLibrary().
func WithLibrary(lib Library) StoreOption {
	return func(s *Store) { s.lib = lib }
}

// WithLogger sets the logger for not-found and no-op diagnostics.
// The default logger discards everything.
func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithStorage attaches a persistence collaborator. Graphs are loaded from it
// on first access and written back after every mutation.
func WithStorage(st Storage) StoreOption {
	return func(s *Store) { s.storage = st }
}

// WithClock overrides the millisecond timestamp source used for node and
// port ids. Intended for tests that need deterministic ids.
func WithClock(now func() int64) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store with the default library.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		graphs: make(map[string]*Graph),
		lib:    DefaultLibrary(),
		logger: log.New(io.Discard),
		now:    func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Library returns the template catalog this store instantiates from.
func (s *Store) Library() Library {
	return s.lib
}

// OnChange registers a structural-change hook. Hooks run synchronously, in
// registration order, after the mutation has been committed and persisted.
func (s *Store) OnChange(fn ChangeFunc) {
	s.changed = append(s.changed, fn)
}

// Graph returns the graph for objectID, creating the default empty graph on
// first access. If a persistence collaborator is attached it is consulted
// before a fresh graph is created.
func (s *Store) Graph(objectID string) *Graph {
	if g, ok := s.graphs[objectID]; ok {
		return g
	}
	if s.storage != nil {
		if g, ok := s.storage.GetNodeGraph(objectID); ok && g != nil {
			g.View = g.View.clamped()
			s.graphs[objectID] = g
			return g
		}
	}
	g := NewGraph()
	s.graphs[objectID] = g
	return g
}

// GraphUpdate is a shallow partial replacement for Update. Nil fields are
// left untouched; non-nil slices replace the stored slice wholesale, so the
// caller is responsible for handing over a fully valid array.
type GraphUpdate struct {
	Nodes       []Node
	Connections []Connection
	View        *ViewTransform
}

// Update shallow-merges u into the stored graph. This is not a deep patch:
// replacing Nodes does not touch Connections, even if the new node set
// orphans some of them.
func (s *Store) Update(objectID string, u GraphUpdate) {
	g := s.Graph(objectID)
	if u.Nodes != nil {
		g.Nodes = u.Nodes
	}
	if u.Connections != nil {
		g.Connections = u.Connections
	}
	if u.View != nil {
		g.View = u.View.clamped()
	}
	s.persist(objectID, g)
}

// AddNode instantiates the template registered under typeKey at the given
// world position and appends it to the graph. Returns the new node id, or
// false if the template is unknown or malformed (nothing is created).
func (s *Store) AddNode(objectID, typeKey string, pos Vec2) (string, bool) {
	tpl, ok := s.lib.Template(typeKey)
	if !ok {
		s.logger.Debug("node type not found", "type", typeKey)
		return "", false
	}

	stamp := s.timestamp()
	node := Node{
		ID:       fmt.Sprintf("%s-%d", tpl.Type, stamp),
		Type:     tpl.Type,
		Title:    tpl.Title,
		Position: pos,
		Inputs:   instantiatePorts(tpl.Inputs, stamp),
		Outputs:  instantiatePorts(tpl.Outputs, stamp),
	}

	g := s.Graph(objectID)
	g.Nodes = append(g.Nodes, node)
	s.persist(objectID, g)
	s.fireChange(objectID)
	return node.ID, true
}

// instantiatePorts clones template ports with instance ids. The shared
// timestamp suffix guarantees no collision with ports of any earlier clone.
func instantiatePorts(tpls []PortTemplate, stamp int64) []Port {
	ports := make([]Port, len(tpls))
	for i, pt := range tpls {
		ports[i] = Port{
			ID:    fmt.Sprintf("%s-%d", pt.ID, stamp),
			Name:  pt.Name,
			Type:  pt.Type,
			Value: pt.Value,
		}
	}
	return ports
}

// AddConnection appends a cable from an output port to an input port.
// The direction rule is the only validation: if from does not resolve to an
// output or to does not resolve to an input (including missing nodes or
// ports), the call is a no-op and returns false.
func (s *Store) AddConnection(objectID string, from, to PortRef) (string, bool) {
	g := s.Graph(objectID)
	if !connectionAllowed(g, from, to) {
		s.logger.Debug("connection rejected",
			"from", from.NodeID+"/"+from.PortID,
			"to", to.NodeID+"/"+to.PortID)
		return "", false
	}
	conn := Connection{ID: uuid.NewString(), From: from, To: to}
	g.Connections = append(g.Connections, conn)
	s.persist(objectID, g)
	s.fireChange(objectID)
	return conn.ID, true
}

// RemoveConnection removes a connection by id. No-op if absent.
func (s *Store) RemoveConnection(objectID, connID string) {
	g := s.Graph(objectID)
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.ID != connID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(g.Connections) {
		s.logger.Debug("connection not found", "id", connID)
		return
	}
	g.Connections = kept
	s.persist(objectID, g)
	s.fireChange(objectID)
}

// RemoveNode removes the node and cascades: every connection referencing it
// on either side is removed too. No-op if the node is absent.
func (s *Store) RemoveNode(objectID, nodeID string) {
	g := s.Graph(objectID)
	keptNodes := g.Nodes[:0]
	removed := false
	for _, n := range g.Nodes {
		if n.ID == nodeID {
			removed = true
			continue
		}
		keptNodes = append(keptNodes, n)
	}
	if !removed {
		s.logger.Debug("node not found", "id", nodeID)
		return
	}
	g.Nodes = keptNodes

	keptConns := g.Connections[:0]
	for _, c := range g.Connections {
		if !c.Touches(nodeID) {
			keptConns = append(keptConns, c)
		}
	}
	g.Connections = keptConns

	s.persist(objectID, g)
	s.fireChange(objectID)
}

// DisconnectPort removes every connection touching the given port on the
// given node, regardless of direction. No-op if nothing was connected.
func (s *Store) DisconnectPort(objectID, nodeID, portID string) {
	g := s.Graph(objectID)
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if (c.From.NodeID == nodeID && c.From.PortID == portID) ||
			(c.To.NodeID == nodeID && c.To.PortID == portID) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == len(g.Connections) {
		return
	}
	g.Connections = kept
	s.persist(objectID, g)
	s.fireChange(objectID)
}

// MoveNode sets a node's world position. Used on every drag move; it does
// not count as a structural change. No-op if the node is absent.
func (s *Store) MoveNode(objectID, nodeID string, pos Vec2) {
	g := s.Graph(objectID)
	n := g.NodeByID(nodeID)
	if n == nil {
		s.logger.Debug("node not found", "id", nodeID)
		return
	}
	n.Position = pos
	s.persist(objectID, g)
}

// SetView replaces the graph's view transform, clamping scale. Used on every
// pan and zoom step; not a structural change.
func (s *Store) SetView(objectID string, v ViewTransform) {
	g := s.Graph(objectID)
	g.View = v.clamped()
	s.persist(objectID, g)
}

// timestamp returns a strictly monotonic millisecond stamp. Two AddNode
// calls in the same millisecond still mint distinct ids.
func (s *Store) timestamp() int64 {
	t := s.now()
	if t <= s.lastStamp {
		t = s.lastStamp + 1
	}
	s.lastStamp = t
	return t
}

func (s *Store) persist(objectID string, g *Graph) {
	if s.storage != nil {
		s.storage.SetNodeGraph(objectID, g)
	}
}

func (s *Store) fireChange(objectID string) {
	for _, fn := range s.changed {
		fn(objectID)
	}
}
