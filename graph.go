package patchbay

// Port is a named, typed attachment point on a node. Direction (input vs
// output) is positional: a port lives in either Node.Inputs or Node.Outputs,
// never both.
type Port struct {
	// ID is unique within the graph. Instantiated ports carry the template
	// port id suffixed with the node's creation timestamp.
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type PortType `json:"type"`
	// Value is the unconnected default for input ports. Meaningless for
	// outputs and for types without a scalar representation.
	Value float64 `json:"value,omitempty"`
}

// Node is a graph vertex: a titled box at a world-space position with input
// ports on the left edge and output ports on the right.
type Node struct {
	// ID is globally unique within a graph, formed as
	// "<templateKey>-<creationTimestampMillis>".
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Position Vec2   `json:"position"`
	Inputs   []Port `json:"inputs"`
	Outputs  []Port `json:"outputs"`
}

// InputIndex returns the index of the input port with the given id, or -1.
func (n *Node) InputIndex(portID string) int {
	for i := range n.Inputs {
		if n.Inputs[i].ID == portID {
			return i
		}
	}
	return -1
}

// OutputIndex returns the index of the output port with the given id, or -1.
func (n *Node) OutputIndex(portID string) int {
	for i := range n.Outputs {
		if n.Outputs[i].ID == portID {
			return i
		}
	}
	return -1
}

// PortRef identifies one end of a connection: a port on a node.
type PortRef struct {
	NodeID string `json:"nodeId"`
	PortID string `json:"portId"`
}

// Connection is a directed cable. From always references an output port and
// To always references an input port; AddConnection enforces this.
type Connection struct {
	// ID is unique within the graph.
	ID   string  `json:"id"`
	From PortRef `json:"from"`
	To   PortRef `json:"to"`
}

// Touches reports whether either end of the connection references nodeID.
func (c *Connection) Touches(nodeID string) bool {
	return c.From.NodeID == nodeID || c.To.NodeID == nodeID
}

// Graph is one editable node graph: nodes, cables, and the pan/zoom state of
// its canvas. A Graph round-trips through JSON unchanged, which is all the
// persistence collaborator needs.
type Graph struct {
	Nodes       []Node        `json:"nodes"`
	Connections []Connection  `json:"connections"`
	View        ViewTransform `json:"viewTransform"`
}

// NewGraph returns an empty graph with the identity-ish default view
// (no pan, scale 1).
func NewGraph() *Graph {
	return &Graph{
		Nodes:       []Node{},
		Connections: []Connection{},
		View:        ViewTransform{Scale: 1},
	}
}

// NodeByID returns a pointer to the node with the given id, or nil.
// The pointer aliases the graph's backing slice; it is invalidated by any
// mutation that replaces Nodes.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// ConnectionByID returns a pointer to the connection with the given id, or nil.
func (g *Graph) ConnectionByID(id string) *Connection {
	for i := range g.Connections {
		if g.Connections[i].ID == id {
			return &g.Connections[i]
		}
	}
	return nil
}

// portDirection reports where ref resolves on the graph: onto an output port,
// an input port, or nowhere.
type portDirection uint8

const (
	portMissing portDirection = iota
	portIsInput
	portIsOutput
)

// resolvePort locates ref's port on its node. Missing node or port yields
// portMissing; callers treat that as a recoverable race, not an error.
func (g *Graph) resolvePort(ref PortRef) portDirection {
	n := g.NodeByID(ref.NodeID)
	if n == nil {
		return portMissing
	}
	if n.OutputIndex(ref.PortID) >= 0 {
		return portIsOutput
	}
	if n.InputIndex(ref.PortID) >= 0 {
		return portIsInput
	}
	return portMissing
}

// connectionAllowed is the single predicate guarding connection creation:
// from must resolve to an output port and to must resolve to an input port.
// Port types are deliberately not compared here; a stricter compatibility
// rule would slot into this function without touching the controller.
func connectionAllowed(g *Graph, from, to PortRef) bool {
	return g.resolvePort(from) == portIsOutput && g.resolvePort(to) == portIsInput
}
