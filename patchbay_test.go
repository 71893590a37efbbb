package patchbay

import "math"

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// testClock is a deterministic millisecond clock for id generation.
type testClock struct {
	ms int64
}

func (c *testClock) now() int64 {
	return c.ms
}

// newTestStore returns a store with a fixed clock starting at 1000ms.
func newTestStore(opts ...StoreOption) (*Store, *testClock) {
	clk := &testClock{ms: 1000}
	opts = append([]StoreOption{WithClock(clk.now)}, opts...)
	return NewStore(opts...), clk
}

// memStorage is an in-memory persistence collaborator.
type memStorage struct {
	graphs map[string]*Graph
	sets   int
}

func newMemStorage() *memStorage {
	return &memStorage{graphs: make(map[string]*Graph)}
}

func (m *memStorage) GetNodeGraph(objectID string) (*Graph, bool) {
	g, ok := m.graphs[objectID]
	return g, ok
}

func (m *memStorage) SetNodeGraph(objectID string, g *Graph) {
	m.graphs[objectID] = g
	m.sets++
}
