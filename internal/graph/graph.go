package graph

import "github.com/dottormarmitta/FutureExchange/internal/orderbook"

// Graph stores instruments as outgoing edges per vertex. It holds no
// pricing logic. Vertices outside [0, VertexCount) are a caller error and
// are not checked.
type Graph struct {
	vertexCount int
	edges       int
	adj         [][]*Edge
}

func New(vertexCount int) *Graph {
	return &Graph{vertexCount: vertexCount, adj: make([][]*Edge, vertexCount)}
}

func (g *Graph) VertexCount() int { return g.vertexCount }
func (g *Graph) EdgeCount() int   { return g.edges }

// AddEdge appends e to the adjacency list of e.From(). Insertion order
// decides ties in the search.
func (g *Graph) AddEdge(e *Edge) {
	g.adj[e.From()] = append(g.adj[e.From()], e)
	g.edges++
}

// AddInstrument wires both views of one ladder, natural first.
func (g *Graph) AddInstrument(from, to Vertex, l *orderbook.Ladder) {
	natural, mirror := NewInstrument(from, to, l)
	g.AddEdge(natural)
	g.AddEdge(mirror)
}

// Adjacent returns the outgoing edges of v. The slice must not be modified.
func (g *Graph) Adjacent(v Vertex) []*Edge { return g.adj[v] }
