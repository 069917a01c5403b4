// Package topology turns observed links into a weighted graph and computes the
// minimum spanning forest used as the optimized topology.
//
// Edge cost is the inverse of bandwidth, so the minimum spanning forest is the
// spanning forest with the highest bandwidth links.
package topology

import (
	"slices"

	"github.com/encodeous/topomon/state"
)

type Edge struct {
	A         state.NodeId
	B         state.NodeId
	Bandwidth float64
	Weight    float64
}

func (e Edge) Link() state.Link {
	return state.Link{A: e.A, B: e.B, Bandwidth: e.Bandwidth}
}

func (e Edge) Key() state.Pair[state.NodeId, state.NodeId] {
	return state.MakeSortedPair(e.A, e.B)
}

// Graph is an undirected weighted graph. Nodes and edges keep insertion order.
type Graph struct {
	nodes   []state.NodeId
	nodeIdx map[state.NodeId]int
	edges   []Edge
	edgeIdx map[state.Pair[state.NodeId, state.NodeId]]int
}

func NewGraph() *Graph {
	return &Graph{
		nodes:   make([]state.NodeId, 0),
		nodeIdx: make(map[state.NodeId]int),
		edges:   make([]Edge, 0),
		edgeIdx: make(map[state.Pair[state.NodeId, state.NodeId]]int),
	}
}

// Build creates the weighted graph for a list of links. An empty list yields an empty graph.
func Build(links []state.Link) (*Graph, error) {
	g := NewGraph()
	for _, l := range links {
		if err := g.AddLink(l); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) AddNode(id state.NodeId) {
	if _, ok := g.nodeIdx[id]; ok {
		return
	}
	g.nodeIdx[id] = len(g.nodes)
	g.nodes = append(g.nodes, id)
}

// AddLink adds the link as an edge weighted 1/bandwidth.
// A link between an already connected pair replaces that edge's bandwidth in place.
func (g *Graph) AddLink(l state.Link) error {
	if err := state.LinkValidator(l); err != nil {
		return err
	}
	g.AddNode(l.A)
	g.AddNode(l.B)
	e := Edge{A: l.A, B: l.B, Bandwidth: l.Bandwidth, Weight: 1 / l.Bandwidth}
	if idx, ok := g.edgeIdx[e.Key()]; ok {
		g.edges[idx].Bandwidth = e.Bandwidth
		g.edges[idx].Weight = e.Weight
		return nil
	}
	g.edgeIdx[e.Key()] = len(g.edges)
	g.edges = append(g.edges, e)
	return nil
}

func (g *Graph) Nodes() []state.NodeId {
	return slices.Clone(g.nodes)
}

func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumEdges() int {
	return len(g.edges)
}

func (g *Graph) HasEdge(a, b state.NodeId) bool {
	_, ok := g.edgeIdx[state.MakeSortedPair(a, b)]
	return ok
}

func (g *Graph) Edge(a, b state.NodeId) (Edge, bool) {
	idx, ok := g.edgeIdx[state.MakeSortedPair(a, b)]
	if !ok {
		return Edge{}, false
	}
	return g.edges[idx], true
}

func (g *Graph) Links() []state.Link {
	links := make([]state.Link, 0, len(g.edges))
	for _, e := range g.edges {
		links = append(links, e.Link())
	}
	return links
}

// Components counts connected components, isolated nodes included.
func (g *Graph) Components() int {
	uf := newUnionFind(len(g.nodes))
	for _, e := range g.edges {
		uf.union(g.nodeIdx[e.A], g.nodeIdx[e.B])
	}
	return uf.sets
}

func (g *Graph) TotalWeight() float64 {
	total := 0.0
	for _, e := range g.edges {
		total += e.Weight
	}
	return total
}

func (g *Graph) TotalBandwidth() float64 {
	total := 0.0
	for _, e := range g.edges {
		total += e.Bandwidth
	}
	return total
}

func (g *Graph) indexOf(id state.NodeId) int {
	return g.nodeIdx[id]
}
