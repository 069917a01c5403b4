package topology

import (
	"cmp"
	"slices"

	"github.com/encodeous/topomon/state"
)

type unionFind struct {
	parent []int
	rank   []int
	sets   int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
		sets:   n,
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets of x and y, returning false if they were already joined
func (uf *unionFind) union(x, y int) bool {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return false
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
	uf.sets--
	return true
}

// MinimumSpanningForest runs Kruskal's algorithm over g. Every node of g is kept; a
// disconnected graph yields one tree per component. Equal weights are taken in insertion order.
func MinimumSpanningForest(g *Graph) *Graph {
	order := make([]int, len(g.edges))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(g.edges[a].Weight, g.edges[b].Weight)
	})

	uf := newUnionFind(len(g.nodes))
	selected := make([]bool, len(g.edges))
	remaining := len(g.nodes) - 1
	for _, idx := range order {
		if remaining <= 0 {
			break
		}
		e := g.edges[idx]
		if uf.union(g.indexOf(e.A), g.indexOf(e.B)) {
			selected[idx] = true
			remaining--
		}
	}

	forest := NewGraph()
	for _, n := range g.nodes {
		forest.AddNode(n)
	}
	for idx, e := range g.edges {
		if selected[idx] {
			forest.edgeIdx[e.Key()] = len(forest.edges)
			forest.edges = append(forest.edges, e)
		}
	}
	return forest
}

// Optimize builds the graph for links and its minimum spanning forest.
func Optimize(links []state.Link) (graph *Graph, forest *Graph, err error) {
	graph, err = Build(links)
	if err != nil {
		return nil, nil, err
	}
	return graph, MinimumSpanningForest(graph), nil
}
