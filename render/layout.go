package render

import (
	"math"
	"math/rand/v2"

	"github.com/encodeous/topomon/state"
	"github.com/encodeous/topomon/topology"
)

type Position struct {
	X, Y float64
}

// Layout maps every node of a graph to its position in [-1, 1]².
type Layout map[state.NodeId]Position

// SpringLayout places the nodes of g with the Fruchterman-Reingold force model.
// Edges attract with a strength proportional to their weight. The result only
// depends on g and seed.
func SpringLayout(g *topology.Graph, seed int64) Layout {
	nodes := g.Nodes()
	n := len(nodes)
	out := make(Layout, n)
	if n == 0 {
		return out
	}
	if n == 1 {
		out[nodes[0]] = Position{}
		return out
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	pos := make([]Position, n)
	for i := range pos {
		pos[i] = Position{r.Float64(), r.Float64()}
	}

	adj := make([][]float64, n)
	for i := range adj {
		adj[i] = make([]float64, n)
	}
	idx := make(map[state.NodeId]int, n)
	for i, id := range nodes {
		idx[id] = i
	}
	for _, e := range g.Edges() {
		a, b := idx[e.A], idx[e.B]
		adj[a][b] = e.Weight
		adj[b][a] = e.Weight
	}

	k := math.Sqrt(1 / float64(n))
	temp := 0.1
	dt := temp / float64(state.LayoutIterations+1)
	disp := make([]Position, n)
	for range state.LayoutIterations {
		for i := range disp {
			disp[i] = Position{}
			for j := range pos {
				if i == j {
					continue
				}
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := max(math.Hypot(dx, dy), 0.01)
				f := k*k/(dist*dist) - adj[i][j]*dist/k
				disp[i].X += dx * f
				disp[i].Y += dy * f
			}
		}
		moved := 0.0
		for i := range pos {
			length := math.Hypot(disp[i].X, disp[i].Y)
			if length < 0.01 {
				length = 0.1
			}
			stepX := disp[i].X * temp / length
			stepY := disp[i].Y * temp / length
			pos[i].X += stepX
			pos[i].Y += stepY
			moved += math.Hypot(stepX, stepY)
		}
		temp -= dt
		if moved/float64(n) < 1e-4 {
			break
		}
	}

	rescale(pos)
	for i, id := range nodes {
		out[id] = pos[i]
	}
	return out
}

// rescale centers pos on the origin and scales the largest coordinate to 1.
func rescale(pos []Position) {
	var cx, cy float64
	for _, p := range pos {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pos))
	cy /= float64(len(pos))
	lim := 0.0
	for i := range pos {
		pos[i].X -= cx
		pos[i].Y -= cy
		lim = max(lim, math.Abs(pos[i].X), math.Abs(pos[i].Y))
	}
	if lim == 0 {
		return
	}
	for i := range pos {
		pos[i].X /= lim
		pos[i].Y /= lim
	}
}
