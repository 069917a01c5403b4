package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/encodeous/topomon/state"
	"github.com/encodeous/topomon/topology"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	lightBlue  = color.RGBA{R: 173, G: 216, B: 230, A: 255}
	lightGreen = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	gray       = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	blue       = color.RGBA{B: 255, A: 255}
)

type panelStyle struct {
	title string
	node  color.Color
	edge  color.Color
}

var (
	originalPanel  = panelStyle{title: "Original Topology", node: lightBlue, edge: gray}
	optimizedPanel = panelStyle{title: "Optimized Topology (Kruskal)", node: lightGreen, edge: blue}
)

const (
	plotWidth  = 12 * vg.Inch
	plotHeight = 5 * vg.Inch
	plotDpi    = 100
	// the layout lives in [-1, 1], leave room for node markers
	plotBound = 1.25
)

// PlotRenderer draws the graph and its spanning forest side by side, with the
// nodes at the same positions in both panels.
type PlotRenderer struct {
	Seed int64
	Dot  bool
}

func (r *PlotRenderer) Render(w io.Writer, g, forest *topology.Graph) error {
	layout := SpringLayout(g, r.Seed)
	left, err := panel(g, layout, originalPanel)
	if err != nil {
		return err
	}
	right, err := panel(forest, layout, optimizedPanel)
	if err != nil {
		return err
	}

	img := vgimg.NewWith(vgimg.UseWH(plotWidth, plotHeight), vgimg.UseDPI(plotDpi))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Centimeter,
		PadTop:    vg.Millimeter * 3,
		PadBottom: vg.Millimeter * 3,
		PadLeft:   vg.Millimeter * 3,
		PadRight:  vg.Millimeter * 3,
	}
	plots := [][]*plot.Plot{{left, right}}
	canvases := plot.Align(plots, tiles, dc)
	for col, p := range plots[0] {
		p.Draw(canvases[0][col])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err = png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	return nil
}

func panel(g *topology.Graph, layout Layout, style panelStyle) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = style.title
	p.HideAxes()
	p.X.Min, p.X.Max = -plotBound, plotBound
	p.Y.Min, p.Y.Max = -plotBound, plotBound

	edgeLabels := plotter.XYLabels{}
	for _, e := range g.Edges() {
		a, b := layout[e.A], layout[e.B]
		line, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
		if err != nil {
			return nil, err
		}
		line.Color = style.edge
		line.Width = vg.Points(1.5)
		p.Add(line)

		edgeLabels.XYs = append(edgeLabels.XYs, plotter.XY{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2})
		edgeLabels.Labels = append(edgeLabels.Labels, state.FormatBandwidth(e.Bandwidth))
	}

	nodeLabels := plotter.XYLabels{}
	for _, id := range g.Nodes() {
		pos := layout[id]
		nodeLabels.XYs = append(nodeLabels.XYs, plotter.XY{X: pos.X, Y: pos.Y})
		nodeLabels.Labels = append(nodeLabels.Labels, string(id))
	}
	if len(nodeLabels.XYs) == 0 {
		return p, nil
	}

	nodes, err := plotter.NewScatter(nodeLabels.XYs)
	if err != nil {
		return nil, err
	}
	nodes.GlyphStyle.Color = style.node
	nodes.GlyphStyle.Radius = vg.Points(14)
	nodes.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(nodes)

	names, err := centeredLabels(nodeLabels, vg.Points(10))
	if err != nil {
		return nil, err
	}
	p.Add(names)

	if len(edgeLabels.XYs) > 0 {
		bandwidths, err := centeredLabels(edgeLabels, vg.Points(8))
		if err != nil {
			return nil, err
		}
		p.Add(bandwidths)
	}
	return p, nil
}

func centeredLabels(data plotter.XYLabels, size vg.Length) (*plotter.Labels, error) {
	labels, err := plotter.NewLabels(data)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Font.Size = size
	}
	return labels, nil
}

// Save writes the plot for a cycle observed at t into dir and returns the path of the PNG.
// Existing files are never overwritten. With Dot set, a .dot file sharing the PNG's name is
// written next to it.
func (r *PlotRenderer) Save(dir string, t time.Time, g, forest *topology.Graph) (string, error) {
	f, name, err := createUnique(dir, t, "png")
	if err != nil {
		return "", fmt.Errorf("failed to create plot file: %w", err)
	}
	path := f.Name()
	if err = r.Render(f, g, forest); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}

	if r.Dot {
		df, err := os.OpenFile(filepath.Join(dir, name+".dot"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			return path, fmt.Errorf("failed to create dot file: %w", err)
		}
		err = WriteDOT(df, g, forest)
		if cerr := df.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return path, err
		}
	}
	return path, nil
}
