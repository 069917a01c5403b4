package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/encodeous/topomon/state"
	"github.com/encodeous/topomon/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var observedAt = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func scenario(t *testing.T) (*topology.Graph, *topology.Graph) {
	t.Helper()
	g, forest, err := topology.Optimize(state.StaticLinks())
	require.NoError(t, err)
	return g, forest
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "network_plot_20240305_140709.png", Filename(observedAt, "png"))
	assert.Equal(t, "network_plot_20240305_140709.dot", Filename(observedAt, "dot"))
}

func TestSpringLayout(t *testing.T) {
	g, _ := scenario(t)
	layout := SpringLayout(g, state.DefaultLayoutSeed)
	require.Len(t, layout, 4)

	extent := 0.0
	for _, p := range layout {
		assert.LessOrEqual(t, math.Abs(p.X), 1.0+1e-9)
		assert.LessOrEqual(t, math.Abs(p.Y), 1.0+1e-9)
		extent = max(extent, math.Abs(p.X), math.Abs(p.Y))
	}
	assert.InDelta(t, 1.0, extent, 1e-9)

	assert.Equal(t, layout, SpringLayout(g, state.DefaultLayoutSeed))
	assert.NotEqual(t, layout, SpringLayout(g, state.DefaultLayoutSeed+1))
}

func TestSpringLayoutSmall(t *testing.T) {
	assert.Empty(t, SpringLayout(topology.NewGraph(), 1))

	g := topology.NewGraph()
	g.AddNode("solo")
	assert.Equal(t, Layout{"solo": {}}, SpringLayout(g, 1))
}

func hasColor(img image.Image, c color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)) == c {
				return true
			}
		}
	}
	return false
}

func TestRender(t *testing.T) {
	g, forest := scenario(t)
	var buf bytes.Buffer
	r := &PlotRenderer{Seed: state.DefaultLayoutSeed}
	require.NoError(t, r.Render(&buf, g, forest))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
	assert.True(t, hasColor(img, lightBlue), "original panel nodes")
	assert.True(t, hasColor(img, lightGreen), "optimized panel nodes")
}

func TestRenderEmpty(t *testing.T) {
	g, forest, err := topology.Optimize(nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, (&PlotRenderer{}).Render(&buf, g, forest))
	_, err = png.Decode(&buf)
	assert.NoError(t, err)
}

func TestSaveNeverOverwrites(t *testing.T) {
	g, forest := scenario(t)
	dir := t.TempDir()
	r := &PlotRenderer{Seed: state.DefaultLayoutSeed, Dot: true}

	first, err := r.Save(dir, observedAt, g, forest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "network_plot_20240305_140709.png"), first)

	second, err := r.Save(dir, observedAt, g, forest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "network_plot_20240305_140709_1.png"), second)

	for _, name := range []string{
		"network_plot_20240305_140709.png",
		"network_plot_20240305_140709.dot",
		"network_plot_20240305_140709_1.png",
		"network_plot_20240305_140709_1.dot",
	} {
		st, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, st.Size(), name)
	}
}

func TestSaveMissingDir(t *testing.T) {
	g, forest := scenario(t)
	_, err := (&PlotRenderer{}).Save(filepath.Join(t.TempDir(), "nope"), observedAt, g, forest)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteDOT(t *testing.T) {
	g, forest := scenario(t)
	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, g, forest))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "graph topology {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"PC1" -- "PC2" [label="100Mbps", color=blue, penwidth=2];`)
	assert.Contains(t, out, `"PC2" -- "PC4" [label="40Mbps", color=gray, style=dashed];`)
	assert.Equal(t, 3, strings.Count(out, "color=blue"))
	assert.Equal(t, 3, strings.Count(out, "color=gray"))
}
