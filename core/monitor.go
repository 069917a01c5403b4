package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/encodeous/topomon/perf"
	"github.com/encodeous/topomon/render"
	"github.com/encodeous/topomon/secure"
	"github.com/encodeous/topomon/source"
	"github.com/encodeous/topomon/state"
	"github.com/encodeous/topomon/topology"
	"github.com/google/uuid"
)

// Monitor performs one observation cycle: fetch the links, pass them through
// the encrypted channel, compute the spanning forest and plot both.
type Monitor struct {
	Source    source.LinkSource
	Keys      *secure.KeyRing
	Codec     state.SnapshotCodec
	Renderer  *render.PlotRenderer
	OutputDir string
	Log       *slog.Logger
	Now       func() time.Time
}

// Report describes a completed cycle.
type Report struct {
	Id             string
	Links          []state.Link
	Graph          *topology.Graph
	Forest         *topology.Graph
	CiphertextSize int
	PlotPath       string
	Duration       time.Duration
}

func NewMonitor(ctx context.Context, cfg *state.Config, log *slog.Logger) (*Monitor, error) {
	src, err := source.New(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	codec, err := state.NewSnapshotCodec(cfg.Crypto.Codec)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return &Monitor{
		Source:    src,
		Keys:      secure.NewKeyRing(cfg.Crypto.KeyBits, cfg.Crypto.KeyLifetime),
		Codec:     codec,
		Renderer:  &render.PlotRenderer{Seed: cfg.Render.Seed, Dot: cfg.Render.Dot},
		OutputDir: cfg.OutputDir,
		Log:       log,
		Now:       time.Now,
	}, nil
}

func (m *Monitor) RunCycle(ctx context.Context) (*Report, error) {
	start := time.Now()
	r := &Report{Id: uuid.NewString()}
	log := m.Log.With("cycle", r.Id)

	links, err := m.Source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch links: %w", err)
	}
	log.Debug("fetched links", "count", len(links))
	for _, l := range links {
		if err = state.LinkValidator(l); err != nil {
			return nil, err
		}
	}

	kp, err := m.Keys.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain keypair: %w", err)
	}
	snapshot, err := m.Codec.Encode(links)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	encStart := time.Now()
	ct, pt, err := secure.RoundTrip(snapshot, kp)
	if err != nil {
		return nil, err
	}
	perf.EncryptLatency.Add(float64(time.Since(encStart).Microseconds()))
	perf.SnapshotSize.Add(float64(len(snapshot)))
	r.CiphertextSize = len(ct)
	log.Info("link snapshot encrypted", "codec", m.Codec.Name(), "plaintext", len(snapshot), "ciphertext", len(ct))

	r.Links, err = m.Codec.Decode(pt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	log.Info("link snapshot decrypted", "links", len(r.Links))

	r.Graph, r.Forest, err = topology.Optimize(r.Links)
	if err != nil {
		return nil, err
	}

	r.PlotPath, err = m.Renderer.Save(m.OutputDir, m.Now(), r.Graph, r.Forest)
	if err != nil {
		return nil, fmt.Errorf("failed to save plot: %w", err)
	}
	log.Info("saved topology plot", "file", r.PlotPath)

	log.Info("optimized topology",
		"nodes", r.Forest.NumNodes(),
		"links", fmt.Sprintf("%d/%d", r.Forest.NumEdges(), r.Graph.NumEdges()),
		"clusters", r.Forest.Components(),
		"bandwidth", state.FormatBandwidth(r.Forest.TotalBandwidth()))
	for _, e := range r.Forest.Edges() {
		log.Info(fmt.Sprintf("%s ↔ %s", e.A, e.B), "bandwidth", state.FormatBandwidth(e.Bandwidth))
	}

	r.Duration = time.Since(start)
	perf.CycleLatency.Add(float64(r.Duration.Milliseconds()))
	perf.ForestBandwidth.Add(r.Forest.TotalBandwidth())
	perf.ObservedLinks.Add(float64(r.Graph.NumEdges()))
	perf.ObservedClusters.Add(float64(r.Forest.Components()))
	return r, nil
}

func (m *Monitor) Close() error {
	return m.Source.Close()
}
