package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/encodeous/topomon/source"
	"github.com/encodeous/topomon/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cycleTime = time.Date(2025, time.January, 2, 3, 4, 5, 0, time.Local)

func testConfig(t *testing.T) *state.Config {
	t.Helper()
	return &state.Config{
		Interval:  state.DefaultInterval,
		OutputDir: t.TempDir(),
		OnError:   state.OnErrorAbort,
		Source:    state.SourceCfg{Kind: state.SourceStatic},
		Crypto:    state.CryptoCfg{KeyBits: state.DefaultKeyBits, Codec: state.CodecJson},
		Render:    state.RenderCfg{Seed: state.DefaultLayoutSeed},
		Log:       state.LogCfg{Level: "debug"},
	}
}

func testMonitor(t *testing.T, cfg *state.Config) (*Monitor, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	logger, closer, err := NewLogger(cfg.Log, slog.LevelDebug, &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	m, err := NewMonitor(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	m.Now = func() time.Time { return cycleTime }
	return m, &out
}

func TestMonitorCycle(t *testing.T) {
	cfg := testConfig(t)
	m, out := testMonitor(t, cfg)

	r, err := m.RunCycle(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, r.Id)
	assert.Equal(t, state.StaticLinks(), r.Links)
	assert.Equal(t, []state.Link{
		{A: "PC1", B: "PC2", Bandwidth: 100},
		{A: "PC1", B: "PC3", Bandwidth: 85},
		{A: "PC3", B: "PC4", Bandwidth: 95},
	}, r.Forest.Links())
	assert.Equal(t, 6, r.Graph.NumEdges())
	assert.Equal(t, 1+state.DefaultKeyBits/8, r.CiphertextSize)
	assert.Positive(t, r.Duration)

	want := filepath.Join(cfg.OutputDir, "network_plot_20250102_030405.png")
	assert.Equal(t, want, r.PlotPath)
	_, err = os.Stat(want)
	assert.NoError(t, err)

	logs := out.String()
	for _, line := range []string{
		"link snapshot encrypted",
		"link snapshot decrypted",
		"saved topology plot",
		"network_plot_20250102_030405.png",
		"PC1 ↔ PC2",
		"PC1 ↔ PC3",
		"PC3 ↔ PC4",
		"280Mbps",
	} {
		assert.Contains(t, logs, line)
	}
	assert.NotContains(t, logs, "PC2 ↔ PC4")
}

func TestMonitorConsecutiveCycles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Crypto.Codec = state.CodecProto
	cfg.Render.Dot = true
	m, _ := testMonitor(t, cfg)

	first, err := m.RunCycle(context.Background())
	require.NoError(t, err)
	second, err := m.RunCycle(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Id, second.Id)
	assert.NotEqual(t, first.PlotPath, second.PlotPath)
	assert.Equal(t, first.Forest.Links(), second.Forest.Links())

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

type failingSource struct{ err error }

func (f failingSource) Fetch(ctx context.Context) ([]state.Link, error) { return nil, f.err }
func (f failingSource) Close() error                                    { return nil }

func TestMonitorFailures(t *testing.T) {
	cfg := testConfig(t)
	m, _ := testMonitor(t, cfg)

	unreachable := errors.New("unreachable")
	m.Source = failingSource{unreachable}
	_, err := m.RunCycle(context.Background())
	assert.ErrorIs(t, err, unreachable)

	m.Source = source.Static{{A: "PC1", B: "PC2", Bandwidth: 0}}
	_, err = m.RunCycle(context.Background())
	assert.ErrorIs(t, err, state.ErrInvalidInput)

	m.Source = source.Static(state.StaticLinks())
	m.OutputDir = filepath.Join(cfg.OutputDir, "missing")
	_, err = m.RunCycle(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMonitorNonFiniteBandwidth(t *testing.T) {
	cfg := testConfig(t)
	m, _ := testMonitor(t, cfg)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	mr.HSet(state.DefaultRedisKey, "PC1,PC2", "NaN")
	src := source.NewRedis(state.RedisCfg{Addr: mr.Addr(), Key: state.DefaultRedisKey})
	t.Cleanup(func() { _ = src.Close() })
	m.Source = src
	_, err := m.RunCycle(ctx)
	assert.ErrorIs(t, err, state.ErrInvalidInput)

	for _, codec := range []state.SnapshotCodec{state.JsonCodec{}, state.ProtoCodec{}} {
		m.Codec = codec
		for _, bw := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
			m.Source = source.Static{{A: "PC1", B: "PC2", Bandwidth: bw}}
			_, err = m.RunCycle(ctx)
			assert.ErrorIs(t, err, state.ErrInvalidInput, "%s codec, bandwidth %v", codec.Name(), bw)
		}
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMonitorEmptyLinks(t *testing.T) {
	cfg := testConfig(t)
	m, _ := testMonitor(t, cfg)
	m.Source = source.Static{}

	r, err := m.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, r.Graph.NumNodes())
	assert.Equal(t, 0, r.Forest.NumEdges())
	assert.FileExists(t, r.PlotPath)
}

func TestMonitorReusesKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.Crypto.KeyLifetime = time.Hour
	m, _ := testMonitor(t, cfg)

	a, err := m.Keys.Current()
	require.NoError(t, err)
	_, err = m.RunCycle(context.Background())
	require.NoError(t, err)
	b, err := m.Keys.Current()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestScheduledMonitor(t *testing.T) {
	cfg := testConfig(t)
	m, _ := testMonitor(t, cfg)
	m.Now = time.Now

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make([]string, 0)
	s := &Scheduler{Interval: cfg.Interval, OnError: cfg.OnError}
	s.Sleeper = &fakeSleeper{s: s, limit: 2, cancel: cancel, events: &events}

	reports := make([]*Report, 0)
	require.NoError(t, s.Run(ctx, func(ctx context.Context) error {
		r, err := m.RunCycle(ctx)
		if err == nil {
			reports = append(reports, r)
		}
		return err
	}))
	require.Len(t, reports, 2)
	assert.FileExists(t, reports[0].PlotPath)
	assert.FileExists(t, reports[1].PlotPath)
}

func TestLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "topomon.log")
	var console bytes.Buffer
	logger, closer, err := NewLogger(state.LogCfg{Path: path}, slog.LevelInfo, &console)
	require.NoError(t, err)
	logger.Info("hello from the monitor", "cycle", "abc")
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the monitor")
	assert.Contains(t, string(data), "cycle=abc")
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, console.String(), "hello from the monitor")
	assert.NotContains(t, console.String(), "hidden")
}
