package perf

import (
	"context"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"time"

	"github.com/encodeous/metric"
)

var (
	CycleLatency     = metric.NewHistogram("1h1m")
	EncryptLatency   = metric.NewHistogram("1h1m")
	SnapshotSize     = metric.NewHistogram("1h1m")
	CyclesCompleted  = metric.NewCounter("1h1m")
	CyclesFailed     = metric.NewCounter("1h1m")
	ForestBandwidth  = metric.NewGauge("1h1m")
	ObservedLinks    = metric.NewGauge("1h1m")
	ObservedClusters = metric.NewGauge("1h1m")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("topomon:CycleLatency (ms)", CycleLatency)
	expvar.Publish("topomon:EncryptLatency (µs)", EncryptLatency)
	expvar.Publish("topomon:SnapshotSize (bytes)", SnapshotSize)
	expvar.Publish("topomon:CyclesCompleted", CyclesCompleted)
	expvar.Publish("topomon:CyclesFailed", CyclesFailed)
	expvar.Publish("topomon:ForestBandwidth (Mbps)", ForestBandwidth)
	expvar.Publish("topomon:ObservedLinks", ObservedLinks)
	expvar.Publish("topomon:ObservedClusters", ObservedClusters)
}

// Serve exposes /debug/vars and /debug/metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, log *slog.Logger) {
	srv := &http.Server{Addr: addr, Handler: http.DefaultServeMux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("debug listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("debug listener failed", "error", err)
	}
}
