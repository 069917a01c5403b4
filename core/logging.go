package core

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/encodeous/tint"
	"github.com/encodeous/topomon/state"
	slogmulti "github.com/samber/slog-multi"
)

// NewLogger builds the console logger and, when cfg.Path is set, fans out to a log file as well.
// The returned closer releases the log file.
func NewLogger(cfg state.LogCfg, level slog.Level, console io.Writer) (*slog.Logger, io.Closer, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(console, &tint.Options{
			Level:        level,
			AddSource:    false,
			TimeFormat:   "15:04:05",
			CustomPrefix: "topomon",
		}))

	var closer io.Closer = nopCloser{}
	if cfg.Path != "" {
		err := os.MkdirAll(filepath.Dir(cfg.Path), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
