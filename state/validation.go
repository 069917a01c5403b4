package state

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"unicode"

	"github.com/robfig/cron/v3"
)

func DirValidator(s string) error {
	info, err := os.Stat(s)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s)
	}
	return nil
}

func NodeIdValidator(id NodeId) error {
	if id == "" {
		return fmt.Errorf("node id must not be empty")
	}
	if len(id) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", id, len(id))
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return fmt.Errorf("node id %q contains a control character", id)
		}
	}
	return nil
}

// LinkValidator checks that a link can become a weighted edge. Errors wrap ErrInvalidInput.
func LinkValidator(l Link) error {
	if err := NodeIdValidator(l.A); err != nil {
		return fmt.Errorf("%w: link %v: %v", ErrInvalidInput, l, err)
	}
	if err := NodeIdValidator(l.B); err != nil {
		return fmt.Errorf("%w: link %v: %v", ErrInvalidInput, l, err)
	}
	if l.A == l.B {
		return fmt.Errorf("%w: link %v is a self-loop", ErrInvalidInput, l)
	}
	if math.IsNaN(l.Bandwidth) || math.IsInf(l.Bandwidth, 0) || l.Bandwidth <= 0 {
		return fmt.Errorf("%w: link %v must have a finite positive bandwidth", ErrInvalidInput, l)
	}
	return nil
}

func ConfigValidator(cfg *Config) error {
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
		}
	} else if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	if !slices.Contains([]string{OnErrorAbort, OnErrorSkip}, cfg.OnError) {
		return fmt.Errorf("on_error must be one of %s, %s; got %q", OnErrorAbort, OnErrorSkip, cfg.OnError)
	}
	if err := DirValidator(cfg.OutputDir); err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}

	switch cfg.Source.Kind {
	case SourceStatic:
	case SourceFile:
		if cfg.Source.Path == "" {
			return fmt.Errorf("source.path is required for the %s source", SourceFile)
		}
	case SourceHttp:
		if cfg.Source.Url == "" {
			return fmt.Errorf("source.url is required for the %s source", SourceHttp)
		}
	case SourceRedis:
		if cfg.Source.Redis.Addr == "" || cfg.Source.Redis.Key == "" {
			return fmt.Errorf("source.redis.addr and source.redis.key are required for the %s source", SourceRedis)
		}
	case SourceNeo4j:
		if cfg.Source.Neo4j.Uri == "" {
			return fmt.Errorf("source.neo4j.uri is required for the %s source", SourceNeo4j)
		}
	default:
		return fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	if cfg.Crypto.KeyBits < MinKeyBits {
		return fmt.Errorf("crypto.key_bits = %d < %d is too small", cfg.Crypto.KeyBits, MinKeyBits)
	}
	if cfg.Crypto.KeyLifetime < 0 {
		return fmt.Errorf("crypto.key_lifetime must not be negative")
	}
	if !slices.Contains([]string{CodecJson, CodecProto}, cfg.Crypto.Codec) {
		return fmt.Errorf("unknown snapshot codec %q", cfg.Crypto.Codec)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	return nil
}
