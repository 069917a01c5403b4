package state

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinkValidator(t *testing.T) {
	assert.NoError(t, LinkValidator(Link{"PC1", "PC2", 100}))
	assert.NoError(t, LinkValidator(Link{"PC1", "PC2", 0.001}))

	for _, l := range []Link{
		{"PC1", "PC2", 0},
		{"PC1", "PC2", -40},
		{"PC1", "PC2", math.NaN()},
		{"PC1", "PC2", math.Inf(1)},
		{"PC1", "PC1", 10},
		{"", "PC2", 10},
		{"PC1", "bad\nid", 10},
	} {
		err := LinkValidator(l)
		assert.ErrorIs(t, err, ErrInvalidInput, "link %v", l)
	}
}

func TestNodeIdValidator(t *testing.T) {
	assert.NoError(t, NodeIdValidator("core-switch.1"))
	assert.ErrorContains(t, NodeIdValidator(NodeId(make([]byte, 101))), "too long")
}

func sampleConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Interval:  DefaultInterval,
		OutputDir: t.TempDir(),
		OnError:   OnErrorAbort,
		Source:    SourceCfg{Kind: SourceStatic},
		Crypto:    CryptoCfg{KeyBits: DefaultKeyBits, Codec: CodecJson},
		Log:       LogCfg{Level: "info"},
	}
}

func TestConfigValidator(t *testing.T) {
	assert.NoError(t, ConfigValidator(sampleConfig(t)))

	cases := map[string]func(c *Config){
		"interval":    func(c *Config) { c.Interval = 0 },
		"schedule":    func(c *Config) { c.Schedule = "every tuesday" },
		"on_error":    func(c *Config) { c.OnError = "retry" },
		"output_dir":  func(c *Config) { c.OutputDir = "/does/not/exist" },
		"source kind": func(c *Config) { c.Source.Kind = "snmp" },
		"file path":   func(c *Config) { c.Source.Kind = SourceFile },
		"http url":    func(c *Config) { c.Source.Kind = SourceHttp },
		"key bits":    func(c *Config) { c.Crypto.KeyBits = 1024 },
		"lifetime":    func(c *Config) { c.Crypto.KeyLifetime = -time.Second },
		"codec":       func(c *Config) { c.Crypto.Codec = "gob" },
		"log level":   func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := sampleConfig(t)
			mutate(cfg)
			assert.Error(t, ConfigValidator(cfg))
		})
	}

	cfg := sampleConfig(t)
	cfg.Interval = 0
	cfg.Schedule = "*/5 * * * *"
	assert.NoError(t, ConfigValidator(cfg))
}
