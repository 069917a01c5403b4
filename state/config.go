package state

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"` // hash holding "<a>,<b>" -> bandwidth
}

type Neo4jCfg struct {
	Uri      string `mapstructure:"uri"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// SourceCfg selects where link data comes from each cycle
type SourceCfg struct {
	Kind  string   `mapstructure:"kind"`
	Path  string   `mapstructure:"path"` // file source
	Url   string   `mapstructure:"url"`  // http source
	Redis RedisCfg `mapstructure:"redis"`
	Neo4j Neo4jCfg `mapstructure:"neo4j"`
}

type CryptoCfg struct {
	KeyBits int `mapstructure:"key_bits"`
	// KeyLifetime is how long a keypair is reused. Zero regenerates the keypair every cycle.
	KeyLifetime time.Duration `mapstructure:"key_lifetime"`
	Codec       string        `mapstructure:"codec"`
}

type RenderCfg struct {
	Seed int64 `mapstructure:"seed"`
	Dot  bool  `mapstructure:"dot"` // also write a graphviz twin of each plot
}

type LogCfg struct {
	Path  string `mapstructure:"path"` // if not empty, logs are also written to this file
	Level string `mapstructure:"level"`
}

type DebugCfg struct {
	Listen string `mapstructure:"listen"` // serves expvar and metrics when set
}

// Config is the monitor configuration. The zero-flag, zero-file defaults reproduce the plain five minute loop.
type Config struct {
	Interval  time.Duration `mapstructure:"interval"`
	Schedule  string        `mapstructure:"schedule"` // cron expression, replaces Interval when set
	OutputDir string        `mapstructure:"output_dir"`
	OnError   string        `mapstructure:"on_error"`
	Source    SourceCfg     `mapstructure:"source"`
	Crypto    CryptoCfg     `mapstructure:"crypto"`
	Render    RenderCfg     `mapstructure:"render"`
	Log       LogCfg        `mapstructure:"log"`
	Debug     DebugCfg      `mapstructure:"debug"`
}

func SetConfigDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("schedule", "")
	v.SetDefault("output_dir", ".")
	v.SetDefault("on_error", OnErrorAbort)

	v.SetDefault("source.kind", SourceStatic)
	v.SetDefault("source.path", "")
	v.SetDefault("source.url", "")
	v.SetDefault("source.redis.addr", "localhost:6379")
	v.SetDefault("source.redis.password", "")
	v.SetDefault("source.redis.db", 0)
	v.SetDefault("source.redis.key", DefaultRedisKey)
	v.SetDefault("source.neo4j.uri", "neo4j://localhost")
	v.SetDefault("source.neo4j.user", "")
	v.SetDefault("source.neo4j.password", "")
	v.SetDefault("source.neo4j.database", DefaultNeo4jDbName)

	v.SetDefault("crypto.key_bits", DefaultKeyBits)
	v.SetDefault("crypto.key_lifetime", time.Duration(0))
	v.SetDefault("crypto.codec", CodecJson)

	v.SetDefault("render.seed", DefaultLayoutSeed)
	v.SetDefault("render.dot", false)

	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("debug.listen", "")
}

// LoadConfig reads .env, the optional config file and TOPOMON_* environment overrides.
// An empty path looks for topomon.yaml in the working directory and tolerates its absence.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	SetConfigDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := ConfigValidator(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
