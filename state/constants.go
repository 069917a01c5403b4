package state

import "time"

var (
	// time between the end of one cycle and the start of the next
	DefaultInterval = time.Minute * 5

	DefaultKeyBits = 2048
	// MinKeyBits is the smallest RSA modulus accepted for the secure channel.
	MinKeyBits = 2048

	DefaultLayoutSeed = int64(42)
	LayoutIterations  = 50

	DefaultConfigName = "topomon"
	EnvPrefix         = "TOPOMON"

	HttpSourceTimeout  = time.Second * 10
	// HttpSourceMinGap is the least time between two requests to a link endpoint
	HttpSourceMinGap   = time.Second
	Neo4jSourceTimeout = time.Second * 10

	DefaultRedisKey    = "topomon:links"
	DefaultNeo4jDbName = "neo4j"

	PlotPrefix = "network_plot_"
	// PlotTimeFormat is the timestamp layout embedded in plot filenames (YYYYMMDD_HHMMSS).
	PlotTimeFormat = "20060102_150405"
)

const (
	SourceStatic = "static"
	SourceFile   = "file"
	SourceHttp   = "http"
	SourceRedis  = "redis"
	SourceNeo4j  = "neo4j"
)

const (
	CodecJson  = "json"
	CodecProto = "proto"
)

const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)
