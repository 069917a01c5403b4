package source

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/encodeous/topomon/state"
	"github.com/redis/go-redis/v9"
)

// Redis reads links from a hash whose fields are "<a>,<b>" and whose values are bandwidths.
// Fields are read in sorted order so the graph is built the same way every cycle.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(cfg state.RedisCfg) *Redis {
	return NewRedisFromClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.Key)
}

func NewRedisFromClient(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

func (r *Redis) Fetch(ctx context.Context) ([]state.Link, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.key, err)
	}
	links := make([]state.Link, 0, len(fields))
	for _, field := range slices.Sorted(maps.Keys(fields)) {
		a, b, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("%s: field %q is not of the form <a>,<b>", r.key, field)
		}
		bw, err := strconv.ParseFloat(strings.TrimSpace(fields[field]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bandwidth of %q: %w", r.key, field, err)
		}
		links = append(links, state.Link{
			A:         state.NodeId(strings.TrimSpace(a)),
			B:         state.NodeId(strings.TrimSpace(b)),
			Bandwidth: bw,
		})
	}
	return links, nil
}

// Publish writes links into the hash, overwriting the bandwidth of existing pairs.
func (r *Redis) Publish(ctx context.Context, links []state.Link) error {
	if len(links) == 0 {
		return nil
	}
	values := make([]any, 0, 2*len(links))
	for _, l := range links {
		values = append(values, string(l.A)+","+string(l.B), strconv.FormatFloat(l.Bandwidth, 'f', -1, 64))
	}
	return r.client.HSet(ctx, r.key, values...).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
