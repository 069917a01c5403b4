// Package source provides the link sources the monitor polls each cycle.
package source

import (
	"context"
	"fmt"

	"github.com/encodeous/topomon/state"
)

// LinkSource supplies the current list of links. Links are returned as observed;
// validation is left to the topology builder.
type LinkSource interface {
	Fetch(ctx context.Context) ([]state.Link, error)
	Close() error
}

// New creates the source selected by cfg.Kind
func New(ctx context.Context, cfg state.SourceCfg) (LinkSource, error) {
	switch cfg.Kind {
	case state.SourceStatic, "":
		return Static(state.StaticLinks()), nil
	case state.SourceFile:
		return &File{Path: cfg.Path}, nil
	case state.SourceHttp:
		return NewHttp(cfg.Url), nil
	case state.SourceRedis:
		return NewRedis(cfg.Redis), nil
	case state.SourceNeo4j:
		n, err := NewNeo4j(ctx, cfg.Neo4j)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
}
