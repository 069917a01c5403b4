package source

import (
	"context"
	"slices"

	"github.com/encodeous/topomon/state"
)

// Static always returns the same links
type Static []state.Link

func (s Static) Fetch(ctx context.Context) ([]state.Link, error) {
	return slices.Clone(s), nil
}

func (s Static) Close() error {
	return nil
}
