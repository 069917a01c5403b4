package source

import (
	"context"
	"fmt"
	"os"

	"github.com/encodeous/topomon/state"
	"github.com/goccy/go-yaml"
)

type linkDocument struct {
	Links []state.Link `yaml:"links"`
}

// File reads links from a YAML (or JSON) document of the form {links: [...]}, where each
// link is either {a, b, bandwidth} or the [a, b, bandwidth] triple.
// The file is re-read on every fetch so edits are picked up by the next cycle.
type File struct {
	Path string
}

func (f *File) Fetch(ctx context.Context) ([]state.Link, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return ParseLinks(data)
}

func (f *File) Close() error {
	return nil
}

func ParseLinks(data []byte) ([]state.Link, error) {
	doc := linkDocument{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse links: %w", err)
	}
	if doc.Links == nil {
		doc.Links = make([]state.Link, 0)
	}
	return doc.Links, nil
}

func MarshalLinks(links []state.Link) ([]byte, error) {
	return yaml.Marshal(linkDocument{Links: links})
}
