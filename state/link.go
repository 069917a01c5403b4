package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-yaml"
)

type NodeId string

// Link is an undirected network link between two endpoints. Bandwidth is in Mbps.
type Link struct {
	A         NodeId  `yaml:"a" json:"a"`
	B         NodeId  `yaml:"b" json:"b"`
	Bandwidth float64 `yaml:"bandwidth" json:"bandwidth"`
}

func (l Link) String() string {
	return fmt.Sprintf("%s ↔ %s (%s)", l.A, l.B, FormatBandwidth(l.Bandwidth))
}

// MarshalJSON encodes the link as the compact ["a", "b", bandwidth] triple used in snapshots.
func (l Link) MarshalJSON() ([]byte, error) {
	if math.IsNaN(l.Bandwidth) || math.IsInf(l.Bandwidth, 0) {
		return nil, fmt.Errorf("%w: link %s ↔ %s has bandwidth %v", ErrInvalidInput, l.A, l.B, l.Bandwidth)
	}
	return json.Marshal([]any{l.A, l.B, l.Bandwidth})
}

// UnmarshalJSON accepts both the triple and the {"a", "b", "bandwidth"} object form.
func (l *Link) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain Link
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*l = Link(p)
		return nil
	}

	var triple []json.RawMessage
	if err := json.Unmarshal(data, &triple); err != nil {
		return err
	}
	if len(triple) != 3 {
		return fmt.Errorf("link must have 3 elements, got %d", len(triple))
	}
	var a, b string
	if err := json.Unmarshal(triple[0], &a); err != nil {
		return fmt.Errorf("link endpoint a: %w", err)
	}
	if err := json.Unmarshal(triple[1], &b); err != nil {
		return fmt.Errorf("link endpoint b: %w", err)
	}
	var bw float64
	if err := json.Unmarshal(triple[2], &bw); err != nil {
		return fmt.Errorf("link bandwidth: %w", err)
	}
	*l = Link{A: NodeId(a), B: NodeId(b), Bandwidth: bw}
	return nil
}

// UnmarshalYAML accepts the {a, b, bandwidth} mapping and the [a, b, bandwidth] flow sequence,
// so JSON documents in either form load as well.
func (l *Link) UnmarshalYAML(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		type plain Link
		var p plain
		if err := yaml.Unmarshal(data, &p); err != nil {
			return err
		}
		*l = Link(p)
		return nil
	}

	var triple []any
	if err := yaml.Unmarshal(trimmed, &triple); err != nil {
		return err
	}
	if len(triple) != 3 {
		return fmt.Errorf("link must have 3 elements, got %d", len(triple))
	}
	a, aok := triple[0].(string)
	b, bok := triple[1].(string)
	if !aok || !bok {
		return fmt.Errorf("link endpoints must be strings, got %T, %T", triple[0], triple[1])
	}
	var bw float64
	switch v := triple[2].(type) {
	case float64:
		bw = v
	case uint64:
		bw = float64(v)
	case int64:
		bw = float64(v)
	case int:
		bw = float64(v)
	default:
		return fmt.Errorf("link bandwidth must be a number, got %T", triple[2])
	}
	*l = Link{A: NodeId(a), B: NodeId(b), Bandwidth: bw}
	return nil
}

func FormatBandwidth(bw float64) string {
	return strconv.FormatFloat(bw, 'f', -1, 64) + "Mbps"
}

// StaticLinks is the simulated network the monitor observes when no other source is configured.
func StaticLinks() []Link {
	return []Link{
		{"PC1", "PC2", 100},
		{"PC1", "PC3", 85},
		{"PC2", "PC3", 50},
		{"PC3", "PC4", 95},
		{"PC2", "PC4", 40},
		{"PC1", "PC4", 60},
	}
}
