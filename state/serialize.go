package state

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// SnapshotCodec serializes the link list that crosses the secure channel
type SnapshotCodec interface {
	Name() string
	Encode(links []Link) ([]byte, error)
	Decode(data []byte) ([]Link, error)
}

func NewSnapshotCodec(name string) (SnapshotCodec, error) {
	switch name {
	case CodecJson, "":
		return JsonCodec{}, nil
	case CodecProto:
		return ProtoCodec{}, nil
	}
	return nil, fmt.Errorf("unknown snapshot codec %q", name)
}

// JsonCodec writes [["a","b",bw],...], the same document the links are published in
type JsonCodec struct{}

func (JsonCodec) Name() string { return CodecJson }

func (JsonCodec) Encode(links []Link) ([]byte, error) {
	if links == nil {
		links = []Link{}
	}
	return json.Marshal(links)
}

func (JsonCodec) Decode(data []byte) ([]Link, error) {
	links := make([]Link, 0)
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// ProtoCodec writes the same triples as a protobuf ListValue, which is a fair bit smaller for long lists
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return CodecProto }

func (ProtoCodec) Encode(links []Link) ([]byte, error) {
	values := make([]any, 0, len(links))
	for _, l := range links {
		values = append(values, []any{string(l.A), string(l.B), l.Bandwidth})
	}
	list, err := structpb.NewList(values)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(list)
}

func (ProtoCodec) Decode(data []byte) ([]Link, error) {
	list := &structpb.ListValue{}
	if err := proto.Unmarshal(data, list); err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		triple := v.GetListValue()
		if triple == nil || len(triple.GetValues()) != 3 {
			return nil, fmt.Errorf("snapshot entry %d is not a link triple", i)
		}
		a, aok := triple.Values[0].GetKind().(*structpb.Value_StringValue)
		b, bok := triple.Values[1].GetKind().(*structpb.Value_StringValue)
		bw, bwok := triple.Values[2].GetKind().(*structpb.Value_NumberValue)
		if !aok || !bok || !bwok {
			return nil, fmt.Errorf("snapshot entry %d has unexpected value kinds", i)
		}
		links = append(links, Link{
			A:         NodeId(a.StringValue),
			B:         NodeId(b.StringValue),
			Bandwidth: bw.NumberValue,
		})
	}
	return links, nil
}
