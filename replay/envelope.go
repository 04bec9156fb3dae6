package replay

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var marshalOpts = proto.MarshalOptions{Deterministic: true}

// newEnvelope wraps a payload with its type and sequence number.
func newEnvelope(eventType string, seq uint64, payload map[string]any) (*structpb.Struct, error) {
	fields := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		fields[k] = v
	}
	fields["type"] = eventType
	fields["seq"] = seq
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build %s envelope: %w", eventType, err)
	}
	return st, nil
}

func encodeEnvelope(st *structpb.Struct) (string, error) {
	raw, err := marshalOpts.Marshal(st)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeEnvelope reverses the base64 protobuf encoding of a tape event.
// Numbers come back as float64.
func DecodeEnvelope(envelopeB64 string) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(envelopeB64)
	if err != nil {
		return nil, fmt.Errorf("decode envelope base64: %w", err)
	}
	var st structpb.Struct
	if err := proto.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return st.AsMap(), nil
}

// DecodeEvent prefers the in-memory value and falls back to the envelope.
func DecodeEvent(e Event) (map[string]any, error) {
	if e.Value != nil {
		return e.Value.AsMap(), nil
	}
	return DecodeEnvelope(e.EnvelopeB64)
}

func stringList(items []string) []any {
	out := make([]any, 0, len(items))
	for _, s := range items {
		out = append(out, s)
	}
	return out
}
