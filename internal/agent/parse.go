// Package agent turns the loosely structured payloads a voice agent sends
// into booking requests.  Parsing accepts the envelopes agents commonly
// wrap tool arguments in; normalization maps field aliases onto the
// booking contract; the matcher picks a room when the agent only named a
// category.
package agent

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/jsonc"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
)

// Fields is a reservation object as the agent sent it, before aliases are
// resolved.
type Fields map[string]any

// maxNesting bounds how many JSON-in-a-string layers are unwrapped.
const maxNesting = 4

// ErrUnrecognizedPayload is returned by Parse when no reservation object
// can be found in the payload.
var ErrUnrecognizedPayload = apperr.New(apperr.MissingField, "Unrecognized agent payload")

// Parse extracts the reservation object from raw.  It looks, in order, for
// a "reservation" key, "data.reservation", a tool-call envelope
// ("parameters", "tool_call.parameters" or "arguments"), a JSON document
// encoded as a string, and finally a bare reservation object.  Comments and
// trailing commas are tolerated.
func Parse(raw []byte) (Fields, error) {
	v, ok := decode(raw)
	if !ok {
		return nil, ErrUnrecognizedPayload
	}
	f, ok := extract(v, 0)
	if !ok {
		return nil, ErrUnrecognizedPayload
	}
	return f, nil
}

func decode(raw []byte) (any, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(jsonc.ToJSON(raw), &v); err != nil {
		return nil, false
	}
	return v, true
}

func extract(v any, depth int) (Fields, bool) {
	if depth > maxNesting {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		inner, ok := decode([]byte(t))
		if !ok {
			return nil, false
		}
		return extract(inner, depth+1)
	case map[string]any:
		return extractObject(t, depth)
	}
	return nil, false
}

func extractObject(m map[string]any, depth int) (Fields, bool) {
	if r, ok := m["reservation"]; ok {
		return extract(r, depth+1)
	}
	if d, ok := m["data"].(map[string]any); ok {
		if r, ok := d["reservation"]; ok {
			return extract(r, depth+1)
		}
	}
	if p, ok := m["parameters"]; ok {
		return extract(p, depth+1)
	}
	if tc, ok := m["tool_call"].(map[string]any); ok {
		if p, ok := tc["parameters"]; ok {
			return extract(p, depth+1)
		}
		if a, ok := tc["arguments"]; ok {
			return extract(a, depth+1)
		}
	}
	if a, ok := m["arguments"]; ok {
		return extract(a, depth+1)
	}
	if looksLikeReservation(m) {
		return Fields(m), true
	}
	return nil, false
}

// looksLikeReservation reports whether m carries at least one field the
// normalizer understands.
func looksLikeReservation(m map[string]any) bool {
	for _, keys := range aliases {
		for _, k := range keys {
			if _, ok := m[k]; ok {
				return true
			}
		}
	}
	return false
}
