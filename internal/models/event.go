package models

import (
	"encoding/json"
	"fmt"
)

// Event field names shared by both functions.
const (
	FieldDetectorID    = "DetectorId"
	FieldFindingRegion = "FindingRegion"
	FieldFindingIDs    = "FindingIds"
)

// Event is the untyped invocation payload.
type Event map[string]any

// ParseEvent decodes a JSON object payload into an Event.
// Any other JSON value (array, string, null...) is rejected.
func ParseEvent(payload []byte) (Event, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("event payload must be a JSON object, got %s", jsonKind(raw))
	}
	return Event(obj), nil
}

// Get returns the raw value of a field and whether it was present.
func (e Event) Get(field string) (any, bool) {
	v, ok := e[field]
	return v, ok
}

// String returns the value of a field when it is a string.
// Absent, null and non-string values all yield an empty string.
func (e Event) String(field string) string {
	s, _ := e[field].(string)
	return s
}

// Strings returns the value of a field as a string slice.
// Non-string elements are skipped; callers are expected to validate first.
func (e Event) Strings(field string) []string {
	switch v := e[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, el := range v {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
