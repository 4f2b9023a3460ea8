package tadau

import (
	"fmt"
	"strings"
)

// Event is a named occurrence with associated key-value parameters.
// The "name" key is required. "client_id" and "user_id" are recognized
// request keys; every other key is forwarded as a custom parameter after
// validation.
type Event map[string]interface{}

// reservedKeys must never be forwarded as custom parameters because they
// carry protocol-level meaning.
var reservedKeys = map[string]struct{}{
	"api_secret":       {},
	"measurement_id":   {},
	"app_instance_id":  {},
	"uuid":             {},
	"timestamp_micros": {},
	"name":             {},
	"client_id":        {},
	"user_id":          {},
}

// eventPayload is one entry in the outbound events array
type eventPayload struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params"`
}

// collectPayload is the wire-format body posted to the collect endpoint.
// Constructed fresh per event, never persisted.
type collectPayload struct {
	NonPersonalizedAds bool           `json:"non_personalized_ads"`
	ClientID           string         `json:"client_id"`
	UserID             string         `json:"user_id,omitempty"`
	Events             []eventPayload `json:"events"`
}

// isValidParam reports whether a key/value pair may be forwarded as a
// custom parameter: the key is not reserved and the value is truthy.
func isValidParam(key string, value interface{}) bool {
	if _, reserved := reservedKeys[key]; reserved {
		return false
	}
	return isTruthy(value)
}

// isTruthy treats nil, empty strings, numeric zero and boolean false as
// absent. Unknown scalar types pass through.
func isTruthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint64:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// sanitizeEventName removes every rune outside [A-Za-z0-9-].
func sanitizeEventName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// name returns the raw event name, or "" when absent or not a string
func (e Event) name() string {
	if v, ok := e["name"].(string); ok {
		return v
	}
	return ""
}

// stringField renders a recognized request key as a string, or "" when
// the value is absent or falsy
func (e Event) stringField(key string) string {
	v, ok := e[key]
	if !ok || !isTruthy(v) {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
