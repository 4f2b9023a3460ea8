package tadau

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEventName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces removed", "event name 1", "eventname1"},
		{"hyphens kept", "ads-event", "ads-event"},
		{"punctuation removed", "a_b.c!", "abc"},
		{"non-ascii removed", "événement", "vnement"},
		{"already clean", "errorEvent2", "errorEvent2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeEventName(tt.input))
		})
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"string", "x", true},
		{"false", false, false},
		{"true", true, true},
		{"zero int", 0, false},
		{"int", 42, true},
		{"zero float", 0.0, false},
		{"float", 1.5, true},
		{"zero int64", int64(0), false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTruthy(tt.value))
		})
	}
}

func TestIsValidParam(t *testing.T) {
	// Reserved keys are rejected regardless of value.
	for key := range reservedKeys {
		assert.False(t, isValidParam(key, "value"), "reserved key %q accepted", key)
	}

	assert.True(t, isValidParam("deploy_id", "X"))
	assert.True(t, isValidParam("event_is_impact_action", true))
	assert.False(t, isValidParam("deploy_id", ""))
	assert.False(t, isValidParam("count", 0))
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "launch", Event{"name": "launch"}.name())
	assert.Equal(t, "", Event{}.name())
	assert.Equal(t, "", Event{"name": 7}.name())
}

func TestEventStringField(t *testing.T) {
	ev := Event{"client_id": "abc", "user_id": "", "count": 3}

	assert.Equal(t, "abc", ev.stringField("client_id"))
	assert.Equal(t, "", ev.stringField("user_id"))
	assert.Equal(t, "", ev.stringField("missing"))
	assert.Equal(t, "3", ev.stringField("count"))
}
