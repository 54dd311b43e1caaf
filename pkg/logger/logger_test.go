package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_ValidLevels tests logger creation with all supported levels
func TestNew_ValidLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{level: "debug", expected: logrus.DebugLevel},
		{level: "info", expected: logrus.InfoLevel},
		{level: "warn", expected: logrus.WarnLevel},
		{level: "error", expected: logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := New(tt.level, "text")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, log.GetLevel())
		})
	}
}

// TestNew_InvalidLevel tests logger creation with an unknown level
func TestNew_InvalidLevel(t *testing.T) {
	log, err := New("verbose", "text")
	require.Error(t, err)
	assert.Nil(t, log)
	assert.Contains(t, err.Error(), "invalid log level")
}

// TestNew_InvalidFormat tests logger creation with an unknown format
func TestNew_InvalidFormat(t *testing.T) {
	log, err := New("info", "xml")
	require.Error(t, err)
	assert.Nil(t, log)
	assert.Contains(t, err.Error(), "invalid log format")
}

// TestJSONOutput tests structured JSON output with fields
func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", "json", &buf)
	require.NoError(t, err)

	log.Info("status collected", "location_id", "100", "rooms", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "status collected", entry["msg"])
	assert.Equal(t, "100", entry["location_id"])
	assert.Equal(t, float64(3), entry["rooms"])
	assert.Equal(t, "info", entry["level"])
}

// TestTextOutput tests text output contains message and fields
func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", "text", &buf)
	require.NoError(t, err)

	log.Warn("callout failed", "error", "Callout failed")

	out := buf.String()
	assert.Contains(t, out, "callout failed")
	assert.Contains(t, out, "Callout failed")
}

// TestLevelFiltering tests that messages below the configured level are dropped
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("warn", "text", &buf)
	require.NoError(t, err)

	log.Debug("dropped")
	log.Info("dropped too")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

// TestWithHelpers tests the context field helpers
func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", "json", &buf)
	require.NoError(t, err)

	log.WithLocationID("100").Info("location")
	log.WithRoomID("200").Info("room")
	log.WithRoomName("Bathroom").Info("name")
	log.WithError(assert.AnError).Info("error")

	out := buf.String()
	assert.Contains(t, out, `"location_id":"100"`)
	assert.Contains(t, out, `"room_id":"200"`)
	assert.Contains(t, out, `"room_name":"Bathroom"`)
	assert.Contains(t, out, assert.AnError.Error())
}

// TestToFields tests variadic key-value conversion
func TestToFields(t *testing.T) {
	fields := toFields([]interface{}{"key", "value", "count", 2})
	assert.Equal(t, logrus.Fields{"key": "value", "count": 2}, fields)

	// Odd trailing argument is ignored
	fields = toFields([]interface{}{"key", "value", "dangling"})
	assert.Equal(t, logrus.Fields{"key": "value"}, fields)
}
