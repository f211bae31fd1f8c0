package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   LogLevel
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"Warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.WarnLevel},
		{"", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatConsole, ParseFormat("xml"))
}

func TestValidLevelAndFormat(t *testing.T) {
	assert.True(t, ValidLevel("debug"))
	assert.False(t, ValidLevel("trace"))
	assert.True(t, ValidFormat("JSON"))
	assert.False(t, ValidFormat("pretty"))
}

func TestNewWithWriter_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithWriter(&buf, InfoLevel, FormatJSON).Sugar()
	log.Debugw("hidden", "unit", "a.py")
	log.Infow("checked", "units", 3)
	require.NoError(t, log.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "checked", entry["msg"])
	assert.EqualValues(t, 3, entry["units"])
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithWriter(&buf, WarnLevel, FormatConsole).Sugar()
	log.Warnw("unparsable annotation", "parameter", "x")
	require.NoError(t, log.Sync())

	assert.Contains(t, buf.String(), "unparsable annotation")
	assert.Contains(t, buf.String(), "parameter")
	assert.Contains(t, buf.String(), " | ")
}
