package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"nbgrader-validate/internal/config"

	"github.com/stretchr/testify/require"
)

func TestNewLogWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Logger: config.Logger{Level: 1, Format: "json"}}

	log := NewLogWithWriter(cfg, &buf)
	log.Debug().Msg("hidden")
	log.Info().Str("handler", "validate").Msg("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &payload))
	require.Equal(t, "visible", payload["message"])
	require.Equal(t, "validate", payload["handler"])
	require.Equal(t, "info", payload["level"])
}

func TestNewLogUnknownLevelFallsBackToDebug(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Logger: config.Logger{Level: 42, Format: "json"}}

	log := NewLogWithWriter(cfg, &buf)
	log.Debug().Msg("debug line")

	require.Contains(t, buf.String(), "debug line")
}
