package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithOutput("debug", "json", &buf)

	logger.WithField("trace_id", "abc").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "abc", entry["trace_id"])
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := newWithOutput("loud", "text", &bytes.Buffer{})
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, logger.Formatter)
}
