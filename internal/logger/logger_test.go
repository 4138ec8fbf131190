package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_BadLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}

func TestNewWithConsole_TeesToFile(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	log, err := newWithConsole(&console, dir, zapcore.InfoLevel)
	require.NoError(t, err)
	log.Infow("backend associated", "backend", "mysql")
	log.Debugw("dropped below level")
	require.NoError(t, log.Sync())

	assert.Contains(t, console.String(), "backend associated")
	assert.NotContains(t, console.String(), "dropped below level")

	raw, err := os.ReadFile(filepath.Join(dir, "guacenv.log"))
	require.NoError(t, err)
	line := strings.TrimSpace(string(raw))
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "mysql", rec["backend"])

	// installed globally
	assert.True(t, zap.L().Core().Enabled(zapcore.InfoLevel))
}
