package logx_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/fundme/internal/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := logx.New(&buf, false)
	log.Debug("hidden")
	log.Info("Funding", zap.String("amount", "0.05"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "Funding")
	assert.Contains(t, out, `"amount": "0.05"`)

	buf.Reset()
	logx.New(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNewFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundme.log")

	log, closeFn, err := logx.NewFile(path, false)
	require.NoError(t, err)
	log.Info("first")
	require.NoError(t, closeFn())

	log, closeFn, err = logx.NewFile(path, false)
	require.NoError(t, err)
	log.Info("second")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestNewFileBadPath(t *testing.T) {
	_, _, err := logx.NewFile(filepath.Join(t.TempDir(), "missing", "x.log"), false)
	assert.Error(t, err)
}
