package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l := InitLogger(Options{Level: "warn", File: file, MaxSize: 1})
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	assert.Same(t, l, zap.L())
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	Sugar.Warn("写入文件")
	_ = l.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "写入文件")
}

func TestInitLogger_BadLevel(t *testing.T) {
	l := InitLogger(Options{Level: "loud"})
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
