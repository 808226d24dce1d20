package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevelPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		env      string
		expected log.Level
	}{
		{name: "default is warn", expected: log.WarnLevel},
		{name: "env var applies", env: "debug", expected: log.DebugLevel},
		{name: "flag beats env var", flag: "error", env: "debug", expected: log.ErrorLevel},
		{name: "unknown level falls back", flag: "loud", expected: log.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ICCVIEW_LOG_LEVEL", tt.env)
			require.NoError(t, Configure(tt.flag, ""))
			assert.Equal(t, tt.expected, Logger.GetLevel())
		})
	}
}

func TestConfigureLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iccview.log")
	require.NoError(t, Configure("info", path))

	Info("log file smoke test")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log file smoke test")
}

func TestConfigureRejectsUnwritableLogFile(t *testing.T) {
	err := Configure("info", filepath.Join(t.TempDir(), "missing", "iccview.log"))
	assert.Error(t, err)
}

func TestNewStyledLoggerMatchesGlobal(t *testing.T) {
	t.Setenv("ICCVIEW_LOG_LEVEL", "")
	require.NoError(t, Configure("debug", ""))

	component := NewStyledLogger("Binding")
	assert.Equal(t, "Binding ", component.GetPrefix())
	assert.Equal(t, Logger.GetLevel(), component.GetLevel())
}
