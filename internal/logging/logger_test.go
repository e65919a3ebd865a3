package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(EnvLevel, tt.env)
			require.Equal(t, tt.want, LevelFromEnv())
			require.Equal(t, tt.want == log.DebugLevel, IsDebug())
		})
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvPrefix, "tc")

	var buf bytes.Buffer
	lg := NewLoggerWithWriter(&buf)
	lg.Info("hidden")
	lg.Warn("shown", "file", "a.go")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "tc")
	require.Contains(t, out, "shown")
	require.Contains(t, out, "file=a.go")
	require.NoError(t, lg.Close())
}
