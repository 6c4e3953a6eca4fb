package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigFileRoundTrip(t *testing.T) {
	// write a customized config to a temp data directory
	path := filepath.Join(t.TempDir(), ConfigFilePath)
	config := DefaultConfig()
	config.LogLevel = "debug"
	config.TimeoutBlocks = 3
	config.Owner = MemberID{0xAA}
	require.NoError(t, config.WriteToFile(path))
	// read it back and compare
	got, err := NewConfigFromFile(path)
	require.NoError(t, err)
	require.Equal(t, config, got)
}

func TestConfigFileFillsBlanks(t *testing.T) {
	// a sparse config file inherits the developer defaults for the rest
	path := filepath.Join(t.TempDir(), ConfigFilePath)
	require.NoError(t, os.WriteFile(path, []byte(`{"timeoutBlocks": 42}`), 0o600))
	got, err := NewConfigFromFile(path)
	require.NoError(t, err)
	require.EqualValues(t, 42, got.TimeoutBlocks)
	require.Equal(t, DefaultConfig().LogLevel, got.LogLevel)
	require.Equal(t, DefaultConfig().MaxViewSize, got.MaxViewSize)
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		logLevel string
		expected int32
	}{
		{
			name:     "debug",
			detail:   "the debug string maps to the debug level",
			logLevel: "debug",
			expected: DebugLevel,
		},
		{
			name:     "info",
			detail:   "matching is case insensitive and prefix based",
			logLevel: "INFO",
			expected: InfoLevel,
		},
		{
			name:     "warning",
			detail:   "both 'warn' and 'warning' map to the warn level",
			logLevel: "warning",
			expected: WarnLevel,
		},
		{
			name:     "error",
			detail:   "the error string maps to the error level",
			logLevel: "error",
			expected: ErrorLevel,
		},
		{
			name:     "unrecognized",
			detail:   "anything else falls back to the most verbose level",
			logLevel: "loud",
			expected: DebugLevel,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := &MainConfig{LogLevel: test.logLevel}
			require.Equal(t, test.expected, m.GetLogLevel())
		})
	}
}
