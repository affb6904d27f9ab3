package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorded struct {
	level int
	msg   string
}

func recordingFuncs(out *[]recorded) LogFuncs {
	return LogFuncs{
		LogLevelf: func(level int, format string, args ...interface{}) {
			*out = append(*out, recorded{level: level, msg: fmt.Sprintf(format, args...)})
		},
	}
}

func TestLogger_PrefixAndLevels(t *testing.T) {
	var out []recorded
	logger := NewLogger("module: shell , ", recordingFuncs(&out))

	logger.Debugf("debug %d", 1)
	logger.Infof("info %s", "x")
	logger.Warnf("warn")
	logger.Errorf("error")

	require.Len(t, out, 4)
	assert.Equal(t, recorded{LogLevelDebug, "module: shell , debug 1"}, out[0])
	assert.Equal(t, recorded{LogLevelInfo, "module: shell , info x"}, out[1])
	assert.Equal(t, LogLevelWarn, out[2].level)
	assert.Equal(t, LogLevelError, out[3].level)
}

func TestChildLogger_StacksPrefixes(t *testing.T) {
	var messages []string
	parent := NewLogger("parent , ", LogFuncs{
		Infof: func(format string, args ...interface{}) {
			messages = append(messages, fmt.Sprintf(format, args...))
		},
	})

	child := NewChildLogger("worker: db , ", parent)
	child.Infof("started, pid: %d", 42)
	child.Debugf("dropped")

	assert.Equal(t, []string{"parent , worker: db , started, pid: 42"}, messages)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Infof("nothing %d", 1)
		logger.LogLevelf(LogLevelError, "nothing")
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevel(tt.input))
		})
	}
}

func TestZapLoggerFromCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLoggerFromCore("module: supervisor , ", zap.New(core))

	logger.Infof("Worker launched, id: %s, pid: %d", "master", 100)
	logger.Warnf("Worker exited")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "module: supervisor , Worker launched, id: master, pid: 100", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestNewZapLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.log")

	logger, cleanup, err := NewZapLogger("", ZapConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Infof("filtered out")
	logger.Errorf("kept: %s", "kill failed")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered out")
	assert.Contains(t, string(data), "kept: kill failed")
	assert.Contains(t, string(data), `"level":"error"`)
}

func TestNewZapLogger_LevelParsing(t *testing.T) {
	tests := []struct {
		level    string
		filtered bool
	}{
		{"debug", false},
		{"info", false},
		{"", false},
		{"bogus", false},
		{"WARN", true},
		{"error", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "shell.log")
			logger, cleanup, err := NewZapLogger("", ZapConfig{Level: tt.level, Format: "json", Output: path})
			require.NoError(t, err)

			logger.Infof("info message")
			cleanup()

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			if tt.filtered {
				assert.NotContains(t, string(data), "info message")
			} else {
				assert.Contains(t, string(data), "info message")
			}
		})
	}
}

func TestNewZapLogger_CallerPointsAtCallSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.log")
	logger, cleanup, err := NewZapLogger("", ZapConfig{Level: "info", Format: "json", Output: path, Caller: true})
	require.NoError(t, err)

	logger.Infof("where am I")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"caller":"logging/logging_test.go:`)
}
