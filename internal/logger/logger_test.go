package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func bufferedProductionLogger(buf *bytes.Buffer) *zap.Logger {
	config := newConfig("production")
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all production log entries are structured JSON", prop.ForAll(
		func(message string, level zapcore.Level) bool {
			var buf bytes.Buffer
			logger := bufferedProductionLogger(&buf)

			logger.Log(level, message, zap.Int64("category_id", 7))
			_ = logger.Sync()

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}

			for _, key := range []string{"level", "timestamp", "message"} {
				if _, ok := entry[key]; !ok {
					return false
				}
			}

			return entry["message"] == message && entry["category_id"] == float64(7)
		},
		gen.AnyString(),
		gen.OneConstOf(zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNewConfig_Levels(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, newConfig("production").Level.Level())
	assert.Equal(t, "json", newConfig("production").Encoding)
	assert.Equal(t, zapcore.DebugLevel, newConfig("development").Level.Level())
	assert.Equal(t, "console", newConfig("development").Encoding)
}

func TestNew_BuildsForEveryEnvironment(t *testing.T) {
	for _, env := range []string{"production", "development", "test"} {
		logger, err := New(env)
		require.NoError(t, err, env)
		assert.NotNil(t, logger)
	}
}
