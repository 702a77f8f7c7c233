package utils_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/vendorsync/internal/utils"
)

const (
	testLogMessageConstant    = "sync check completed"
	testLogFieldNameConstant  = "error_count"
	testLogFieldValueConstant = 2
)

func TestLoggerFactoryStructuredFormat(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	logger, creationError := utils.NewLoggerFactoryWithOutput(outputBuffer).CreateLogger(utils.LogLevelInfo, utils.LogFormatStructured)
	require.NoError(testInstance, creationError)

	logger.Debug("hidden")
	logger.Info(testLogMessageConstant, zap.Int(testLogFieldNameConstant, testLogFieldValueConstant))

	lines := strings.Split(strings.TrimSpace(outputBuffer.String()), "\n")
	require.Len(testInstance, lines, 1)

	entry := map[string]any{}
	require.NoError(testInstance, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(testInstance, "info", entry["level"])
	require.Equal(testInstance, testLogMessageConstant, entry["msg"])
	require.EqualValues(testInstance, testLogFieldValueConstant, entry[testLogFieldNameConstant])
	require.Contains(testInstance, entry, "timestamp")
	require.Contains(testInstance, entry, "caller")
}

func TestLoggerFactoryConsoleFormat(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	logger, creationError := utils.NewLoggerFactoryWithOutput(outputBuffer).CreateLogger(utils.LogLevelDebug, utils.LogFormatConsole)
	require.NoError(testInstance, creationError)

	logger.Debug(testLogMessageConstant)

	output := strings.TrimSpace(outputBuffer.String())
	require.False(testInstance, json.Valid([]byte(output)))
	require.Contains(testInstance, output, "DEBUG")
	require.Contains(testInstance, output, testLogMessageConstant)
}

func TestLoggerFactoryRejectsUnknownSettings(testInstance *testing.T) {
	testCases := []struct {
		name      string
		logLevel  utils.LogLevel
		logFormat utils.LogFormat
	}{
		{name: "unknown_level", logLevel: utils.LogLevel("verbose"), logFormat: utils.LogFormatStructured},
		{name: "unknown_format", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormat("xml")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			logger, creationError := utils.NewLoggerFactory().CreateLogger(testCase.logLevel, testCase.logFormat)
			require.Error(testInstance, creationError)
			require.Nil(testInstance, logger)
		})
	}
}
