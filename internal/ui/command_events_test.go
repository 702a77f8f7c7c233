package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/vendorsync/internal/execshell"
	"github.com/temirov/vendorsync/internal/ui"
)

func TestConsoleCommandEventLoggerLevels(testInstance *testing.T) {
	fetchCommand := execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"fetch", "upstream"}, WorkingDirectory: "/workspace/host"},
	}
	lookupCommand := execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"cat-file", "-e", "upstream/main:lib/a.css"}, WorkingDirectory: "/workspace/host"},
	}

	testCases := []struct {
		name            string
		emit            func(eventLogger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "fetch_started",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandStarted(fetchCommand)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Fetching from upstream in /workspace/host",
		},
		{
			name: "fetch_failed",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(fetchCommand, execshell.ExecutionResult{ExitCode: 128})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "Failed to fetch from upstream in /workspace/host (exit code 128)",
		},
		{
			name: "lookup_missing",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(lookupCommand, execshell.ExecutionResult{ExitCode: 128})
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: "lib/a.css not found at upstream/main in /workspace/host (exit code 128)",
		},
		{
			name: "execution_failure",
			emit: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandExecutionFailed(fetchCommand, errors.New("killed"))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "Unable to fetch from upstream in /workspace/host: killed",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.emit(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerToleratesNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleCommandEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{})
	})
}
