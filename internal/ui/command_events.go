package ui

import (
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/vendorsync/internal/execshell"
)

const (
	gitCatFileSubcommandConstant = "cat-file"
)

// ConsoleCommandEventLogger renders git lifecycle events using a zap logger configured for human-readable output.
// Per-file object lookups are reported at debug level so a sync check over many
// assets does not drown out the fetch and reference resolution steps.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logAtRoutineLevel(command, eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logAtRoutineLevel(command, eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	// a missing object is an expected answer for cat-file -e
	if isObjectLookup(command) {
		eventLogger.logger.Debug(eventLogger.formatter.BuildFailureMessage(command, result))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) logAtRoutineLevel(command execshell.ShellCommand, message string) {
	if isObjectLookup(command) {
		eventLogger.logger.Debug(message)
		return
	}
	eventLogger.logger.Info(message)
}

func isObjectLookup(command execshell.ShellCommand) bool {
	if len(command.Details.Arguments) == 0 {
		return false
	}
	return strings.TrimSpace(command.Details.Arguments[0]) == gitCatFileSubcommandConstant
}
