package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitFetchSubcommandNameConstant    = "fetch"
	gitLSRemoteSubcommandNameConstant = "ls-remote"
	gitCatFileSubcommandNameConstant  = "cat-file"
	gitSymrefFlagConstant             = "--symref"
	gitHeadsFlagConstant              = "--heads"
	gitExistenceFlagConstant          = "-e"
	gitRevisionSeparatorConstant      = ":"
)

const (
	gitRevisionStartTemplateConstant                         = "Resolving %s in %s"
	gitRevisionSuccessTemplateConstant                       = "%s in %s resolved to %s"
	gitRevisionEmptySuccessTemplateConstant                  = "%s in %s did not resolve to a revision"
	gitRevisionFailureTemplateConstant                       = "Failed to resolve %s in %s (exit code %d%s)"
	gitRevisionExecutionFailureTemplateConstant              = "Unable to resolve %s in %s: %s"
	gitFetchStartTemplateConstant                            = "Fetching %s from %s in %s"
	gitFetchWithoutRefsStartTemplateConstant                 = "Fetching from %s in %s"
	gitFetchSuccessTemplateConstant                          = "Fetched %s from %s in %s"
	gitFetchWithoutRefsSuccessTemplateConstant               = "Fetched from %s in %s"
	gitFetchFailureTemplateConstant                          = "Failed to fetch %s from %s in %s (exit code %d%s)"
	gitFetchWithoutRefsFailureTemplateConstant               = "Failed to fetch from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant                 = "Unable to fetch %s from %s in %s: %s"
	gitFetchWithoutRefsExecutionFailureTemplateConstant      = "Unable to fetch from %s in %s: %s"
	gitFetchAllRemotesLabelConstant                          = "all remotes"
	gitLSRemoteDefaultBranchStartTemplateConstant            = "Checking default branch on %s from %s"
	gitLSRemoteDefaultBranchSuccessTemplateConstant          = "Retrieved default branch information for %s from %s"
	gitLSRemoteDefaultBranchFailureTemplateConstant          = "Failed to check default branch on %s from %s (exit code %d%s)"
	gitLSRemoteDefaultBranchExecutionFailureTemplateConstant = "Unable to check default branch on %s from %s: %s"
	gitLSRemoteHeadsStartTemplateConstant                    = "Listing branches on %s from %s"
	gitLSRemoteHeadsSuccessTemplateConstant                  = "Listed branches on %s from %s"
	gitLSRemoteHeadsFailureTemplateConstant                  = "Failed to list branches on %s from %s (exit code %d%s)"
	gitLSRemoteHeadsExecutionFailureTemplateConstant         = "Unable to list branches on %s from %s: %s"
	gitLSRemoteGenericStartTemplateConstant                  = "Querying remote references on %s from %s"
	gitLSRemoteGenericSuccessTemplateConstant                = "Queried remote references on %s from %s"
	gitLSRemoteGenericFailureTemplateConstant                = "Failed to query remote references on %s from %s (exit code %d%s)"
	gitLSRemoteGenericExecutionFailureTemplateConstant       = "Unable to query remote references on %s from %s: %s"
	gitObjectExistsStartTemplateConstant                     = "Checking %s at %s in %s"
	gitObjectExistsSuccessTemplateConstant                   = "%s exists at %s in %s"
	gitObjectExistsFailureTemplateConstant                   = "%s not found at %s in %s (exit code %d%s)"
	gitObjectExistsExecutionFailureTemplateConstant          = "Unable to check %s at %s in %s: %s"
	gitObjectReadStartTemplateConstant                       = "Reading %s at %s in %s"
	gitObjectReadSuccessTemplateConstant                     = "Read %s at %s in %s"
	gitObjectReadFailureTemplateConstant                     = "Failed to read %s at %s in %s (exit code %d%s)"
	gitObjectReadExecutionFailureTemplateConstant            = "Unable to read %s at %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitRevParseSubcommandNameConstant:
		return formatter.describeGitRevParseMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	case gitLSRemoteSubcommandNameConstant:
		return formatter.describeGitLSRemoteMessage(command, result, failure, stage)
	case gitCatFileSubcommandNameConstant:
		return formatter.describeGitCatFileMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitRevParseMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	reference := formatter.resolveRevisionReference(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRevisionStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(gitRevisionEmptySuccessTemplateConstant, reference, workingDirectory)
		}
		return fmt.Sprintf(gitRevisionSuccessTemplateConstant, reference, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(gitRevisionFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRevisionExecutionFailureTemplateConstant, reference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName, references := formatter.extractRemoteAndReferences(command.Details.Arguments[1:])
	trimmedRemote := strings.TrimSpace(remoteName)
	if len(trimmedRemote) == 0 {
		trimmedRemote = gitFetchAllRemotesLabelConstant
	}
	joinedReferences := strings.Join(references, ", ")

	switch stage {
	case messageStageStart:
		if len(joinedReferences) > 0 {
			return fmt.Sprintf(gitFetchStartTemplateConstant, joinedReferences, trimmedRemote, workingDirectory)
		}
		return fmt.Sprintf(gitFetchWithoutRefsStartTemplateConstant, trimmedRemote, workingDirectory)
	case messageStageSuccess:
		if len(joinedReferences) > 0 {
			return fmt.Sprintf(gitFetchSuccessTemplateConstant, joinedReferences, trimmedRemote, workingDirectory)
		}
		return fmt.Sprintf(gitFetchWithoutRefsSuccessTemplateConstant, trimmedRemote, workingDirectory)
	case messageStageFailure:
		if len(joinedReferences) > 0 {
			return fmt.Sprintf(gitFetchFailureTemplateConstant, joinedReferences, trimmedRemote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
		return fmt.Sprintf(gitFetchWithoutRefsFailureTemplateConstant, trimmedRemote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		if len(joinedReferences) > 0 {
			return fmt.Sprintf(gitFetchExecutionFailureTemplateConstant, joinedReferences, trimmedRemote, workingDirectory, formatter.describeFailure(failure))
		}
		return fmt.Sprintf(gitFetchWithoutRefsExecutionFailureTemplateConstant, trimmedRemote, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitLSRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	arguments := command.Details.Arguments
	remoteName, _ := formatter.extractRemoteAndReferences(arguments[1:])
	trimmedRemote := formatter.ensureValue(remoteName)
	hasSymref := containsArgument(arguments, gitSymrefFlagConstant)
	listsHeads := containsArgument(arguments, gitHeadsFlagConstant)

	startTemplate, successTemplate, failureTemplate, executionFailureTemplate := gitLSRemoteGenericStartTemplateConstant, gitLSRemoteGenericSuccessTemplateConstant, gitLSRemoteGenericFailureTemplateConstant, gitLSRemoteGenericExecutionFailureTemplateConstant
	switch {
	case hasSymref:
		startTemplate, successTemplate, failureTemplate, executionFailureTemplate = gitLSRemoteDefaultBranchStartTemplateConstant, gitLSRemoteDefaultBranchSuccessTemplateConstant, gitLSRemoteDefaultBranchFailureTemplateConstant, gitLSRemoteDefaultBranchExecutionFailureTemplateConstant
	case listsHeads:
		startTemplate, successTemplate, failureTemplate, executionFailureTemplate = gitLSRemoteHeadsStartTemplateConstant, gitLSRemoteHeadsSuccessTemplateConstant, gitLSRemoteHeadsFailureTemplateConstant, gitLSRemoteHeadsExecutionFailureTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, trimmedRemote, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, trimmedRemote, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, trimmedRemote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(executionFailureTemplate, trimmedRemote, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCatFileMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	arguments := command.Details.Arguments
	reference, path := formatter.splitRevisionPath(formatter.resolveRevisionReference(arguments))

	startTemplate, successTemplate, failureTemplate, executionFailureTemplate := gitObjectReadStartTemplateConstant, gitObjectReadSuccessTemplateConstant, gitObjectReadFailureTemplateConstant, gitObjectReadExecutionFailureTemplateConstant
	if containsArgument(arguments, gitExistenceFlagConstant) {
		startTemplate, successTemplate, failureTemplate, executionFailureTemplate = gitObjectExistsStartTemplateConstant, gitObjectExistsSuccessTemplateConstant, gitObjectExistsFailureTemplateConstant, gitObjectExistsExecutionFailureTemplateConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, path, reference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, path, reference, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, path, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(executionFailureTemplate, path, reference, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) resolveRevisionReference(arguments []string) string {
	if len(arguments) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return formatter.ensureValue(arguments[len(arguments)-1])
}

// splitRevisionPath separates "<revision>:<path>" object names; names without a path keep the whole value as the revision.
func (formatter CommandMessageFormatter) splitRevisionPath(objectName string) (string, string) {
	separatorIndex := strings.Index(objectName, gitRevisionSeparatorConstant)
	if separatorIndex == -1 {
		return objectName, fallbackUnknownValueLabelConstant
	}
	return formatter.ensureValue(objectName[:separatorIndex]), formatter.ensureValue(objectName[separatorIndex+1:])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	remoteName := emptyStringConstant
	references := []string{}
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		if len(remoteName) == 0 {
			remoteName = trimmed
			continue
		}
		references = append(references, trimmed)
	}
	return remoteName, references
}
