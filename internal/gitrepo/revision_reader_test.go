package gitrepo_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vendorsync/internal/execshell"
	"github.com/temirov/vendorsync/internal/gitrepo"
)

const (
	testWorkingDirectoryConstant = "/workspace/host"
	testRevisionConstant         = "upstream/main"
	testUpstreamPathConstant     = "app/assets/stylesheets/css-zero/reset.css"
)

type stubGitExecutor struct {
	results          map[string]execshell.ExecutionResult
	errors           map[string]error
	recordedDetails  []execshell.CommandDetails
	recordedDeadline []bool
}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	_, hasDeadline := executionContext.Deadline()
	executor.recordedDeadline = append(executor.recordedDeadline, hasDeadline)

	key := strings.Join(details.Arguments, " ")
	if executionError, exists := executor.errors[key]; exists {
		return execshell.ExecutionResult{}, executionError
	}
	if result, exists := executor.results[key]; exists {
		return result, nil
	}
	return execshell.ExecutionResult{}, execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}
}

func TestRevisionReaderExists(testInstance *testing.T) {
	executor := &stubGitExecutor{
		results: map[string]execshell.ExecutionResult{
			"cat-file -e upstream/main:" + testUpstreamPathConstant: {},
		},
	}
	reader, readerError := gitrepo.NewRevisionReader(executor, testWorkingDirectoryConstant, 0)
	require.NoError(testInstance, readerError)

	require.True(testInstance, reader.Exists(context.Background(), testRevisionConstant, testUpstreamPathConstant))
	require.False(testInstance, reader.Exists(context.Background(), testRevisionConstant, "app/assets/stylesheets/css-zero/missing.css"))
	require.Equal(testInstance, testWorkingDirectoryConstant, executor.recordedDetails[0].WorkingDirectory)
}

func TestRevisionReaderRead(testInstance *testing.T) {
	testCases := []struct {
		name            string
		executor        *stubGitExecutor
		expectedFound   bool
		expectedContent []byte
	}{
		{
			name: "content_returned_verbatim",
			executor: &stubGitExecutor{results: map[string]execshell.ExecutionResult{
				"cat-file blob upstream/main:" + testUpstreamPathConstant: {StandardOutput: "*,\n*::before {\n  box-sizing: border-box;\n}\n"},
			}},
			expectedFound:   true,
			expectedContent: []byte("*,\n*::before {\n  box-sizing: border-box;\n}\n"),
		},
		{
			name:          "non_zero_exit_is_absent",
			executor:      &stubGitExecutor{},
			expectedFound: false,
		},
		{
			name: "runner_failure_is_absent",
			executor: &stubGitExecutor{errors: map[string]error{
				"cat-file blob upstream/main:" + testUpstreamPathConstant: execshell.CommandExecutionError{Cause: context.DeadlineExceeded},
			}},
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			reader, readerError := gitrepo.NewRevisionReader(testCase.executor, testWorkingDirectoryConstant, 0)
			require.NoError(testInstance, readerError)

			content, found := reader.Read(context.Background(), testRevisionConstant, testUpstreamPathConstant)
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedContent, content)
		})
	}
}

func TestRevisionReaderAppliesQueryTimeout(testInstance *testing.T) {
	executor := &stubGitExecutor{}

	boundedReader, boundedError := gitrepo.NewRevisionReader(executor, testWorkingDirectoryConstant, 30*time.Second)
	require.NoError(testInstance, boundedError)
	boundedReader.Exists(context.Background(), testRevisionConstant, testUpstreamPathConstant)

	unboundedReader, unboundedError := gitrepo.NewRevisionReader(executor, testWorkingDirectoryConstant, 0)
	require.NoError(testInstance, unboundedError)
	unboundedReader.Exists(context.Background(), testRevisionConstant, testUpstreamPathConstant)

	require.Equal(testInstance, []bool{true, false}, executor.recordedDeadline)
}

func TestNewRevisionReaderRequiresExecutor(testInstance *testing.T) {
	_, readerError := gitrepo.NewRevisionReader(nil, testWorkingDirectoryConstant, 0)
	require.True(testInstance, errors.Is(readerError, gitrepo.ErrExecutorNotConfigured))
}

func TestRevisionPathTrimsLeadingSeparator(testInstance *testing.T) {
	require.Equal(testInstance, "upstream/main:lib/a.css", gitrepo.RevisionPath(testRevisionConstant, "/lib/a.css"))
}
