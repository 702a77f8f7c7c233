package gitrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/temirov/vendorsync/internal/execshell"
)

const (
	gitCatFileSubcommandConstant  = "cat-file"
	gitCatFileExistsFlagConstant  = "-e"
	gitCatFileBlobTypeConstant    = "blob"
	revisionPathSeparatorConstant = ":"
	pathSeparatorConstant         = "/"
	executorNotConfiguredMessage  = "git executor not configured"
)

// ErrExecutorNotConfigured indicates a RevisionReader was built without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RevisionReader reads file content and existence at a revision through git
// object lookups. It never reads or modifies the working tree.
type RevisionReader struct {
	executor         GitExecutor
	workingDirectory string
	queryTimeout     time.Duration
}

// NewRevisionReader constructs a RevisionReader for the repository at workingDirectory.
// A zero queryTimeout leaves queries unbounded.
func NewRevisionReader(executor GitExecutor, workingDirectory string, queryTimeout time.Duration) (*RevisionReader, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RevisionReader{executor: executor, workingDirectory: workingDirectory, queryTimeout: queryTimeout}, nil
}

// Exists reports whether path names an object at revision.
func (reader *RevisionReader) Exists(executionContext context.Context, revision string, path string) bool {
	_, executionError := reader.query(executionContext, gitCatFileExistsFlagConstant, revision, path)
	return executionError == nil
}

// Read returns the blob stored at path in revision. Any failure, including a
// timeout, is reported as absent.
func (reader *RevisionReader) Read(executionContext context.Context, revision string, path string) ([]byte, bool) {
	executionResult, executionError := reader.query(executionContext, gitCatFileBlobTypeConstant, revision, path)
	if executionError != nil {
		return nil, false
	}
	return []byte(executionResult.StandardOutput), true
}

func (reader *RevisionReader) query(executionContext context.Context, mode string, revision string, path string) (execshell.ExecutionResult, error) {
	queryContext, cancel := WithQueryTimeout(executionContext, reader.queryTimeout)
	defer cancel()

	return reader.executor.ExecuteGit(queryContext, execshell.CommandDetails{
		Arguments:        []string{gitCatFileSubcommandConstant, mode, RevisionPath(revision, path)},
		WorkingDirectory: reader.workingDirectory,
	})
}

// RevisionPath formats the <revision>:<path> object name understood by git.
func RevisionPath(revision string, path string) string {
	return revision + revisionPathSeparatorConstant + strings.TrimPrefix(path, pathSeparatorConstant)
}

// WithQueryTimeout bounds executionContext by timeout; zero or negative disables the bound.
func WithQueryTimeout(executionContext context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(executionContext)
	}
	return context.WithTimeout(executionContext, timeout)
}
