package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/vendorsync/internal/execshell"
	"github.com/temirov/vendorsync/internal/gitrepo"
)

const (
	gitFetchSubcommandConstant         = "fetch"
	gitLsRemoteSubcommandConstant      = "ls-remote"
	gitRevParseSubcommandConstant      = "rev-parse"
	gitSymrefFlagConstant              = "--symref"
	gitHeadsFlagConstant               = "--heads"
	gitVerifyFlagConstant              = "--verify"
	gitQuietFlagConstant               = "--quiet"
	gitHeadReferenceConstant           = "HEAD"
	symbolicReferencePrefixConstant    = "ref:"
	refsHeadsPrefixConstant            = "refs/heads/"
	remoteTrackingReferenceTemplate    = "refs/remotes/%s/%s"
	commitPeelSuffixConstant           = "^{commit}"
	referenceSeparatorConstant         = "/"
	terminalPromptEnvironmentConstant  = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledConstant     = "0"
	unresolvedReferenceErrorTemplate   = "%w: remote %q (tried %s)"
	fallbackBranchesSeparatorConstant  = ", "
	logMessageFetchDegradedConstant    = "upstream fetch failed; continuing with cached refs"
	logMessageReferenceResolvedConst   = "upstream reference resolved"
	logMessageSymbolicHeadMissingConst = "remote did not report a symbolic default branch"
	logMessageBranchNotFetchedConstant = "remote branch has no local tracking ref; fetch the remote first"
	logFieldRemoteConstant             = "remote"
	logFieldReferenceConstant          = "reference"
	logFieldStrategyConstant           = "strategy"
	logFieldBranchConstant             = "branch"
)

// ErrReferenceNotResolved indicates that no strategy produced an upstream reference.
var ErrReferenceNotResolved = errors.New("could not determine upstream reference")

// Reference is a revision specifier such as upstream/main.
type Reference string

// String returns the reference text.
func (reference Reference) String() string {
	return string(reference)
}

// Strategy names how a Reference was discovered.
type Strategy string

// Resolution strategies in the order they are attempted.
const (
	StrategySymbolicHead Strategy = "symbolic-head"
	StrategyRemoteBranch Strategy = "remote-branch"
	StrategyCachedBranch Strategy = "cached-branch"
)

// Options configures a Resolver.
type Options struct {
	WorkingDirectory string
	Remote           string
	FallbackBranches []string
	Fetch            bool
	AllowCachedRefs  bool
	FetchTimeout     time.Duration
	QueryTimeout     time.Duration
}

// Resolution describes the outcome of Resolve. Fetch fields are populated even
// when resolution fails.
type Resolution struct {
	Reference      Reference
	Strategy       Strategy
	FetchAttempted bool
	FetchDegraded  bool
	FetchError     error
}

// Resolver determines which upstream revision local files are compared against.
type Resolver struct {
	executor gitrepo.GitExecutor
	logger   *zap.Logger
	options  Options
}

// NewResolver constructs a Resolver.
func NewResolver(executor gitrepo.GitExecutor, logger *zap.Logger, options Options) (*Resolver, error) {
	if executor == nil {
		return nil, gitrepo.ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{executor: executor, logger: logger, options: options}, nil
}

// Resolve fetches the remote as a best-effort warm-up and then determines the
// reference: the remote's symbolic HEAD, then each fallback branch on the
// remote, then each fallback branch among cached remote-tracking refs. A
// candidate is accepted only when refs/remotes/<remote>/<branch> resolves to a
// commit locally.
func (resolver *Resolver) Resolve(executionContext context.Context) (Resolution, error) {
	resolution := Resolution{}

	if resolver.options.Fetch {
		resolution.FetchAttempted = true
		if fetchError := resolver.fetch(executionContext); fetchError != nil {
			resolution.FetchDegraded = true
			resolution.FetchError = fetchError
			resolver.logger.Warn(logMessageFetchDegradedConstant, zap.String(logFieldRemoteConstant, resolver.options.Remote), zap.Error(fetchError))
		}
	}

	trackedBranches := map[string]bool{}
	for _, candidate := range resolver.strategies() {
		for _, branch := range candidate.lookup(executionContext) {
			tracked, checked := trackedBranches[branch]
			if !checked {
				tracked = resolver.hasTrackingReference(executionContext, branch)
				trackedBranches[branch] = tracked
			}
			if !tracked {
				if checked || candidate.strategy == StrategyCachedBranch {
					continue
				}
				resolver.logger.Warn(
					logMessageBranchNotFetchedConstant,
					zap.String(logFieldRemoteConstant, resolver.options.Remote),
					zap.String(logFieldBranchConstant, branch),
					zap.String(logFieldStrategyConstant, string(candidate.strategy)),
				)
				continue
			}
			resolution.Reference = Reference(resolver.options.Remote + referenceSeparatorConstant + branch)
			resolution.Strategy = candidate.strategy
			resolver.logger.Info(
				logMessageReferenceResolvedConst,
				zap.String(logFieldReferenceConstant, resolution.Reference.String()),
				zap.String(logFieldStrategyConstant, string(resolution.Strategy)),
			)
			return resolution, nil
		}
	}

	return resolution, fmt.Errorf(
		unresolvedReferenceErrorTemplate,
		ErrReferenceNotResolved,
		resolver.options.Remote,
		strings.Join(resolver.options.FallbackBranches, fallbackBranchesSeparatorConstant),
	)
}

// branchLookup yields candidate branches in preference order. Every candidate
// must still have a local remote-tracking ref before it is used, since file
// contents are read from the local object store.
type branchLookup struct {
	strategy Strategy
	lookup   func(context.Context) []string
}

func (resolver *Resolver) strategies() []branchLookup {
	lookups := []branchLookup{
		{strategy: StrategySymbolicHead, lookup: resolver.lookupSymbolicHead},
		{strategy: StrategyRemoteBranch, lookup: resolver.lookupRemoteBranches},
	}
	if resolver.options.AllowCachedRefs {
		lookups = append(lookups, branchLookup{strategy: StrategyCachedBranch, lookup: resolver.lookupCachedBranches})
	}
	return lookups
}

func (resolver *Resolver) fetch(executionContext context.Context) error {
	fetchContext, cancel := gitrepo.WithQueryTimeout(executionContext, resolver.options.FetchTimeout)
	defer cancel()

	_, fetchError := resolver.executor.ExecuteGit(fetchContext, execshell.CommandDetails{
		Arguments:            []string{gitFetchSubcommandConstant, resolver.options.Remote},
		WorkingDirectory:     resolver.options.WorkingDirectory,
		EnvironmentVariables: map[string]string{terminalPromptEnvironmentConstant: terminalPromptDisabledConstant},
	})
	return fetchError
}

func (resolver *Resolver) lookupSymbolicHead(executionContext context.Context) []string {
	output, queryError := resolver.query(executionContext, gitLsRemoteSubcommandConstant, gitSymrefFlagConstant, resolver.options.Remote, gitHeadReferenceConstant)
	if queryError != nil {
		return nil
	}
	branch := parseSymbolicHead(output)
	if len(branch) == 0 {
		resolver.logger.Debug(logMessageSymbolicHeadMissingConst, zap.String(logFieldRemoteConstant, resolver.options.Remote))
		return nil
	}
	return []string{branch}
}

func (resolver *Resolver) lookupRemoteBranches(executionContext context.Context) []string {
	var branches []string
	for _, branch := range resolver.options.FallbackBranches {
		headReference := refsHeadsPrefixConstant + branch
		output, queryError := resolver.query(executionContext, gitLsRemoteSubcommandConstant, gitHeadsFlagConstant, resolver.options.Remote, headReference)
		if queryError == nil && advertisesReference(output, headReference) {
			branches = append(branches, branch)
		}
	}
	return branches
}

// lookupCachedBranches offers every fallback branch; the tracking-ref check in
// Resolve decides which of them exist locally.
func (resolver *Resolver) lookupCachedBranches(context.Context) []string {
	return resolver.options.FallbackBranches
}

func (resolver *Resolver) hasTrackingReference(executionContext context.Context, branch string) bool {
	trackingReference := fmt.Sprintf(remoteTrackingReferenceTemplate, resolver.options.Remote, branch) + commitPeelSuffixConstant
	output, queryError := resolver.query(executionContext, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, trackingReference)
	return queryError == nil && len(strings.TrimSpace(output)) > 0
}

func (resolver *Resolver) query(executionContext context.Context, arguments ...string) (string, error) {
	queryContext, cancel := gitrepo.WithQueryTimeout(executionContext, resolver.options.QueryTimeout)
	defer cancel()

	executionResult, executionError := resolver.executor.ExecuteGit(queryContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     resolver.options.WorkingDirectory,
		EnvironmentVariables: map[string]string{terminalPromptEnvironmentConstant: terminalPromptDisabledConstant},
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// parseSymbolicHead extracts the branch from a line like "ref: refs/heads/main\tHEAD".
func parseSymbolicHead(output string) string {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != symbolicReferencePrefixConstant {
			continue
		}
		if !strings.HasPrefix(fields[1], refsHeadsPrefixConstant) {
			continue
		}
		return strings.TrimPrefix(fields[1], refsHeadsPrefixConstant)
	}
	return ""
}

// advertisesReference reports whether ls-remote output lists exactly reference.
// git matches ls-remote patterns on ref name suffixes, so refs/heads/release/main
// can appear in the answer for main.
func advertisesReference(output string, reference string) bool {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == reference {
			return true
		}
	}
	return false
}
