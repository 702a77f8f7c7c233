package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/vendorsync/internal/digest"
	"github.com/temirov/vendorsync/internal/execshell"
	"github.com/temirov/vendorsync/internal/gitrepo"
	"github.com/temirov/vendorsync/internal/manifest"
	"github.com/temirov/vendorsync/internal/mapping"
	"github.com/temirov/vendorsync/internal/ui"
	"github.com/temirov/vendorsync/internal/upstream"
	"github.com/temirov/vendorsync/internal/utils"
)

const (
	commandNameConstant               = "vendorsync"
	commandShortDescriptionConstant   = "Verify vendored css-zero assets against their upstream repository"
	commandLongDescriptionConstant    = "vendorsync compares every vendored stylesheet and Stimulus controller with the upstream css-zero repository at its default branch and checks that each stylesheet is imported by the bundle file. It exits with status 1 when any error is found."
	flagRemoteNameConstant            = "remote"
	flagRemoteDescriptionConstant     = "Git remote that tracks the upstream repository."
	flagNoFetchNameConstant           = "no-fetch"
	flagNoFetchDescriptionConstant    = "Skip fetching the remote and rely on cached refs."
	flagRepositoryNameConstant        = "repository"
	flagRepositoryDescriptionConstant = "Path to the host project repository."
	stylesheetLabelConstant           = "CSS file"
	controllerLabelConstant           = "Stimulus controller"
	stylesheetIncludePatternConstant  = "*.css"
	controllerIncludePatternConstant  = "*.js"
	stylesheetExtensionConstant       = ".css"
	homeDirectoryPrefixConstant       = "~"
	rulesLoadErrorTemplateConstant    = "load mapping rules: %w"
	digestErrorTemplateConstant       = "configure digest: %w"
	grammarErrorTemplateConstant      = "configure bundle grammar: %w"
	homeDirectoryErrorTemplate        = "expand repository path: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the sync check configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the sync check cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	GitExecutor                  GitExecutor
	RunIdentifierProvider        func() string
}

// Build constructs the cobra command running the sync check.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(flagRemoteNameConstant, "", flagRemoteDescriptionConstant)
	command.Flags().Bool(flagNoFetchNameConstant, false, flagNoFetchDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, "", flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	logger := builder.resolveLogger()
	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, plan, serviceError := builder.assembleService(configuration, gitExecutor, logger, command)
	if serviceError != nil {
		return serviceError
	}

	executionContext := utils.NewCommandContextAccessor().WithRunIdentifier(command.Context(), builder.resolveRunIdentifier())
	_, runError := service.Run(executionContext, plan)
	return runError
}

func (builder *CommandBuilder) assembleService(configuration CommandConfiguration, gitExecutor GitExecutor, logger *zap.Logger, command *cobra.Command) (*Service, SyncPlan, error) {
	resolver, resolverError := upstream.NewResolver(gitExecutor, logger, upstream.Options{
		WorkingDirectory: configuration.Repository,
		Remote:           configuration.Remote,
		FallbackBranches: configuration.FallbackBranches,
		Fetch:            configuration.Fetch,
		AllowCachedRefs:  configuration.AllowCachedRefs,
		FetchTimeout:     configuration.FetchTimeout,
		QueryTimeout:     configuration.QueryTimeout,
	})
	if resolverError != nil {
		return nil, SyncPlan{}, resolverError
	}

	revisionReader, readerError := gitrepo.NewRevisionReader(gitExecutor, configuration.Repository, configuration.QueryTimeout)
	if readerError != nil {
		return nil, SyncPlan{}, readerError
	}

	rules, rulesError := loadRules(configuration)
	if rulesError != nil {
		return nil, SyncPlan{}, fmt.Errorf(rulesLoadErrorTemplateConstant, rulesError)
	}
	pathMapper := mapping.NewPathMapper(rules, mapping.Placeholders{Library: configuration.Library, Generator: configuration.Generator})

	algorithm, algorithmError := digest.ParseAlgorithm(configuration.DigestAlgorithm)
	if algorithmError != nil {
		return nil, SyncPlan{}, fmt.Errorf(digestErrorTemplateConstant, algorithmError)
	}
	hasher, hasherError := digest.NewHasher(algorithm)
	if hasherError != nil {
		return nil, SyncPlan{}, fmt.Errorf(digestErrorTemplateConstant, hasherError)
	}

	grammar, grammarError := manifest.NewDirectiveGrammar(configuration.BundleImportDirectory, stylesheetExtensionConstant)
	if grammarError != nil {
		return nil, SyncPlan{}, fmt.Errorf(grammarErrorTemplateConstant, grammarError)
	}

	fileAuditor, fileAuditorError := NewFileSetAuditor(revisionReader, pathMapper, hasher)
	if fileAuditorError != nil {
		return nil, SyncPlan{}, fileAuditorError
	}
	manifestAuditor, manifestAuditorError := NewManifestAuditor(grammar, stylesheetIncludePatternConstant)
	if manifestAuditorError != nil {
		return nil, SyncPlan{}, manifestAuditorError
	}

	formatter := FindingFormatter{DigestAlgorithm: hasher.Algorithm(), DigestPrefixLength: configuration.DigestPrefixLength}
	renderer := NewReportRenderer(command.OutOrStdout())

	service, serviceError := NewService(resolver, fileAuditor, manifestAuditor, formatter, renderer, logger)
	if serviceError != nil {
		return nil, SyncPlan{}, serviceError
	}

	bundlePath := repositoryPath(configuration.Repository, configuration.BundleFile)
	plan := SyncPlan{
		Remote: configuration.Remote,
		Fetch:  configuration.Fetch,
		Stylesheets: Target{
			AssetKind:      mapping.AssetKindStylesheets,
			Directory:      repositoryPath(configuration.Repository, configuration.StylesheetDirectory),
			IncludePattern: stylesheetIncludePatternConstant,
			Label:          stylesheetLabelConstant,
		},
		Controllers: Target{
			AssetKind:      mapping.AssetKindControllers,
			Directory:      repositoryPath(configuration.Repository, configuration.ControllerDirectory),
			IncludePattern: controllerIncludePatternConstant,
			Label:          controllerLabelConstant,
		},
		BundlePath: bundlePath,
		BundleName: filepath.Base(bundlePath),
	}
	return service, plan, nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration = configuration.sanitize()

	if command.Flags().Changed(flagRemoteNameConstant) {
		remoteName, _ := command.Flags().GetString(flagRemoteNameConstant)
		configuration.Remote = valueOrDefault(remoteName, configuration.Remote)
	}
	if command.Flags().Changed(flagNoFetchNameConstant) {
		noFetch, _ := command.Flags().GetBool(flagNoFetchNameConstant)
		configuration.Fetch = !noFetch
	}
	if command.Flags().Changed(flagRepositoryNameConstant) {
		repository, _ := command.Flags().GetString(flagRepositoryNameConstant)
		configuration.Repository = valueOrDefault(repository, configuration.Repository)
	}

	expandedRepository, expandError := expandHomeDirectory(configuration.Repository)
	if expandError != nil {
		return CommandConfiguration{}, expandError
	}
	configuration.Repository = expandedRepository

	return configuration, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}

	var observer execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}
	return execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), observer)
}

func (builder *CommandBuilder) resolveRunIdentifier() string {
	if builder.RunIdentifierProvider != nil {
		return builder.RunIdentifierProvider()
	}
	return uuid.NewString()
}

func loadRules(configuration CommandConfiguration) (mapping.RuleTable, error) {
	if len(configuration.RulesFile) == 0 {
		return mapping.DefaultRules()
	}
	return mapping.LoadRulesFile(repositoryPath(configuration.Repository, configuration.RulesFile))
}

func repositoryPath(repository string, relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(repository, filepath.FromSlash(relativePath))
}

func expandHomeDirectory(path string) (string, error) {
	if path != homeDirectoryPrefixConstant && !strings.HasPrefix(path, homeDirectoryPrefixConstant+string(filepath.Separator)) {
		return path, nil
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return "", fmt.Errorf(homeDirectoryErrorTemplate, homeError)
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(path, homeDirectoryPrefixConstant)), nil
}
