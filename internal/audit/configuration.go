package audit

import (
	"strings"
	"time"
)

const (
	configurationRepositoryKeyConstant            = "repository"
	configurationRemoteKeyConstant                = "remote"
	configurationFallbackBranchesKeyConstant      = "fallback_branches"
	configurationFetchKeyConstant                 = "fetch"
	configurationAllowCachedRefsKeyConstant       = "allow_cached_refs"
	configurationFetchTimeoutKeyConstant          = "fetch_timeout"
	configurationQueryTimeoutKeyConstant          = "query_timeout"
	configurationLibraryKeyConstant               = "library"
	configurationGeneratorKeyConstant             = "generator"
	configurationStylesheetDirectoryKeyConstant   = "stylesheet_directory"
	configurationBundleFileKeyConstant            = "bundle_file"
	configurationBundleImportDirectoryKeyConstant = "bundle_import_directory"
	configurationControllerDirectoryKeyConstant   = "controller_directory"
	configurationDigestAlgorithmKeyConstant       = "digest_algorithm"
	configurationDigestPrefixLengthKeyConstant    = "digest_prefix_length"
	configurationRulesFileKeyConstant             = "rules_file"
	configurationKeySeparatorConstant             = "."

	defaultRepositoryConstant            = "."
	defaultRemoteConstant                = "upstream"
	defaultLibraryConstant               = "css-zero"
	defaultGeneratorConstant             = "css_zero"
	defaultStylesheetDirectoryConstant   = "app/assets/stylesheets/css-zero"
	defaultBundleFileConstant            = "app/assets/stylesheets/css-zero.css"
	defaultBundleImportDirectoryConstant = "css-zero"
	defaultControllerDirectoryConstant   = "app/javascript/css_zero/controllers"
	defaultDigestAlgorithmConstant       = "blake3"
	defaultDigestPrefixLengthConstant    = 8
	defaultFetchTimeoutConstant          = 2 * time.Minute
	defaultQueryTimeoutConstant          = 30 * time.Second
)

// CommandConfiguration captures settings for the sync check.
type CommandConfiguration struct {
	Repository            string        `mapstructure:"repository"`
	Remote                string        `mapstructure:"remote"`
	FallbackBranches      []string      `mapstructure:"fallback_branches"`
	Fetch                 bool          `mapstructure:"fetch"`
	AllowCachedRefs       bool          `mapstructure:"allow_cached_refs"`
	FetchTimeout          time.Duration `mapstructure:"fetch_timeout"`
	QueryTimeout          time.Duration `mapstructure:"query_timeout"`
	Library               string        `mapstructure:"library"`
	Generator             string        `mapstructure:"generator"`
	StylesheetDirectory   string        `mapstructure:"stylesheet_directory"`
	BundleFile            string        `mapstructure:"bundle_file"`
	BundleImportDirectory string        `mapstructure:"bundle_import_directory"`
	ControllerDirectory   string        `mapstructure:"controller_directory"`
	DigestAlgorithm       string        `mapstructure:"digest_algorithm"`
	DigestPrefixLength    int           `mapstructure:"digest_prefix_length"`
	RulesFile             string        `mapstructure:"rules_file"`
}

// DefaultCommandConfiguration returns the layout of a host project vendoring css-zero.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Repository:            defaultRepositoryConstant,
		Remote:                defaultRemoteConstant,
		FallbackBranches:      []string{"main", "master"},
		Fetch:                 true,
		AllowCachedRefs:       true,
		FetchTimeout:          defaultFetchTimeoutConstant,
		QueryTimeout:          defaultQueryTimeoutConstant,
		Library:               defaultLibraryConstant,
		Generator:             defaultGeneratorConstant,
		StylesheetDirectory:   defaultStylesheetDirectoryConstant,
		BundleFile:            defaultBundleFileConstant,
		BundleImportDirectory: defaultBundleImportDirectoryConstant,
		ControllerDirectory:   defaultControllerDirectoryConstant,
		DigestAlgorithm:       defaultDigestAlgorithmConstant,
		DigestPrefixLength:    defaultDigestPrefixLengthConstant,
		RulesFile:             "",
	}
}

// DefaultConfigurationValues produces Viper defaults rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	key := func(name string) string {
		return rootKey + configurationKeySeparatorConstant + name
	}
	return map[string]any{
		key(configurationRepositoryKeyConstant):            defaults.Repository,
		key(configurationRemoteKeyConstant):                defaults.Remote,
		key(configurationFallbackBranchesKeyConstant):      defaults.FallbackBranches,
		key(configurationFetchKeyConstant):                 defaults.Fetch,
		key(configurationAllowCachedRefsKeyConstant):       defaults.AllowCachedRefs,
		key(configurationFetchTimeoutKeyConstant):          defaults.FetchTimeout,
		key(configurationQueryTimeoutKeyConstant):          defaults.QueryTimeout,
		key(configurationLibraryKeyConstant):               defaults.Library,
		key(configurationGeneratorKeyConstant):             defaults.Generator,
		key(configurationStylesheetDirectoryKeyConstant):   defaults.StylesheetDirectory,
		key(configurationBundleFileKeyConstant):            defaults.BundleFile,
		key(configurationBundleImportDirectoryKeyConstant): defaults.BundleImportDirectory,
		key(configurationControllerDirectoryKeyConstant):   defaults.ControllerDirectory,
		key(configurationDigestAlgorithmKeyConstant):       defaults.DigestAlgorithm,
		key(configurationDigestPrefixLengthKeyConstant):    defaults.DigestPrefixLength,
		key(configurationRulesFileKeyConstant):             defaults.RulesFile,
	}
}

// sanitize trims values and restores defaults for settings left blank.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Repository = valueOrDefault(configuration.Repository, defaults.Repository)
	sanitized.Remote = valueOrDefault(configuration.Remote, defaults.Remote)
	sanitized.Library = valueOrDefault(configuration.Library, defaults.Library)
	sanitized.Generator = valueOrDefault(configuration.Generator, defaults.Generator)
	sanitized.StylesheetDirectory = valueOrDefault(configuration.StylesheetDirectory, defaults.StylesheetDirectory)
	sanitized.BundleFile = valueOrDefault(configuration.BundleFile, defaults.BundleFile)
	sanitized.BundleImportDirectory = valueOrDefault(configuration.BundleImportDirectory, defaults.BundleImportDirectory)
	sanitized.ControllerDirectory = valueOrDefault(configuration.ControllerDirectory, defaults.ControllerDirectory)
	sanitized.DigestAlgorithm = valueOrDefault(configuration.DigestAlgorithm, defaults.DigestAlgorithm)
	sanitized.RulesFile = strings.TrimSpace(configuration.RulesFile)

	sanitized.FallbackBranches = sanitizeBranches(configuration.FallbackBranches)
	if len(sanitized.FallbackBranches) == 0 {
		sanitized.FallbackBranches = defaults.FallbackBranches
	}
	if sanitized.DigestPrefixLength <= 0 {
		sanitized.DigestPrefixLength = defaults.DigestPrefixLength
	}
	if sanitized.FetchTimeout < 0 {
		sanitized.FetchTimeout = 0
	}
	if sanitized.QueryTimeout < 0 {
		sanitized.QueryTimeout = 0
	}

	return sanitized
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}

func sanitizeBranches(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
