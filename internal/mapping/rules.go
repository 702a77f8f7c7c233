package mapping

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// AssetKind identifies a family of vendored files sharing one rule list.
type AssetKind string

// Known asset kinds.
const (
	AssetKindStylesheets AssetKind = "stylesheets"
	AssetKindControllers AssetKind = "controllers"
)

// Category labels the upstream location class a rule maps into.
type Category string

// Categories used by the default rule table.
const (
	CategoryCore            Category = "core"
	CategoryInstallTemplate Category = "install-template"
	CategoryComponent       Category = "component"
)

const (
	filenamePlaceholderConstant        = "{filename}"
	libraryPlaceholderConstant         = "{library}"
	generatorPlaceholderConstant       = "{generator}"
	rulesParseErrorTemplateConstant    = "parse rules: %w"
	rulesReadErrorTemplateConstant     = "read rules file %s: %w"
	invalidRuleErrorTemplateConstant   = "%w: %s rule %d: %s"
	missingTemplateMessageConstant     = "template is required"
	missingFilenameMessageConstant     = "template must contain " + filenamePlaceholderConstant
	missingSelectorMessageConstant     = "filenames or patterns are required"
	missingCategoryMessageConstant     = "category is required"
	invalidPatternMessageTemplateValue = "invalid pattern %q"
	emptyRuleTableMessageConstant      = "no asset kinds defined"
)

// ErrInvalidRule indicates a rule table entry that cannot be used.
var ErrInvalidRule = errors.New("invalid mapping rule")

//go:embed rules.yaml
var defaultRulesData []byte

// Rule maps local filenames of one asset kind to an upstream path template.
// Filenames are matched exactly; patterns use doublestar syntax.
type Rule struct {
	Category  Category `yaml:"category"`
	Filenames []string `yaml:"filenames"`
	Patterns  []string `yaml:"patterns"`
	Template  string   `yaml:"template"`
}

// RuleTable holds ordered rules per asset kind.
type RuleTable map[AssetKind][]Rule

// DefaultRules returns the embedded rule table.
func DefaultRules() (RuleTable, error) {
	return ParseRules(defaultRulesData)
}

// LoadRulesFile reads and validates a rule table from disk.
func LoadRulesFile(rulesFilePath string) (RuleTable, error) {
	rulesData, readError := os.ReadFile(rulesFilePath)
	if readError != nil {
		return nil, fmt.Errorf(rulesReadErrorTemplateConstant, rulesFilePath, readError)
	}
	return ParseRules(rulesData)
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(rulesData []byte) (RuleTable, error) {
	table := RuleTable{}
	if decodeError := yaml.Unmarshal(rulesData, &table); decodeError != nil {
		return nil, fmt.Errorf(rulesParseErrorTemplateConstant, decodeError)
	}
	if validationError := table.Validate(); validationError != nil {
		return nil, validationError
	}
	return table, nil
}

// Validate checks that every rule can produce an upstream path.
func (table RuleTable) Validate() error {
	if len(table) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRule, emptyRuleTableMessageConstant)
	}
	for assetKind, rules := range table {
		for ruleIndex, rule := range rules {
			if problem := rule.problem(); len(problem) > 0 {
				return fmt.Errorf(invalidRuleErrorTemplateConstant, ErrInvalidRule, assetKind, ruleIndex, problem)
			}
		}
	}
	return nil
}

func (rule Rule) problem() string {
	switch {
	case len(strings.TrimSpace(string(rule.Category))) == 0:
		return missingCategoryMessageConstant
	case len(strings.TrimSpace(rule.Template)) == 0:
		return missingTemplateMessageConstant
	case !strings.Contains(rule.Template, filenamePlaceholderConstant):
		return missingFilenameMessageConstant
	case len(rule.Filenames) == 0 && len(rule.Patterns) == 0:
		return missingSelectorMessageConstant
	}
	for _, pattern := range rule.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Sprintf(invalidPatternMessageTemplateValue, pattern)
		}
	}
	return ""
}

func (rule Rule) matches(localFilename string) bool {
	for _, filename := range rule.Filenames {
		if filename == localFilename {
			return true
		}
	}
	for _, pattern := range rule.Patterns {
		if matched, matchError := doublestar.Match(pattern, localFilename); matchError == nil && matched {
			return true
		}
	}
	return false
}
