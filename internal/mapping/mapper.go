package mapping

import (
	"errors"
	"fmt"
	"strings"
)

const noRuleErrorTemplateConstant = "%w: %s (%s)"

// ErrNoRuleMatched indicates that no rule of the asset kind covers the filename.
var ErrNoRuleMatched = errors.New("no mapping rule matched")

// Placeholders supplies the values substituted into rule templates.
type Placeholders struct {
	Library   string
	Generator string
}

// Mapping is the upstream location of one local file.
type Mapping struct {
	UpstreamPath string
	Category     Category
}

// PathMapper resolves local vendored filenames to upstream repository paths.
type PathMapper struct {
	rules        RuleTable
	placeholders Placeholders
}

// NewPathMapper constructs a PathMapper over a validated rule table.
func NewPathMapper(rules RuleTable, placeholders Placeholders) *PathMapper {
	return &PathMapper{rules: rules, placeholders: placeholders}
}

// MapToUpstream returns the upstream path of localFilename using the first
// matching rule of assetKind. The result is deterministic for a given table.
func (mapper *PathMapper) MapToUpstream(localFilename string, assetKind AssetKind) (Mapping, error) {
	for _, rule := range mapper.rules[assetKind] {
		if !rule.matches(localFilename) {
			continue
		}
		replacer := strings.NewReplacer(
			libraryPlaceholderConstant, mapper.placeholders.Library,
			generatorPlaceholderConstant, mapper.placeholders.Generator,
			filenamePlaceholderConstant, localFilename,
		)
		return Mapping{UpstreamPath: replacer.Replace(rule.Template), Category: rule.Category}, nil
	}
	return Mapping{}, fmt.Errorf(noRuleErrorTemplateConstant, ErrNoRuleMatched, localFilename, assetKind)
}
