package mapping_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vendorsync/internal/mapping"
)

func newDefaultMapper(testInstance *testing.T) *mapping.PathMapper {
	testInstance.Helper()
	rules, rulesError := mapping.DefaultRules()
	require.NoError(testInstance, rulesError)
	return mapping.NewPathMapper(rules, mapping.Placeholders{Library: "css-zero", Generator: "css_zero"})
}

func TestPathMapperDefaultRules(testInstance *testing.T) {
	testCases := []struct {
		name             string
		localFilename    string
		assetKind        mapping.AssetKind
		expectedPath     string
		expectedCategory mapping.Category
	}{
		{
			name:             "core_stylesheet",
			localFilename:    "reset.css",
			assetKind:        mapping.AssetKindStylesheets,
			expectedPath:     "app/assets/stylesheets/css-zero/reset.css",
			expectedCategory: mapping.CategoryCore,
		},
		{
			name:             "last_core_stylesheet",
			localFilename:    "utilities.css",
			assetKind:        mapping.AssetKindStylesheets,
			expectedPath:     "app/assets/stylesheets/css-zero/utilities.css",
			expectedCategory: mapping.CategoryCore,
		},
		{
			name:             "install_template",
			localFilename:    "base.css",
			assetKind:        mapping.AssetKindStylesheets,
			expectedPath:     "lib/generators/css_zero/install/templates/app/assets/stylesheets/base.css",
			expectedCategory: mapping.CategoryInstallTemplate,
		},
		{
			name:             "component_stylesheet",
			localFilename:    "button.css",
			assetKind:        mapping.AssetKindStylesheets,
			expectedPath:     "lib/generators/css_zero/add/templates/app/assets/stylesheets/button.css",
			expectedCategory: mapping.CategoryComponent,
		},
		{
			name:             "controller",
			localFilename:    "dialog_controller.js",
			assetKind:        mapping.AssetKindControllers,
			expectedPath:     "lib/generators/css_zero/add/templates/app/javascript/controllers/dialog_controller.js",
			expectedCategory: mapping.CategoryComponent,
		},
	}

	mapper := newDefaultMapper(testInstance)
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result, mapError := mapper.MapToUpstream(testCase.localFilename, testCase.assetKind)
			require.NoError(testInstance, mapError)
			require.Equal(testInstance, testCase.expectedPath, result.UpstreamPath)
			require.Equal(testInstance, testCase.expectedCategory, result.Category)
		})
	}
}

func TestPathMapperIsDeterministic(testInstance *testing.T) {
	mapper := newDefaultMapper(testInstance)

	first, firstError := mapper.MapToUpstream("colors.css", mapping.AssetKindStylesheets)
	require.NoError(testInstance, firstError)
	second, secondError := mapper.MapToUpstream("colors.css", mapping.AssetKindStylesheets)
	require.NoError(testInstance, secondError)

	require.Equal(testInstance, first, second)
}

func TestPathMapperUnknownAssetKind(testInstance *testing.T) {
	mapper := newDefaultMapper(testInstance)

	_, mapError := mapper.MapToUpstream("icon.svg", mapping.AssetKind("images"))
	require.ErrorIs(testInstance, mapError, mapping.ErrNoRuleMatched)
}

func TestPathMapperCustomRulesFile(testInstance *testing.T) {
	rulesFilePath := filepath.Join(testInstance.TempDir(), "rules.yaml")
	rulesContent := "stylesheets:\n" +
		"  - category: theme\n" +
		"    patterns:\n" +
		"      - \"theme-*.css\"\n" +
		"    template: themes/{library}/{filename}\n"
	require.NoError(testInstance, os.WriteFile(rulesFilePath, []byte(rulesContent), 0o600))

	rules, loadError := mapping.LoadRulesFile(rulesFilePath)
	require.NoError(testInstance, loadError)

	mapper := mapping.NewPathMapper(rules, mapping.Placeholders{Library: "css-zero"})

	result, mapError := mapper.MapToUpstream("theme-dark.css", mapping.AssetKindStylesheets)
	require.NoError(testInstance, mapError)
	require.Equal(testInstance, "themes/css-zero/theme-dark.css", result.UpstreamPath)
	require.Equal(testInstance, mapping.Category("theme"), result.Category)

	_, unmatchedError := mapper.MapToUpstream("button.css", mapping.AssetKindStylesheets)
	require.ErrorIs(testInstance, unmatchedError, mapping.ErrNoRuleMatched)
}

func TestParseRulesRejectsInvalidEntries(testInstance *testing.T) {
	testCases := []struct {
		name         string
		rulesContent string
	}{
		{
			name:         "empty_table",
			rulesContent: "{}\n",
		},
		{
			name:         "missing_filename_placeholder",
			rulesContent: "stylesheets:\n  - category: core\n    filenames: [a.css]\n    template: app/assets\n",
		},
		{
			name:         "missing_selector",
			rulesContent: "stylesheets:\n  - category: core\n    template: app/{filename}\n",
		},
		{
			name:         "malformed_pattern",
			rulesContent: "stylesheets:\n  - category: core\n    patterns: [\"[a-\"]\n    template: app/{filename}\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, parseError := mapping.ParseRules([]byte(testCase.rulesContent))
			require.ErrorIs(testInstance, parseError, mapping.ErrInvalidRule)
		})
	}
}
