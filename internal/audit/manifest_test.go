package audit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vendorsync/internal/audit"
	"github.com/temirov/vendorsync/internal/manifest"
)

func newManifestAuditor(testInstance *testing.T) *audit.ManifestAuditor {
	testInstance.Helper()
	grammar, grammarError := manifest.NewDirectiveGrammar("css-zero", ".css")
	require.NoError(testInstance, grammarError)
	auditor, auditorError := audit.NewManifestAuditor(grammar, "*.css")
	require.NoError(testInstance, auditorError)
	return auditor
}

func TestManifestAuditorReconcilesImports(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	stylesheetDirectory := filepath.Join(rootDirectory, "css-zero")
	writeFiles(testInstance, stylesheetDirectory, map[string]string{
		"a.css":      "",
		"b.css":      "",
		"reset.css":  "",
		"readme.txt": "",
	})
	bundlePath := filepath.Join(rootDirectory, "css-zero.css")
	bundleContent := "@import url(\"css-zero/reset\");\n" +
		"@import url(\"css-zero/a.css\");\n" +
		"@import url(\"css-zero/gone.css\");\n" +
		"@import url(\"css-zero/gone\");\n" +
		"@import url(\"css-zero/old.css\");\n"
	require.NoError(testInstance, os.WriteFile(bundlePath, []byte(bundleContent), 0o600))

	result, auditError := newManifestAuditor(testInstance).Audit(bundlePath, stylesheetDirectory)
	require.NoError(testInstance, auditError)
	require.False(testInstance, result.Skipped)
	require.Equal(testInstance, []string{"a.css", "b.css", "reset.css"}, result.LocalFiles)
	require.Equal(testInstance, []string{"b.css"}, result.MissingFromBundle)
	require.Equal(testInstance, []string{"gone.css", "old.css"}, result.DanglingImports)
	require.Len(testInstance, result.Imports, 5)
	require.Equal(testInstance, 4, result.Imports[3].Line)
}

func TestManifestAuditorSkipsWhenInputsMissing(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	stylesheetDirectory := filepath.Join(rootDirectory, "css-zero")
	writeFiles(testInstance, stylesheetDirectory, map[string]string{"a.css": ""})
	bundlePath := filepath.Join(rootDirectory, "css-zero.css")
	require.NoError(testInstance, os.WriteFile(bundlePath, []byte("@import url(\"css-zero/a.css\");\n"), 0o600))

	testCases := []struct {
		name      string
		bundle    string
		directory string
	}{
		{name: "missing_bundle", bundle: filepath.Join(rootDirectory, "absent.css"), directory: stylesheetDirectory},
		{name: "missing_directory", bundle: bundlePath, directory: filepath.Join(rootDirectory, "absent")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result, auditError := newManifestAuditor(testInstance).Audit(testCase.bundle, testCase.directory)
			require.NoError(testInstance, auditError)
			require.True(testInstance, result.Skipped)
			require.Empty(testInstance, result.MissingFromBundle)
			require.Empty(testInstance, result.DanglingImports)
		})
	}
}

func TestManifestAuditorEmptyDirectoryAndBundle(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	stylesheetDirectory := filepath.Join(rootDirectory, "css-zero")
	require.NoError(testInstance, os.MkdirAll(stylesheetDirectory, 0o755))
	bundlePath := filepath.Join(rootDirectory, "css-zero.css")
	require.NoError(testInstance, os.WriteFile(bundlePath, []byte("/* nothing yet */\n"), 0o600))

	result, auditError := newManifestAuditor(testInstance).Audit(bundlePath, stylesheetDirectory)
	require.NoError(testInstance, auditError)
	require.False(testInstance, result.Skipped)
	require.Empty(testInstance, result.MissingFromBundle)
	require.Empty(testInstance, result.DanglingImports)
}
