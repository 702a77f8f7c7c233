package audit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vendorsync/internal/audit"
	"github.com/temirov/vendorsync/internal/mapping"
)

func stylesheetTarget(directory string) audit.Target {
	return audit.Target{
		AssetKind:      mapping.AssetKindStylesheets,
		Directory:      directory,
		IncludePattern: "*.css",
		Label:          "CSS file",
	}
}

func TestFileSetAuditorStatuses(testInstance *testing.T) {
	directory := filepath.Join(testInstance.TempDir(), "css-zero")
	writeFiles(testInstance, directory, map[string]string{
		"reset.css":   "* { margin: 0; }\n",
		"button.css":  ".btn { color: red; }\n",
		"dialog.css":  ".dialog {}\n",
		"local.css":   ".local {}\n",
		"broken.css":  ".broken {}\n",
		"notes.txt":   "not audited\n",
		"base.css":    ":root {}\n",
		"tooltip.css": ".tooltip {}\n",
	})
	require.NoError(testInstance, os.Mkdir(filepath.Join(directory, "nested.css"), 0o755))

	store := newRevisionStore()
	store.put("app/assets/stylesheets/css-zero/reset.css", "* { margin: 0; }\n")
	store.put(componentStylesheetPath("button.css"), ".btn { color: blue; }\n")
	store.put(componentStylesheetPath("dialog.css"), ".dialog {}\n")
	store.put("lib/generators/css_zero/install/templates/app/assets/stylesheets/base.css", ":root {}\n")
	store.markUnreadable(componentStylesheetPath("broken.css"))
	store.put(componentStylesheetPath("tooltip.css"), ".tooltip {}\n")

	auditor, auditorError := audit.NewFileSetAuditor(store, newDefaultPathMapper(testInstance), newHasher(testInstance))
	require.NoError(testInstance, auditorError)

	results, auditError := auditor.Audit(context.Background(), testReferenceConstant, stylesheetTarget(directory))
	require.NoError(testInstance, auditError)

	statuses := map[string]audit.FileStatus{}
	filenames := []string{}
	for _, result := range results {
		statuses[result.Filename] = result.Status
		filenames = append(filenames, result.Filename)
	}

	require.Equal(testInstance, []string{"base.css", "broken.css", "button.css", "dialog.css", "local.css", "reset.css", "tooltip.css"}, filenames)
	require.Equal(testInstance, map[string]audit.FileStatus{
		"base.css":    audit.FileStatusMatched,
		"broken.css":  audit.FileStatusUnreadable,
		"button.css":  audit.FileStatusMismatched,
		"dialog.css":  audit.FileStatusMatched,
		"local.css":   audit.FileStatusMissingUpstream,
		"reset.css":   audit.FileStatusMatched,
		"tooltip.css": audit.FileStatusMatched,
	}, statuses)

	for _, result := range results {
		switch result.Status {
		case audit.FileStatusMatched:
			require.Equal(testInstance, result.UpstreamDigest, result.LocalDigest)
			require.NotEmpty(testInstance, result.LocalDigest)
		case audit.FileStatusMismatched:
			require.NotEqual(testInstance, result.UpstreamDigest, result.LocalDigest)
		case audit.FileStatusUnreadable:
			require.Equal(testInstance, audit.ReadSideUpstream, result.UnreadableSide)
		}
	}
}

func TestFileSetAuditorSkipsContentFetchForMissingUpstream(testInstance *testing.T) {
	directory := filepath.Join(testInstance.TempDir(), "controllers")
	writeFiles(testInstance, directory, map[string]string{"local_controller.js": "export default {}\n"})

	store := newRevisionStore()
	auditor, auditorError := audit.NewFileSetAuditor(store, newDefaultPathMapper(testInstance), newHasher(testInstance))
	require.NoError(testInstance, auditorError)

	results, auditError := auditor.Audit(context.Background(), testReferenceConstant, audit.Target{
		AssetKind:      mapping.AssetKindControllers,
		Directory:      directory,
		IncludePattern: "*.js",
		Label:          "Stimulus controller",
	})
	require.NoError(testInstance, auditError)
	require.Len(testInstance, results, 1)
	require.Equal(testInstance, audit.FileStatusMissingUpstream, results[0].Status)
	require.Equal(testInstance, controllerPath("local_controller.js"), results[0].UpstreamPath)
	require.Len(testInstance, store.existsCalls, 1)
	require.Empty(testInstance, store.readCalls)
}

func TestFileSetAuditorUnmappedKindIsMissingUpstream(testInstance *testing.T) {
	directory := filepath.Join(testInstance.TempDir(), "images")
	writeFiles(testInstance, directory, map[string]string{"icon.svg": "<svg/>"})

	store := newRevisionStore()
	auditor, auditorError := audit.NewFileSetAuditor(store, newDefaultPathMapper(testInstance), newHasher(testInstance))
	require.NoError(testInstance, auditorError)

	results, auditError := auditor.Audit(context.Background(), testReferenceConstant, audit.Target{
		AssetKind:      mapping.AssetKind("images"),
		Directory:      directory,
		IncludePattern: "*.svg",
		Label:          "Image",
	})
	require.NoError(testInstance, auditError)
	require.Len(testInstance, results, 1)
	require.Equal(testInstance, audit.FileStatusMissingUpstream, results[0].Status)
	require.Empty(testInstance, store.existsCalls)
}

func TestFileSetAuditorEmptyAndMissingDirectories(testInstance *testing.T) {
	emptyDirectory := filepath.Join(testInstance.TempDir(), "empty")
	require.NoError(testInstance, os.MkdirAll(emptyDirectory, 0o755))

	testCases := []struct {
		name      string
		directory string
	}{
		{name: "empty_directory", directory: emptyDirectory},
		{name: "missing_directory", directory: filepath.Join(testInstance.TempDir(), "absent")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			store := newRevisionStore()
			auditor, auditorError := audit.NewFileSetAuditor(store, newDefaultPathMapper(testInstance), newHasher(testInstance))
			require.NoError(testInstance, auditorError)

			results, auditError := auditor.Audit(context.Background(), testReferenceConstant, stylesheetTarget(testCase.directory))
			require.NoError(testInstance, auditError)
			require.Empty(testInstance, results)
			require.Empty(testInstance, store.existsCalls)
		})
	}
}

func TestNewFileSetAuditorRequiresDependencies(testInstance *testing.T) {
	_, auditorError := audit.NewFileSetAuditor(nil, newDefaultPathMapper(testInstance), newHasher(testInstance))
	require.ErrorIs(testInstance, auditorError, audit.ErrAuditorNotConfigured)
}
