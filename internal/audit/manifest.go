package audit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/temirov/vendorsync/internal/manifest"
)

const (
	readBundleErrorTemplateConstant  = "read bundle %s: %w"
	parseBundleErrorTemplateConstant = "parse bundle %s: %w"
)

// ManifestAuditor reconciles a bundle file's imports with a local directory.
type ManifestAuditor struct {
	grammar        manifest.Grammar
	includePattern string
}

// NewManifestAuditor constructs a ManifestAuditor that lists local files matching includePattern.
func NewManifestAuditor(grammar manifest.Grammar, includePattern string) (*ManifestAuditor, error) {
	if grammar == nil {
		return nil, ErrAuditorNotConfigured
	}
	return &ManifestAuditor{grammar: grammar, includePattern: includePattern}, nil
}

// Audit compares the import set of bundlePath with the files in localDirectory.
// Only set membership matters. A missing bundle or directory skips the audit.
func (auditor *ManifestAuditor) Audit(bundlePath string, localDirectory string) (ManifestResult, error) {
	bundleContent, readError := os.ReadFile(bundlePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return ManifestResult{Skipped: true}, nil
		}
		return ManifestResult{}, fmt.Errorf(readBundleErrorTemplateConstant, bundlePath, readError)
	}

	localFiles, directoryExists, listError := listLocalFiles(localDirectory, auditor.includePattern)
	if listError != nil {
		return ManifestResult{}, listError
	}
	if !directoryExists {
		return ManifestResult{Skipped: true}, nil
	}

	imports, parseError := auditor.grammar.Parse(bundleContent)
	if parseError != nil {
		return ManifestResult{}, fmt.Errorf(parseBundleErrorTemplateConstant, bundlePath, parseError)
	}

	importedFilenames := make(map[string]struct{}, len(imports))
	for _, entry := range imports {
		importedFilenames[entry.Filename] = struct{}{}
	}
	localFilenames := make(map[string]struct{}, len(localFiles))
	for _, filename := range localFiles {
		localFilenames[filename] = struct{}{}
	}

	result := ManifestResult{
		Imports:           imports,
		LocalFiles:        localFiles,
		MissingFromBundle: []string{},
		DanglingImports:   []string{},
	}
	for _, filename := range localFiles {
		if _, imported := importedFilenames[filename]; !imported {
			result.MissingFromBundle = append(result.MissingFromBundle, filename)
		}
	}
	reportedDangling := map[string]struct{}{}
	for _, entry := range imports {
		if _, present := localFilenames[entry.Filename]; present {
			continue
		}
		if _, reported := reportedDangling[entry.Filename]; reported {
			continue
		}
		reportedDangling[entry.Filename] = struct{}{}
		result.DanglingImports = append(result.DanglingImports, entry.Filename)
	}
	return result, nil
}
