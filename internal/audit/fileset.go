package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/temirov/vendorsync/internal/upstream"
)

// ErrAuditorNotConfigured indicates an auditor built without a required collaborator.
var ErrAuditorNotConfigured = errors.New("auditor dependencies not configured")

// FileSetAuditor compares every file of a local directory with its upstream counterpart.
type FileSetAuditor struct {
	reader RevisionReader
	mapper PathMapper
	hasher ContentHasher
}

// NewFileSetAuditor constructs a FileSetAuditor.
func NewFileSetAuditor(reader RevisionReader, mapper PathMapper, hasher ContentHasher) (*FileSetAuditor, error) {
	if reader == nil || mapper == nil || hasher == nil {
		return nil, ErrAuditorNotConfigured
	}
	return &FileSetAuditor{reader: reader, mapper: mapper, hasher: hasher}, nil
}

// Audit yields exactly one FileCheckResult per local file in target.Directory.
// Upstream content is fetched only for files whose mapped path exists at reference.
// A missing directory audits as empty.
func (auditor *FileSetAuditor) Audit(executionContext context.Context, reference upstream.Reference, target Target) ([]FileCheckResult, error) {
	filenames, _, listError := listLocalFiles(target.Directory, target.IncludePattern)
	if listError != nil {
		return nil, listError
	}

	results := make([]FileCheckResult, 0, len(filenames))
	for _, filename := range filenames {
		results = append(results, auditor.auditFile(executionContext, reference, target, filename))
	}
	return results, nil
}

func (auditor *FileSetAuditor) auditFile(executionContext context.Context, reference upstream.Reference, target Target, filename string) FileCheckResult {
	result := FileCheckResult{Filename: filename}

	upstreamMapping, mapError := auditor.mapper.MapToUpstream(filename, target.AssetKind)
	// no rule means no known upstream counterpart
	if mapError != nil {
		result.Status = FileStatusMissingUpstream
		return result
	}
	result.UpstreamPath = upstreamMapping.UpstreamPath
	result.Category = upstreamMapping.Category

	if !auditor.reader.Exists(executionContext, reference.String(), upstreamMapping.UpstreamPath) {
		result.Status = FileStatusMissingUpstream
		return result
	}

	upstreamContent, found := auditor.reader.Read(executionContext, reference.String(), upstreamMapping.UpstreamPath)
	if !found {
		result.Status = FileStatusUnreadable
		result.UnreadableSide = ReadSideUpstream
		return result
	}

	localContent, readError := os.ReadFile(filepath.Join(target.Directory, filename))
	if readError != nil {
		result.Status = FileStatusUnreadable
		result.UnreadableSide = ReadSideLocal
		return result
	}

	upstreamDigest, upstreamHashError := auditor.hasher.Sum(upstreamContent)
	localDigest, localHashError := auditor.hasher.Sum(localContent)
	if upstreamHashError != nil || localHashError != nil {
		result.Status = FileStatusUnreadable
		result.UnreadableSide = ReadSideLocal
		return result
	}

	result.UpstreamDigest = upstreamDigest
	result.LocalDigest = localDigest
	if upstreamDigest == localDigest {
		result.Status = FileStatusMatched
	} else {
		result.Status = FileStatusMismatched
	}
	return result
}
