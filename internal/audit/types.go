package audit

import (
	"github.com/temirov/vendorsync/internal/manifest"
	"github.com/temirov/vendorsync/internal/mapping"
)

// FileStatus classifies the comparison of one local file with upstream.
type FileStatus string

// File statuses produced by FileSetAuditor.
const (
	FileStatusMatched         FileStatus = "matched"
	FileStatusMismatched      FileStatus = "mismatched"
	FileStatusMissingUpstream FileStatus = "missing-upstream"
	FileStatusUnreadable      FileStatus = "unreadable"
)

// ReadSide identifies which copy of a file could not be read.
type ReadSide string

// Read sides reported for unreadable files.
const (
	ReadSideUpstream ReadSide = "upstream"
	ReadSideLocal    ReadSide = "local"
)

// FileCheckResult is the outcome of auditing one local file. It is never mutated after creation.
type FileCheckResult struct {
	Filename       string
	UpstreamPath   string
	Category       mapping.Category
	Status         FileStatus
	UnreadableSide ReadSide
	LocalDigest    string
	UpstreamDigest string
}

// Target describes one local directory audited against upstream.
type Target struct {
	AssetKind      mapping.AssetKind
	Directory      string
	IncludePattern string
	Label          string
}

// ManifestResult reconciles a bundle's imports with a local directory listing.
// MissingFromBundle follows local listing order; DanglingImports follows first
// appearance in the bundle without duplicates.
type ManifestResult struct {
	Imports           []manifest.ImportEntry
	LocalFiles        []string
	MissingFromBundle []string
	DanglingImports   []string
	Skipped           bool
}

// Severity ranks a finding.
type Severity string

// Finding severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one operator-facing message.
type Finding struct {
	Severity Severity
	Message  string
}
