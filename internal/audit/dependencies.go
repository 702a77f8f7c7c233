package audit

import (
	"context"

	"github.com/temirov/vendorsync/internal/digest"
	"github.com/temirov/vendorsync/internal/execshell"
	"github.com/temirov/vendorsync/internal/mapping"
	"github.com/temirov/vendorsync/internal/upstream"
)

// GitExecutor exposes the subset of shell execution used by the sync check.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RevisionReader answers existence and content queries at a revision.
type RevisionReader interface {
	Exists(executionContext context.Context, revision string, path string) bool
	Read(executionContext context.Context, revision string, path string) ([]byte, bool)
}

// PathMapper maps local filenames to upstream paths.
type PathMapper interface {
	MapToUpstream(localFilename string, assetKind mapping.AssetKind) (mapping.Mapping, error)
}

// ContentHasher digests file content.
type ContentHasher interface {
	Sum(content []byte) (string, error)
	Algorithm() digest.Algorithm
}

// ReferenceResolver determines the upstream reference for a run.
type ReferenceResolver interface {
	Resolve(executionContext context.Context) (upstream.Resolution, error)
}
