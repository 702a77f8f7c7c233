// Package digest hashes vendored file content for upstream comparison.
package digest
