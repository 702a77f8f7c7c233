// Package mapping translates local vendored filenames into upstream repository paths.
//
// Rules live in a YAML table grouped by asset kind and are evaluated in order, so
// explicit filename lists precede catch-all patterns. The default table is
// embedded; a replacement table can be loaded from disk without touching any
// auditor.
package mapping
