// Package audit verifies vendored assets against their upstream repository.
//
// FileSetAuditor compares each local file with the blob at its mapped upstream
// path, ManifestAuditor reconciles the bundle's import directives with the
// local stylesheet directory, and Service runs both in a fixed order before
// rendering the summary through ReportRenderer. CommandBuilder exposes the
// check as a cobra command.
package audit
