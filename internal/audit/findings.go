package audit

import (
	"fmt"
	"strings"

	"github.com/temirov/vendorsync/internal/digest"
)

const (
	mismatchMessageTemplateConstant          = "%s %s mismatch: %s (upstream: %s, current: %s)"
	missingUpstreamMessageTemplateConstant   = "%s not in upstream: %s"
	unreadableUpstreamTemplateConstant       = "Could not read %s from upstream: %s"
	unreadableLocalTemplateConstant          = "Could not read local %s: %s"
	missingFromBundleMessageTemplateConstant = "%s not included in %s: %s"
	danglingImportMessageTemplateConstant    = "%s imports non-existent file: %s"
	auditFailureMessageTemplateConstant      = "Could not audit %s: %v"
	fallbackDigestPrefixLengthConstant       = 8
	defaultDigestDisplayNameConstant         = "digest"
)

// FindingFormatter turns audit results into operator-facing findings.
type FindingFormatter struct {
	DigestAlgorithm    digest.Algorithm
	DigestPrefixLength int
}

// FileFindings yields exactly one finding per non-matched result.
func (formatter FindingFormatter) FileFindings(label string, results []FileCheckResult) []Finding {
	findings := []Finding{}
	for _, result := range results {
		switch result.Status {
		case FileStatusMismatched:
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message: fmt.Sprintf(
					mismatchMessageTemplateConstant,
					label,
					formatter.algorithmDisplayName(),
					result.Filename,
					digest.Abbreviate(result.UpstreamDigest, formatter.prefixLength()),
					digest.Abbreviate(result.LocalDigest, formatter.prefixLength()),
				),
			})
		case FileStatusMissingUpstream:
			findings = append(findings, Finding{Severity: SeverityWarning, Message: fmt.Sprintf(missingUpstreamMessageTemplateConstant, label, result.Filename)})
		case FileStatusUnreadable:
			template := unreadableUpstreamTemplateConstant
			if result.UnreadableSide == ReadSideLocal {
				template = unreadableLocalTemplateConstant
			}
			findings = append(findings, Finding{Severity: SeverityError, Message: fmt.Sprintf(template, label, result.Filename)})
		}
	}
	return findings
}

// ManifestFindings reports bundle gaps as errors and dangling imports as warnings.
func (formatter FindingFormatter) ManifestFindings(label string, bundleName string, result ManifestResult) []Finding {
	findings := []Finding{}
	if result.Skipped {
		return findings
	}
	for _, filename := range result.MissingFromBundle {
		findings = append(findings, Finding{Severity: SeverityError, Message: fmt.Sprintf(missingFromBundleMessageTemplateConstant, label, bundleName, filename)})
	}
	for _, filename := range result.DanglingImports {
		findings = append(findings, Finding{Severity: SeverityWarning, Message: fmt.Sprintf(danglingImportMessageTemplateConstant, bundleName, filename)})
	}
	return findings
}

// AuditFailure reports an auditor that could not run at all, such as an unlistable directory.
func (formatter FindingFormatter) AuditFailure(subject string, failure error) Finding {
	return Finding{Severity: SeverityError, Message: fmt.Sprintf(auditFailureMessageTemplateConstant, subject, failure)}
}

func (formatter FindingFormatter) algorithmDisplayName() string {
	if len(formatter.DigestAlgorithm) == 0 {
		return defaultDigestDisplayNameConstant
	}
	return strings.ToUpper(string(formatter.DigestAlgorithm))
}

func (formatter FindingFormatter) prefixLength() int {
	if formatter.DigestPrefixLength <= 0 {
		return fallbackDigestPrefixLengthConstant
	}
	return formatter.DigestPrefixLength
}
