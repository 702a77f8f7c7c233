package audit

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/vendorsync/internal/utils"
)

const (
	exitCodeSuccessConstant          = 0
	exitCodeFailureConstant          = 1
	summaryRuleWidthConstant         = 60
	summaryRuleCharacterConstant     = "="
	summaryTitleConstant             = "📊 Summary"
	summaryAllPassedMessageConstant  = "All checks passed!"
	summaryErrorCountTemplateConst   = "\n%d error(s) found:\n"
	summaryWarningCountTemplateConst = "\n%d warning(s) found:\n"
	summaryEntryTemplateConstant     = "  %s %s\n"
	passedGlyphConstant              = "✅"
	errorGlyphConstant               = "❌"
	warningGlyphConstant             = "⚠️"
	checkGlyphConstant               = "✓"
	errorColorConstant               = "9"
	warningColorConstant             = "11"
	successColorConstant             = "10"
)

// Report accumulates findings from every auditor of a run.
type Report struct {
	Errors   []string
	Warnings []string
}

// Aggregate merges finding lists in order.
func Aggregate(findingGroups ...[]Finding) Report {
	report := Report{Errors: []string{}, Warnings: []string{}}
	for _, findings := range findingGroups {
		for _, finding := range findings {
			switch finding.Severity {
			case SeverityError:
				report.Errors = append(report.Errors, finding.Message)
			case SeverityWarning:
				report.Warnings = append(report.Warnings, finding.Message)
			}
		}
	}
	return report
}

// ExitCode is 1 when any error was recorded; warnings never fail a run.
func (report Report) ExitCode() int {
	if len(report.Errors) > 0 {
		return exitCodeFailureConstant
	}
	return exitCodeSuccessConstant
}

// Clean reports whether the run produced neither errors nor warnings.
func (report Report) Clean() bool {
	return len(report.Errors) == 0 && len(report.Warnings) == 0
}

// ReportRenderer writes progress lines and the summary. Glyphs are colored on
// terminals and written as plain text everywhere else.
type ReportRenderer struct {
	writer       *utils.ProgressWriter
	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	successStyle lipgloss.Style
	titleStyle   lipgloss.Style
}

// NewReportRenderer constructs a renderer whose color profile follows writer.
// Progress line failures are not reported individually; Render returns the
// first one.
func NewReportRenderer(writer io.Writer) *ReportRenderer {
	renderer := lipgloss.NewRenderer(writer)
	return &ReportRenderer{
		writer:       utils.NewProgressWriter(writer),
		errorStyle:   renderer.NewStyle().Foreground(lipgloss.Color(errorColorConstant)),
		warningStyle: renderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
		successStyle: renderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		titleStyle:   renderer.NewStyle().Bold(true),
	}
}

// Line writes one progress line.
func (renderer *ReportRenderer) Line(format string, arguments ...any) {
	fmt.Fprintf(renderer.writer, format+"\n", arguments...)
}

// Check writes an indented success line for a clean entry.
func (renderer *ReportRenderer) Check(message string) {
	fmt.Fprintf(renderer.writer, "  %s %s\n", renderer.successStyle.Render(checkGlyphConstant), message)
}

// Render writes the summary block.
func (renderer *ReportRenderer) Render(report Report) error {
	rule := strings.Repeat(summaryRuleCharacterConstant, summaryRuleWidthConstant)

	builder := &strings.Builder{}
	builder.WriteString("\n" + rule + "\n")
	builder.WriteString(renderer.titleStyle.Render(summaryTitleConstant) + "\n")
	builder.WriteString(rule + "\n")

	if report.Clean() {
		builder.WriteString(renderer.successStyle.Render(passedGlyphConstant) + " " + summaryAllPassedMessageConstant + "\n")
	} else {
		if len(report.Errors) > 0 {
			fmt.Fprintf(builder, summaryErrorCountTemplateConst, len(report.Errors))
			for _, message := range report.Errors {
				fmt.Fprintf(builder, summaryEntryTemplateConstant, renderer.errorStyle.Render(errorGlyphConstant), message)
			}
		}
		if len(report.Warnings) > 0 {
			fmt.Fprintf(builder, summaryWarningCountTemplateConst, len(report.Warnings))
			for _, message := range report.Warnings {
				fmt.Fprintf(builder, summaryEntryTemplateConstant, renderer.warningStyle.Render(warningGlyphConstant)+" ", message)
			}
		}
	}
	builder.WriteString(rule + "\n")

	_, _ = io.WriteString(renderer.writer, builder.String())
	return renderer.writer.Err()
}
