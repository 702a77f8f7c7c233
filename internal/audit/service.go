package audit

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/vendorsync/internal/upstream"
	"github.com/temirov/vendorsync/internal/utils"
)

const (
	startBannerConstant                = "🔍 Checking CSS Zero sync status...\n"
	fetchStartedMessageConstant        = "📥 Fetching upstream..."
	fetchSucceededMessageConstant      = "✓ Upstream fetched\n"
	fetchDegradedMessageConstant       = "⚠️  Warning: Could not fetch upstream. Using cached refs.\n"
	resolutionFailedTemplateConstant   = "❌ Could not determine upstream reference. Make sure '%s' remote is configured."
	referenceInUseTemplateConstant     = "📦 Using upstream reference: %s\n"
	stylesheetHeadingTemplateConstant  = "📄 Checking %ss match upstream..."
	manifestHeadingTemplateConstant    = "\n📋 Checking %ss are included in %s..."
	controllerHeadingTemplateConstant  = "\n🎮 Checking %ss match upstream..."
	includedEntryTemplateConstant      = "%s included"
	resolutionErrorTemplateConstant    = "resolve upstream reference: %w"
	renderErrorTemplateConstant        = "render summary: %w"
	logMessageSyncCompletedConstant    = "sync check completed"
	logMessageResolutionFailedConstant = "upstream reference could not be resolved"
	logMessageAuditFailedConstant      = "audit could not run"
	logFieldRunIdentifierConstant      = "run_id"
	logFieldConfigurationFileConstant  = "config_file"
	logFieldErrorCountConstant         = "error_count"
	logFieldWarningCountConstant       = "warning_count"
	logFieldReferenceConstant          = "reference"
	logFieldDirectoryConstant          = "directory"
	logMessageDanglingImportConstant   = "bundle imports a file that is not vendored"
	logFieldBundleConstant             = "bundle"
	logFieldFileConstant               = "file"
	logFieldLineConstant               = "line"
)

// ErrSyncCheckFailed indicates that the sync check recorded at least one error.
var ErrSyncCheckFailed = errors.New("sync check failed")

// SyncPlan lists what a run audits.
type SyncPlan struct {
	Remote      string
	Fetch       bool
	Stylesheets Target
	Controllers Target
	BundlePath  string
	BundleName  string
}

// Service runs the sync check in a fixed order: resolve the reference, audit
// stylesheets, audit the bundle, audit controllers, then summarize.
type Service struct {
	resolver        ReferenceResolver
	fileAuditor     *FileSetAuditor
	manifestAuditor *ManifestAuditor
	formatter       FindingFormatter
	renderer        *ReportRenderer
	logger          *zap.Logger
	contextAccessor utils.CommandContextAccessor
}

// NewService constructs a Service.
func NewService(resolver ReferenceResolver, fileAuditor *FileSetAuditor, manifestAuditor *ManifestAuditor, formatter FindingFormatter, renderer *ReportRenderer, logger *zap.Logger) (*Service, error) {
	if resolver == nil || fileAuditor == nil || manifestAuditor == nil || renderer == nil {
		return nil, ErrAuditorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:        resolver,
		fileAuditor:     fileAuditor,
		manifestAuditor: manifestAuditor,
		formatter:       formatter,
		renderer:        renderer,
		logger:          logger,
		contextAccessor: utils.NewCommandContextAccessor(),
	}, nil
}

// Run executes one sync check. A resolution failure aborts before any audit;
// otherwise every auditor runs and ErrSyncCheckFailed is returned when the
// report holds errors.
func (service *Service) Run(executionContext context.Context, plan SyncPlan) (Report, error) {
	logger := service.logger
	if runIdentifier, available := service.contextAccessor.RunIdentifier(executionContext); available {
		logger = logger.With(zap.String(logFieldRunIdentifierConstant, runIdentifier))
	}
	if configurationFilePath, available := service.contextAccessor.ConfigurationFilePath(executionContext); available {
		logger = logger.With(zap.String(logFieldConfigurationFileConstant, configurationFilePath))
	}

	service.renderer.Line(startBannerConstant)
	if plan.Fetch {
		service.renderer.Line(fetchStartedMessageConstant)
	}

	resolution, resolveError := service.resolver.Resolve(executionContext)
	if resolution.FetchAttempted {
		if resolution.FetchDegraded {
			service.renderer.Line(fetchDegradedMessageConstant)
		} else {
			service.renderer.Line(fetchSucceededMessageConstant)
		}
	}
	if resolveError != nil {
		service.renderer.Line(resolutionFailedTemplateConstant, plan.Remote)
		logger.Error(logMessageResolutionFailedConstant, zap.Error(resolveError))
		return Report{}, fmt.Errorf(resolutionErrorTemplateConstant, resolveError)
	}

	reference := resolution.Reference
	service.renderer.Line(referenceInUseTemplateConstant, reference)
	logger = logger.With(zap.String(logFieldReferenceConstant, reference.String()))

	service.renderer.Line(stylesheetHeadingTemplateConstant, plan.Stylesheets.Label)
	stylesheetFindings := service.auditFiles(executionContext, logger, reference, plan.Stylesheets)

	service.renderer.Line(manifestHeadingTemplateConstant, plan.Stylesheets.Label, plan.BundleName)
	manifestFindings := service.auditManifest(logger, plan)

	service.renderer.Line(controllerHeadingTemplateConstant, plan.Controllers.Label)
	controllerFindings := service.auditFiles(executionContext, logger, reference, plan.Controllers)

	report := Aggregate(stylesheetFindings, manifestFindings, controllerFindings)
	if renderError := service.renderer.Render(report); renderError != nil {
		return report, fmt.Errorf(renderErrorTemplateConstant, renderError)
	}

	logger.Info(
		logMessageSyncCompletedConstant,
		zap.Int(logFieldErrorCountConstant, len(report.Errors)),
		zap.Int(logFieldWarningCountConstant, len(report.Warnings)),
	)

	if report.ExitCode() != exitCodeSuccessConstant {
		return report, ErrSyncCheckFailed
	}
	return report, nil
}

func (service *Service) auditFiles(executionContext context.Context, logger *zap.Logger, reference upstream.Reference, target Target) []Finding {
	results, auditError := service.fileAuditor.Audit(executionContext, reference, target)
	if auditError != nil {
		logger.Warn(logMessageAuditFailedConstant, zap.String(logFieldDirectoryConstant, target.Directory), zap.Error(auditError))
		return []Finding{service.formatter.AuditFailure(target.Directory, auditError)}
	}
	for _, result := range results {
		if result.Status == FileStatusMatched {
			service.renderer.Check(result.Filename)
		}
	}
	return service.formatter.FileFindings(target.Label, results)
}

func (service *Service) auditManifest(logger *zap.Logger, plan SyncPlan) []Finding {
	result, auditError := service.manifestAuditor.Audit(plan.BundlePath, plan.Stylesheets.Directory)
	if auditError != nil {
		logger.Warn(logMessageAuditFailedConstant, zap.String(logFieldDirectoryConstant, plan.BundlePath), zap.Error(auditError))
		return []Finding{service.formatter.AuditFailure(plan.BundlePath, auditError)}
	}

	missing := make(map[string]struct{}, len(result.MissingFromBundle))
	for _, filename := range result.MissingFromBundle {
		missing[filename] = struct{}{}
	}
	for _, filename := range result.LocalFiles {
		if _, isMissing := missing[filename]; !isMissing {
			service.renderer.Check(fmt.Sprintf(includedEntryTemplateConstant, filename))
		}
	}
	service.logDanglingImports(logger, plan.BundlePath, result)
	return service.formatter.ManifestFindings(plan.Stylesheets.Label, plan.BundleName, result)
}

func (service *Service) logDanglingImports(logger *zap.Logger, bundlePath string, result ManifestResult) {
	firstLines := make(map[string]int, len(result.Imports))
	for _, entry := range result.Imports {
		if _, seen := firstLines[entry.Filename]; !seen {
			firstLines[entry.Filename] = entry.Line
		}
	}
	for _, filename := range result.DanglingImports {
		logger.Warn(
			logMessageDanglingImportConstant,
			zap.String(logFieldBundleConstant, bundlePath),
			zap.String(logFieldFileConstant, filename),
			zap.Int(logFieldLineConstant, firstLines[filename]),
		)
	}
}
