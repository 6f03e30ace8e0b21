package engine

import (
	"context"
	"time"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

// ReportFormat controls the CLI output format.
type ReportFormat string

const (
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatTable ReportFormat = "table"
)

// AuditOptions configures a single audit run.
// It is the sole input to Engine.RunAudit.
type AuditOptions struct {
	// Profile is the named AWS profile to use. Empty means the default profile.
	Profile string

	// AllProfiles, when true, runs the audit across every configured AWS profile.
	AllProfiles bool

	// Regions is an explicit list of AWS regions to audit.
	// When empty the engine discovers and iterates all active regions.
	Regions []string

	// Kinds restricts the audit to the named resource kinds.
	// Empty means all kinds.
	Kinds []models.ResourceKind

	// DaysBack is the lookback window in days for cost and metric queries.
	// Defaults to 30 when zero.
	DaysBack int

	// Deadline bounds rule evaluation. Kinds still running when it expires
	// are reported as timed out. Zero means no deadline.
	Deadline time.Duration

	// Config holds audit thresholds and per-rule overrides. Nil means
	// defaults.
	Config *policy.AuditConfig

	// ReportFormat controls how the CLI renders the returned report.
	ReportFormat ReportFormat
}

// Engine is the central orchestration interface.
// It coordinates provider collection, rule evaluation, and report assembly,
// returning a fully populated AuditReport.
//
// Engine must not call AWS SDK clients directly; it delegates to the
// provider collaborators it was constructed with.
type Engine interface {
	RunAudit(ctx context.Context, opts AuditOptions) (*models.AuditReport, error)
}
