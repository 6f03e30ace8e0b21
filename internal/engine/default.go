package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/audit"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/providers/aws/billing"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/providers/aws/inventory"
)

// DefaultEngine is the production implementation of Engine.
// It coordinates inventory and billing collection, the concurrent audit
// fan-out, and report assembly. It never calls the AWS SDK directly.
type DefaultEngine struct {
	provider  common.ClientProvider
	inventory inventory.Collector
	billing   billing.Collector
}

// NewDefaultEngine constructs a DefaultEngine wired to the supplied
// provider and collectors.
func NewDefaultEngine(
	provider common.ClientProvider,
	inv inventory.Collector,
	bill billing.Collector,
) *DefaultEngine {
	return &DefaultEngine{
		provider:  provider,
		inventory: inv,
		billing:   bill,
	}
}

// RunAudit implements Engine. It loads the requested AWS profile(s),
// discovers regions if not explicitly provided, collects inventory and cost
// data, evaluates every kind's rulepack, and returns a fully populated
// AuditReport.
func (e *DefaultEngine) RunAudit(ctx context.Context, opts AuditOptions) (*models.AuditReport, error) {
	daysBack := opts.DaysBack
	if daysBack <= 0 {
		daysBack = 30
	}

	if opts.AllProfiles {
		return e.runAllProfiles(ctx, opts, daysBack)
	}
	return e.runSingleProfile(ctx, opts, daysBack)
}

func (e *DefaultEngine) runSingleProfile(
	ctx context.Context,
	opts AuditOptions,
	daysBack int,
) (*models.AuditReport, error) {
	profile, err := e.provider.LoadProfile(ctx, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", opts.Profile, err)
	}

	regions, err := e.resolveRegions(ctx, profile, opts.Regions)
	if err != nil {
		return nil, fmt.Errorf("resolve regions for profile %q: %w", profile.ProfileName, err)
	}

	summary, costSummary, err := e.auditProfile(ctx, profile, regions, opts, daysBack)
	if err != nil {
		return nil, err
	}

	return buildReport(profile.ProfileName, profile.AccountID, regions, summary, costSummary), nil
}

// runAllProfiles audits every configured AWS profile and merges the
// per-profile summaries into a single report. The report-level Profile field
// is set to "multi". Profile failures are skipped non-fatally; an error is
// returned only when no profile can be audited at all.
func (e *DefaultEngine) runAllProfiles(
	ctx context.Context,
	opts AuditOptions,
	daysBack int,
) (*models.AuditReport, error) {
	profiles, err := e.provider.LoadAllProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load all profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no AWS profiles found")
	}

	var (
		byKind          = make(map[models.ResourceKind]models.AuditResult)
		allRegions      []string
		seenRegions     = make(map[string]struct{})
		lastCostSummary *models.CostSummary
		audited         int
	)

	for _, profile := range profiles {
		regions, err := e.resolveRegions(ctx, profile, opts.Regions)
		if err != nil {
			zerolog.Ctx(ctx).Warn().
				Str("profile", profile.ProfileName).
				Err(err).
				Msg("skipping profile; region discovery failed")
			continue
		}

		summary, costSummary, err := e.auditProfile(ctx, profile, regions, opts, daysBack)
		if err != nil {
			zerolog.Ctx(ctx).Warn().
				Str("profile", profile.ProfileName).
				Err(err).
				Msg("skipping profile; audit failed")
			continue
		}
		audited++

		// Same-kind results from different accounts are combined, not
		// replaced: aggregation's last-write-wins is for re-running one
		// kind, and every profile's findings belong in the merged report.
		for kind, res := range summary.ByKind {
			acc := byKind[kind]
			acc.Kind = kind
			acc.TotalCount += res.TotalCount
			acc.Findings = append(acc.Findings, res.Findings...)
			acc.Errors = append(acc.Errors, res.Errors...)
			acc.PotentialMonthlySavings += res.PotentialMonthlySavings
			byKind[kind] = acc
		}
		for _, r := range regions {
			if _, seen := seenRegions[r]; !seen {
				seenRegions[r] = struct{}{}
				allRegions = append(allRegions, r)
			}
		}
		if costSummary != nil {
			lastCostSummary = costSummary
		}
	}

	if audited == 0 {
		return nil, fmt.Errorf("all profiles failed; no data collected")
	}

	combined := make([]models.AuditResult, 0, len(byKind))
	for _, kind := range models.AllKinds() {
		if res, ok := byKind[kind]; ok {
			combined = append(combined, res)
		}
	}
	merged := audit.Aggregate(ctx, combined)
	return buildReport("multi", "", allRegions, merged, lastCostSummary), nil
}

// auditProfile runs the full pipeline for one profile: inventory, billing,
// then the concurrent per-kind audit. Billing failures are non-fatal: the
// audit proceeds cost-unknown and the report carries no cost summary.
func (e *DefaultEngine) auditProfile(
	ctx context.Context,
	profile *common.ProfileConfig,
	regions []string,
	opts AuditOptions,
	daysBack int,
) (*models.DashboardAuditSummary, *models.CostSummary, error) {
	resources, err := e.inventory.CollectAll(ctx, profile, e.provider, regions, daysBack)
	if err != nil {
		return nil, nil, fmt.Errorf("collect inventory for profile %q: %w", profile.ProfileName, err)
	}
	resources = filterKinds(resources, opts.Kinds)

	ceCfg := e.provider.ConfigForRegion(profile, "us-east-1")

	costByResource, err := e.billing.CollectCostByResource(ctx, ceCfg, daysBack)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Msg("per-resource cost collection failed; auditing cost-unknown")
	}

	costSummary, err := e.billing.CollectCostSummary(ctx, ceCfg, daysBack)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Msg("cost summary collection failed; report will omit it")
		costSummary = nil
	}

	summary, err := audit.AuditAll(ctx, audit.Input{
		ResourcesByKind: resources,
		CostByResource:  costByResource,
	}, audit.Options{
		Config:   opts.Config,
		Deadline: opts.Deadline,
	})
	if err != nil {
		return nil, nil, err
	}
	return summary, costSummary, nil
}

// resolveRegions returns the explicit region list when provided, otherwise
// discovers opted-in regions for the profile.
func (e *DefaultEngine) resolveRegions(
	ctx context.Context,
	profile *common.ProfileConfig,
	explicit []string,
) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	return e.provider.GetActiveRegions(ctx, profile)
}

// filterKinds drops resource buckets outside the requested kind set.
// An empty set keeps everything.
func filterKinds(
	resources map[models.ResourceKind][]models.RawResource,
	kinds []models.ResourceKind,
) map[models.ResourceKind][]models.RawResource {
	if len(kinds) == 0 {
		return resources
	}
	want := make(map[models.ResourceKind]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	out := make(map[models.ResourceKind][]models.RawResource, len(want))
	for k, v := range resources {
		if _, ok := want[k]; ok {
			out[k] = v
		}
	}
	return out
}

// buildReport assembles the final AuditReport around an aggregated summary.
func buildReport(
	profile, accountID string,
	regions []string,
	summary *models.DashboardAuditSummary,
	costSummary *models.CostSummary,
) *models.AuditReport {
	return &models.AuditReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Profile:     profile,
		AccountID:   accountID,
		Regions:     regions,
		Summary:     summary,
		CostSummary: costSummary,
	}
}
