package audit

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rulepacks/compute"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rulepacks/database"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rulepacks/serverless"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rulepacks/staticip"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rulepacks/storage"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rules"
)

// Input carries the already-materialized data the audit core operates on.
// The core performs no I/O: fetching resources and cost rows is the
// collaborators' job, and each invocation computes a fresh snapshot.
type Input struct {
	// ResourcesByKind maps each kind to its raw resource list. Kinds absent
	// from the map are not audited and do not appear in the summary.
	ResourcesByKind map[models.ResourceKind][]models.RawResource

	// CostByResource maps resource ids to their attributed monthly cost.
	// Ids may be absent; negative or NaN values are treated as absent.
	CostByResource map[string]float64
}

// Options configures one AuditAll invocation.
type Options struct {
	// Config holds thresholds and savings parameters. Nil means defaults.
	Config *policy.AuditConfig

	// Registry supplies the rules to evaluate. Nil means DefaultRegistry.
	Registry *rules.Registry

	// Deadline bounds the whole fan-out. Zero means no deadline beyond ctx.
	// On expiry the summary is partial: unfinished kinds appear as
	// errors-only results with reason "timed_out".
	Deadline time.Duration
}

// DefaultRegistry returns a registry loaded with every shipped rulepack.
func DefaultRegistry() *rules.Registry {
	reg := rules.NewRegistry()
	for _, packRules := range [][]rules.Rule{
		compute.New(), serverless.New(), database.New(), storage.New(), staticip.New(),
	} {
		for _, r := range packRules {
			reg.Register(r)
		}
	}
	return reg
}

// AuditAll is the core entry point: it validates configuration, fans out one
// auditor per kind present in the input, bounded by the configured
// concurrency limit, and aggregates their results into the frozen summary.
//
// Configuration problems fail fast before any auditor runs. Everything else
// fails soft: per-resource errors stay inside their AuditResult, a panicking
// auditor becomes an errors-only result for its kind, and a deadline expiry
// yields a partial summary rather than an error.
func AuditAll(ctx context.Context, in Input, opts Options) (*models.DashboardAuditSummary, error) {
	cfg := opts.Config
	if cfg == nil {
		c := policy.DefaultAuditConfig()
		cfg = &c
	}
	if err := policy.Validate(cfg); err != nil {
		return nil, err
	}

	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	// Canonical kind order keeps scheduling, and therefore log output,
	// deterministic. The final ordering never depends on completion order.
	var kinds []models.ResourceKind
	for _, kind := range models.AllKinds() {
		if _, ok := in.ResourcesByKind[kind]; ok {
			kinds = append(kinds, kind)
		}
	}

	limit := cfg.ConcurrencyLimit
	if limit <= 0 {
		limit = len(kinds)
	}
	if limit == 0 {
		limit = 1
	}

	runs := make([]*kindRun, len(kinds))
	for i, kind := range kinds {
		runs[i] = &kindRun{kind: kind, done: make(chan struct{})}
	}

	// Submission happens off the caller goroutine: g.Go blocks while the
	// limit is saturated, and the deadline must stay observable even when a
	// slow auditor is holding every slot.
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		var g errgroup.Group
		g.SetLimit(limit)
		for _, run := range runs {
			g.Go(func() error {
				defer close(run.done)
				run.result = runKind(run.kind, in, registry, cfg)
				return nil
			})
		}
		_ = g.Wait()
	}()

	var expired <-chan time.Time
	if opts.Deadline > 0 {
		timer := time.NewTimer(opts.Deadline)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-finished:
	case <-expired:
	case <-ctx.Done():
	}

	results := make([]models.AuditResult, 0, len(runs))
	for _, run := range runs {
		// A closed done channel guarantees the result write is visible.
		select {
		case <-run.done:
			results = append(results, run.result)
		default:
			zerolog.Ctx(ctx).Warn().
				Str("kind", string(run.kind)).
				Msg("auditor did not finish before deadline; reporting timed_out")
			results = append(results, models.AuditResult{
				Kind:   run.kind,
				Errors: []models.ResourceError{{Reason: ReasonTimedOut}},
			})
		}
	}

	return Aggregate(ctx, results), nil
}

type kindRun struct {
	kind   models.ResourceKind
	result models.AuditResult
	done   chan struct{}
}

// runKind executes one kind's auditor, containing any panic as an
// errors-only result so a defective kind cannot blank the whole summary.
func runKind(kind models.ResourceKind, in Input, registry *rules.Registry, cfg *policy.AuditConfig) (result models.AuditResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = models.AuditResult{
				Kind:   kind,
				Errors: []models.ResourceError{{Reason: ReasonAuditorPanic}},
			}
		}
	}()
	return NewAuditor(kind, registry, cfg).Audit(in.ResourcesByKind[kind], in.CostByResource)
}

// Aggregate merges per-kind audit results into the final frozen summary.
//
// ByKind is keyed last-write-wins, so re-running one kind and merging again
// replaces rather than accumulates. Findings are flattened from the surviving
// per-kind results only, deduplicated
// on (resource_id, classification) keeping the higher-savings copy, and
// sorted by the global total order. The grand total is the exact sum over
// the kept findings, never the sum of per-kind totals, so a dropped
// duplicate is never double-counted.
func Aggregate(ctx context.Context, results []models.AuditResult) *models.DashboardAuditSummary {
	summary := &models.DashboardAuditSummary{
		ByKind:      make(map[models.ResourceKind]models.AuditResult, len(results)),
		GeneratedAt: time.Now().UTC(),
	}

	for _, res := range results {
		summary.ByKind[res.Kind] = res
	}

	type findingKey struct {
		resourceID string
		class      models.Classification
	}
	kept := make(map[findingKey]int)

	// Flatten only the surviving per-kind results: findings from a result
	// replaced by a later one for the same kind must not leak into the
	// global list or the grand total. Canonical kind order keeps the merge
	// deterministic before the final sort.
	var all []models.Finding
	for _, kind := range models.AllKinds() {
		res, ok := summary.ByKind[kind]
		if !ok {
			continue
		}
		for _, f := range res.Findings {
			key := findingKey{f.ResourceID, f.Classification}
			idx, collision := kept[key]
			if !collision {
				kept[key] = len(all)
				all = append(all, f)
				continue
			}
			zerolog.Ctx(ctx).Warn().
				Str("resource_id", f.ResourceID).
				Str("classification", string(f.Classification)).
				Str("kinds", string(all[idx].Kind)+","+string(f.Kind)).
				Msg("duplicate finding across auditors; keeping higher savings")
			if preferFinding(f, all[idx]) {
				all[idx] = f
			}
		}
	}

	sortFindings(all)
	summary.AllFindings = all
	for _, f := range all {
		summary.TotalPotentialMonthlySavings += f.PotentialMonthlySavings
	}
	return summary
}

// preferFinding reports whether candidate should replace incumbent when both
// carry the same (resource_id, classification) key: higher savings wins,
// then higher severity, then the lexicographically smaller kind. Fully
// deterministic so merge output never depends on auditor completion order.
func preferFinding(candidate, incumbent models.Finding) bool {
	if candidate.PotentialMonthlySavings != incumbent.PotentialMonthlySavings {
		return candidate.PotentialMonthlySavings > incumbent.PotentialMonthlySavings
	}
	if models.SeverityRank(candidate.Severity) != models.SeverityRank(incumbent.Severity) {
		return models.SeverityRank(candidate.Severity) > models.SeverityRank(incumbent.Severity)
	}
	return candidate.Kind < incumbent.Kind
}

// sortFindings orders findings by potential savings descending, severity
// descending, resource id ascending, then classification ascending — a
// deterministic total order over any finding set.
func sortFindings(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.PotentialMonthlySavings != b.PotentialMonthlySavings {
			return a.PotentialMonthlySavings > b.PotentialMonthlySavings
		}
		if ra, rb := models.SeverityRank(a.Severity), models.SeverityRank(b.Severity); ra != rb {
			return ra > rb
		}
		if a.ResourceID != b.ResourceID {
			return a.ResourceID < b.ResourceID
		}
		return a.Classification < b.Classification
	})
}
