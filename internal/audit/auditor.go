package audit

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rules"
)

// Auditor runs the complete audit pipeline for one resource kind:
// normalize → evaluate rules → attach savings. It owns its inputs and its
// output exclusively until the result is handed to the aggregator, so no
// synchronisation is needed anywhere in the pipeline.
type Auditor struct {
	kind     models.ResourceKind
	registry *rules.Registry
	cfg      *policy.AuditConfig
}

// NewAuditor returns an auditor for kind, evaluating the rules registered
// for that kind in registry under cfg.
func NewAuditor(kind models.ResourceKind, registry *rules.Registry, cfg *policy.AuditConfig) *Auditor {
	return &Auditor{kind: kind, registry: registry, cfg: cfg}
}

// Audit evaluates every supplied resource sequentially and returns the
// kind's AuditResult.
//
// Per-resource failures (bad identity fields, a panicking evaluator) are
// recorded in Errors and never abort the batch: this is the partial-failure
// contract the aggregator relies on. TotalCount always equals len(raw),
// however many resources were skipped. Findings keep evaluation order;
// global ranking happens later in the aggregator.
func (a *Auditor) Audit(raw []models.RawResource, costByResource map[string]float64) models.AuditResult {
	result := models.AuditResult{
		Kind:       a.kind,
		TotalCount: len(raw),
	}

	for _, r := range raw {
		findings, err := a.auditOne(r, costByResource)
		if err != nil {
			result.Errors = append(result.Errors, models.ResourceError{
				ResourceID: r.ID,
				Reason:     err.Error(),
			})
			continue
		}
		for _, f := range findings {
			result.Findings = append(result.Findings, f)
			result.PotentialMonthlySavings += f.PotentialMonthlySavings
		}
	}

	return result
}

// auditOne processes a single resource. A panic inside rule evaluation is
// contained here and surfaced as a per-resource error so one defective
// rule/metric combination cannot take down the whole kind.
func (a *Auditor) auditOne(raw models.RawResource, costByResource map[string]float64) (findings []models.Finding, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			findings = nil
			err = fmt.Errorf("%s: %v", ReasonEvaluatorPanic, rec)
		}
	}()

	metric, err := Normalize(raw, costByResource)
	if err != nil {
		return nil, err
	}

	findings = a.registry.EvaluateKind(rules.RuleContext{Metric: metric, Config: a.cfg})
	for i := range findings {
		findings[i].PotentialMonthlySavings = ComputeSavings(findings[i].Classification, metric, a.cfg)
	}
	return findings, nil
}
