package audit

import (
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rules"
)

type panicRule struct{}

func (panicRule) ID() string                { return "PANIC_RULE" }
func (panicRule) Kind() models.ResourceKind { return models.KindCompute }
func (panicRule) Evaluate(rules.RuleContext) []models.Finding {
	panic("boom")
}

func TestAuditor_PartialFailure(t *testing.T) {
	raw := []models.RawResource{
		{ID: "i-0good", Kind: models.KindCompute, Region: "us-east-1",
			Samples: map[string]float64{"cpu_percent_avg": 2}},
		{ID: "", Kind: models.KindCompute, Region: "us-east-1"}, // unnormalizable
		{ID: "i-0busy", Kind: models.KindCompute, Region: "us-east-1",
			Samples: map[string]float64{"cpu_percent_avg": 50}},
	}
	costs := map[string]float64{"i-0good": 60}

	result := NewAuditor(models.KindCompute, DefaultRegistry(), nil).Audit(raw, costs)

	if result.TotalCount != 3 {
		t.Errorf("TotalCount must count every input resource, got %d", result.TotalCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 resource error, got %d", len(result.Errors))
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding (idle instance), got %d", len(result.Findings))
	}
	f := result.Findings[0]
	if f.ResourceID != "i-0good" || f.Classification != models.ClassIdle {
		t.Errorf("expected IDLE on i-0good, got %s on %s", f.Classification, f.ResourceID)
	}
	if f.PotentialMonthlySavings != 60 {
		t.Errorf("expected full-cost savings 60, got %f", f.PotentialMonthlySavings)
	}
	if result.PotentialMonthlySavings != 60 {
		t.Errorf("expected kind total 60, got %f", result.PotentialMonthlySavings)
	}
}

func TestAuditor_EvaluatorPanicContained(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(panicRule{})

	raw := []models.RawResource{
		{ID: "i-0doomed", Kind: models.KindCompute, Region: "us-east-1"},
		{ID: "i-0fine", Kind: models.KindCompute, Region: "us-east-1"},
	}

	result := NewAuditor(models.KindCompute, reg, nil).Audit(raw, nil)

	if result.TotalCount != 2 {
		t.Errorf("expected TotalCount 2, got %d", result.TotalCount)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected both resources to error, got %d", len(result.Errors))
	}
	for _, re := range result.Errors {
		if !strings.Contains(re.Reason, ReasonEvaluatorPanic) {
			t.Errorf("expected evaluator_panic reason, got %q", re.Reason)
		}
	}
}

func TestAuditor_CleanRun(t *testing.T) {
	raw := []models.RawResource{
		{ID: "i-0fine", Kind: models.KindCompute, Region: "us-east-1",
			Samples: map[string]float64{"cpu_percent_avg": 50}},
	}

	result := NewAuditor(models.KindCompute, DefaultRegistry(), nil).Audit(raw, nil)
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
	if len(result.Findings) != 0 {
		t.Errorf("expected no findings for healthy instance, got %d", len(result.Findings))
	}
	if result.Kind != models.KindCompute {
		t.Errorf("expected COMPUTE result, got %s", result.Kind)
	}
}
