package audit

import (
	"errors"
	"math"
	"testing"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

func TestNormalize_PercentSamplesBecomeRatios(t *testing.T) {
	raw := models.RawResource{
		ID:     "i-0raw",
		Kind:   models.KindCompute,
		Region: "us-east-1",
		Samples: map[string]float64{
			"cpu_percent_avg":  42,
			"cpu_percent_peak": 103, // provider over-reporting; clamped to 1
		},
	}

	m, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := m.Util(models.MetricCPUAvg); !ok || v != 0.42 {
		t.Errorf("expected cpu_avg 0.42, got %f (ok=%v)", v, ok)
	}
	if v, _ := m.Util(models.MetricCPUPeak); v != 1 {
		t.Errorf("expected cpu_peak clamped to 1, got %f", v)
	}
}

func TestNormalize_MissingIdentityFields(t *testing.T) {
	raw := models.RawResource{ID: "", Kind: "FLEET", Region: ""}

	_, err := Normalize(raw, nil)
	var nerr *NormalizationError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NormalizationError, got %v", err)
	}
	if len(nerr.MissingFields) != 3 {
		t.Errorf("expected 3 missing fields, got %v", nerr.MissingFields)
	}
}

func TestNormalize_AbsentSampleStaysAbsent(t *testing.T) {
	raw := models.RawResource{
		ID:      "i-0sparse",
		Kind:    models.KindCompute,
		Region:  "us-east-1",
		Samples: map[string]float64{"cpu_percent_avg": 10},
	}

	m, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.Util(models.MetricRequestRate); ok {
		t.Error("request_rate must be absent, not zero-filled")
	}
}

func TestNormalize_BadSampleValuesDropped(t *testing.T) {
	raw := models.RawResource{
		ID:     "i-0bad",
		Kind:   models.KindCompute,
		Region: "us-east-1",
		Samples: map[string]float64{
			"cpu_percent_avg":   math.NaN(),
			"requests_per_hour": math.Inf(1),
			"connections_avg":   -4, // negative rate floors at 0
		},
	}

	m, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.Util(models.MetricCPUAvg); ok {
		t.Error("NaN sample must be dropped")
	}
	if _, ok := m.Util(models.MetricRequestRate); ok {
		t.Error("Inf sample must be dropped")
	}
	if v, ok := m.Util(models.MetricConnectionsAvg); !ok || v != 0 {
		t.Errorf("negative rate must floor at 0, got %f (ok=%v)", v, ok)
	}
}

func TestNormalize_UnrecognisedSampleDropped(t *testing.T) {
	raw := models.RawResource{
		ID:      "i-0odd",
		Kind:    models.KindCompute,
		Region:  "us-east-1",
		Samples: map[string]float64{"gpu_percent_avg": 55},
	}

	m, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Utilization) != 0 {
		t.Errorf("expected unrecognised samples dropped, got %v", m.Utilization)
	}
}

func TestNormalize_ByteAllocationsConverted(t *testing.T) {
	raw := models.RawResource{
		ID:     "fn-1",
		Kind:   models.KindServerless,
		Region: "us-east-1",
		Samples: map[string]float64{
			"allocated_memory_bytes": 512 * 1 << 20,
		},
	}

	m, err := Normalize(raw, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Allocated[models.AllocMemoryMB] != 512 {
		t.Errorf("expected 512 MB, got %f", m.Allocated[models.AllocMemoryMB])
	}
}

func TestNormalize_CostAttribution(t *testing.T) {
	raw := models.RawResource{
		ID:     "i-0cost",
		Kind:   models.KindCompute,
		Region: "us-east-1",
	}
	costs := map[string]float64{
		"i-0cost":  120.5,
		"i-0other": 7,
	}

	m, err := Normalize(raw, costs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.CostKnown() || m.Cost() != 120.5 {
		t.Errorf("expected cost 120.5, got known=%v cost=%f", m.CostKnown(), m.Cost())
	}
}

func TestNormalize_AbsentCostStaysUnknown(t *testing.T) {
	raw := models.RawResource{ID: "i-0nocost", Kind: models.KindCompute, Region: "us-east-1"}

	m, err := Normalize(raw, map[string]float64{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CostKnown() {
		t.Error("absent cost row must stay unknown, never zero")
	}
}

func TestNormalize_BadCostValuesIgnored(t *testing.T) {
	for name, cost := range map[string]float64{
		"negative": -5,
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			raw := models.RawResource{ID: "i-0x", Kind: models.KindCompute, Region: "us-east-1"}
			m, err := Normalize(raw, map[string]float64{"i-0x": cost})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.CostKnown() {
				t.Errorf("cost %f must be treated as unknown", cost)
			}
		})
	}
}
