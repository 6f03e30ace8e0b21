// Package render provides presentation-layer helpers for finops-audit CLI
// output. It is a pure rendering package — no rule evaluation, no savings
// math, no AWS API calls.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// FindingsForResource returns every finding in findings whose ResourceID
// equals resourceID, preserving report order.
func FindingsForResource(findings []models.Finding, resourceID string) []models.Finding {
	var out []models.Finding
	for _, f := range findings {
		if f.ResourceID == resourceID {
			out = append(out, f)
		}
	}
	return out
}

// RenderResourceExplanation writes a structured breakdown of one resource's
// findings to w. Evidence keys are sorted ascending for stable output.
//
// Example output:
//
//	RESOURCE i-0abc123 (COMPUTE, us-east-1)
//
//	  ✓ IDLE [HIGH]  $84.00/mo
//	    Stop or terminate this instance; observed usage is negligible.
//	    evidence:
//	      cpu_avg = 0.0200
//	      idle_threshold = 0.1000
func RenderResourceExplanation(w io.Writer, resourceID string, findings []models.Finding) {
	if len(findings) == 0 {
		fmt.Fprintf(w, "No findings for resource %s.\n", resourceID)
		return
	}

	first := findings[0]
	fmt.Fprintf(w, "RESOURCE %s (%s, %s)\n", resourceID, first.Kind, first.Region)

	for _, f := range findings {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  ✓ %s [%s]  $%.2f/mo\n", f.Classification, f.Severity, f.PotentialMonthlySavings)
		if f.Recommendation != "" {
			fmt.Fprintf(w, "    %s\n", f.Recommendation)
		}
		if len(f.Evidence) > 0 {
			fmt.Fprintln(w, "    evidence:")
			keys := make([]string, 0, len(f.Evidence))
			for k := range f.Evidence {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "      %s = %.4f\n", k, f.Evidence[k])
			}
		}
	}
}

// WriteExplainJSON writes the resource explanation as indented JSON to w.
//
// When findings is non-empty, the output is:
//
//	{"resource_id": "...", "findings": [ ... ]}
//
// When findings is empty (resource not present in the report), the output is:
//
//	{"error": "No findings for resource ID"}
func WriteExplainJSON(w io.Writer, resourceID string, findings []models.Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if len(findings) == 0 {
		return enc.Encode(map[string]string{
			"error": fmt.Sprintf("No findings for resource %s", resourceID),
		})
	}
	return enc.Encode(map[string]any{
		"resource_id": resourceID,
		"findings":    findings,
	})
}
