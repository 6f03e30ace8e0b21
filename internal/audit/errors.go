package audit

import (
	"fmt"
	"strings"
)

// NormalizationError reports a raw resource that could not be normalized
// because required identity fields are absent. It is fatal for that
// resource only; the batch continues.
type NormalizationError struct {
	ResourceID    string
	MissingFields []string
}

func (e *NormalizationError) Error() string {
	id := e.ResourceID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("normalize resource %s: missing fields: %s", id, strings.Join(e.MissingFields, ", "))
}

// Skip reasons recorded in AuditResult.Errors.
const (
	// ReasonTimedOut marks a kind whose auditor did not finish before the
	// caller-supplied deadline. The kind's result is errors-only.
	ReasonTimedOut = "timed_out"

	// ReasonEvaluatorPanic marks a resource whose rule evaluation crashed.
	// The crash is contained; the rest of the batch proceeds.
	ReasonEvaluatorPanic = "evaluator_panic"

	// ReasonAuditorPanic marks a kind whose entire auditor crashed outside
	// per-resource evaluation. The kind's result is errors-only.
	ReasonAuditorPanic = "auditor_panic"
)
