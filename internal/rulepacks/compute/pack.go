// Package compute provides the rule pack for COMPUTE resources.
// New returns every compute rule in evaluation order; callers register them
// into a rules.Registry via a loop rather than listing each rule explicitly.
//
// Adding a new compute rule:
//  1. Implement the rule in internal/rules/ following the Rule interface.
//  2. Append it to the slice returned by New().
//  3. No other files need to change.
//
// The serverless, database, storage and staticip packs follow the same
// convention: a single New() function returns a []rules.Rule slice that the
// engine registers in one loop.
package compute

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rules"
)

// New returns all COMPUTE rules in the order they should be evaluated.
func New() []rules.Rule {
	return []rules.Rule{
		rules.ComputeIdleRule{},
		rules.ComputeRightsizeRule{},
		rules.ReservationOpportunityRule{
			RuleID:       "COMPUTE_RESERVATION_OPPORTUNITY",
			ResourceKind: models.KindCompute,
		},
	}
}
