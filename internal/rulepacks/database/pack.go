// Package database provides the rule pack for DATABASE resources.
// See the compute pack for the shared rulepack conventions.
package database

import (
	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/rules"
)

// New returns all DATABASE rules in the order they should be evaluated.
func New() []rules.Rule {
	return []rules.Rule{
		rules.DatabaseIdleRule{},
		rules.DatabaseRightsizeRule{},
		rules.ReservationOpportunityRule{
			RuleID:       "DATABASE_RESERVATION_OPPORTUNITY",
			ResourceKind: models.KindDatabase,
		},
	}
}
