// Package serverless provides the rule pack for SERVERLESS resources.
// See the compute pack for the shared rulepack conventions.
package serverless

import "github.com/pankaj-dahiya-devops/finops-audit/internal/rules"

// New returns all SERVERLESS rules in the order they should be evaluated.
func New() []rules.Rule {
	return []rules.Rule{
		rules.ServerlessIdleRule{},
		rules.ServerlessColdStartRule{},
		rules.ServerlessRightsizeRule{},
	}
}
