// Package staticip provides the rule pack for STATIC_IP resources.
// See the compute pack for the shared rulepack conventions.
package staticip

import "github.com/pankaj-dahiya-devops/finops-audit/internal/rules"

// New returns all STATIC_IP rules in the order they should be evaluated.
func New() []rules.Rule {
	return []rules.Rule{
		rules.StaticIPUnusedRule{},
	}
}
