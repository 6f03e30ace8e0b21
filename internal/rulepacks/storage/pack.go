// Package storage provides the rule pack for STORAGE resources.
// See the compute pack for the shared rulepack conventions.
package storage

import "github.com/pankaj-dahiya-devops/finops-audit/internal/rules"

// New returns all STORAGE rules in the order they should be evaluated.
func New() []rules.Rule {
	return []rules.Rule{
		rules.StorageUnattachedRule{},
		rules.StorageClassMismatchRule{},
	}
}
