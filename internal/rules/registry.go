package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
	"github.com/pankaj-dahiya-devops/finops-audit/internal/policy"
)

// Registry is an ordered, in-memory rule registry partitioned by resource
// kind. Rules are evaluated in registration order within their kind.
// Register panics on duplicate rule IDs to catch wiring mistakes at startup.
type Registry struct {
	byKind map[models.ResourceKind][]Rule
	index  map[string]struct{}
}

// NewRegistry returns an empty registry ready for rule registration.
func NewRegistry() *Registry {
	return &Registry{
		byKind: make(map[models.ResourceKind][]Rule),
		index:  make(map[string]struct{}),
	}
}

// Register adds rule to the registry. Panics if the same ID is registered
// twice or the rule reports an unrecognised kind.
func (r *Registry) Register(rule Rule) {
	if !models.ValidKind(rule.Kind()) {
		panic(fmt.Sprintf("rule %q: invalid kind %q", rule.ID(), rule.Kind()))
	}
	if _, exists := r.index[rule.ID()]; exists {
		panic(fmt.Sprintf("duplicate rule ID: %q", rule.ID()))
	}
	r.byKind[rule.Kind()] = append(r.byKind[rule.Kind()], rule)
	r.index[rule.ID()] = struct{}{}
}

// RulesFor returns the registered rules for kind in registration order.
func (r *Registry) RulesFor(kind models.ResourceKind) []Rule {
	return r.byKind[kind]
}

// RuleIDs returns every registered rule ID across all kinds, in canonical
// kind order then registration order.
func (r *Registry) RuleIDs() []string {
	var ids []string
	for _, kind := range models.AllKinds() {
		for _, rule := range r.byKind[kind] {
			ids = append(ids, rule.ID())
		}
	}
	return ids
}

// EvaluateKind runs every enabled rule of the metric's kind against ctx and
// merges the results. Rules run sequentially in registration order.
//
// If two rules of the same kind emit the same classification for the same
// resource, the first wins and the later one is dropped: one classification
// per resource per run is a hard output invariant, enforced here rather
// than trusted to every rule author.
func (r *Registry) EvaluateKind(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	seen := make(map[models.Classification]struct{})
	for _, rule := range r.byKind[ctx.Metric.Kind] {
		if !policy.RuleEnabled(rule.ID(), ctx.Config) {
			continue
		}
		for _, f := range rule.Evaluate(ctx) {
			if _, dup := seen[f.Classification]; dup {
				continue
			}
			seen[f.Classification] = struct{}{}
			findings = append(findings, f)
		}
	}
	return findings
}
