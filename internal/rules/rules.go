package rules

import (
	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/internal/xref"
	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// StateChangeRule closes or reopens a mirror when Cause holds for the pair
type StateChangeRule struct {
	Name   string
	Cause  func(p xref.Pair) bool
	Effect models.State
	Reason string
}

// Default returns the state-change rules in precedence order.
// Order is load-bearing: earlier rules win.
func Default() []StateChangeRule {
	return []StateChangeRule{
		{
			Name:   "missing-in-partner",
			Cause:  func(p xref.Pair) bool { return p.Partner == nil },
			Effect: models.StateClosed,
			Reason: "partner issue no longer exists",
		},
		{
			Name: "no-price-labels",
			Cause: func(p xref.Pair) bool {
				return !labels.HasPricingLabel(p.Mirror.Labels) && p.Mirror.IsOpen()
			},
			Effect: models.StateClosed,
			Reason: "mirror has no price label",
		},
		{
			Name: "merged",
			Cause: partner(func(pi, m *models.Issue) bool {
				return pi.IsClosed() && pi.Merged && m.IsOpen()
			}),
			Effect: models.StateClosed,
			Reason: "partner issue completed by a merged pull request",
		},
		{
			Name: "assigned-and-closed",
			Cause: partner(func(pi, m *models.Issue) bool {
				return pi.IsClosed() && pi.Assigned && m.IsOpen()
			}),
			Effect: models.StateClosed,
			Reason: "partner issue closed while assigned",
		},
		{
			Name: "closed-not-merged",
			Cause: partner(func(pi, m *models.Issue) bool {
				return pi.IsClosed() && m.IsOpen()
			}),
			Effect: models.StateClosed,
			Reason: "partner issue closed",
		},
		{
			Name: "assigned-and-open",
			Cause: partner(func(pi, m *models.Issue) bool {
				return pi.IsOpen() && pi.Assigned && m.IsOpen()
			}),
			Effect: models.StateClosed,
			Reason: "partner issue assigned",
		},
		{
			Name: "reopened-merged",
			Cause: partner(func(pi, m *models.Issue) bool {
				return pi.IsOpen() && pi.Merged && !pi.Assigned && labels.HasPriceLabel(pi.Labels) && m.IsClosed()
			}),
			Effect: models.StateOpen,
			Reason: "partner issue reopened after merge",
		},
		{
			Name: "reopened-unassigned",
			Cause: partner(func(pi, m *models.Issue) bool {
				return pi.IsOpen() && !pi.Assigned && labels.HasPriceLabel(pi.Labels) && m.IsClosed()
			}),
			Effect: models.StateOpen,
			Reason: "partner issue open and unassigned",
		},
	}
}

// partner lifts a predicate over both issues into a pair cause that is
// false for orphaned mirrors
func partner(fn func(pi, m *models.Issue) bool) func(xref.Pair) bool {
	return func(p xref.Pair) bool {
		if p.Partner == nil || p.Mirror == nil {
			return false
		}
		return fn(p.Partner, p.Mirror)
	}
}

// Decision is the outcome of evaluating the rules for one pair
type Decision struct {
	Rule      *StateChangeRule // rule whose effect should be applied; nil for no-op
	Conflicts []*StateChangeRule
}

// Evaluator walks an ordered rule list
type Evaluator struct {
	rules []StateChangeRule
}

// NewEvaluator creates an evaluator; rules are kept in the given order
func NewEvaluator(rules []StateChangeRule) *Evaluator {
	ordered := make([]StateChangeRule, len(rules))
	copy(ordered, rules)
	return &Evaluator{rules: ordered}
}

// Rules returns the rules in evaluation order
func (e *Evaluator) Rules() []StateChangeRule {
	return e.rules
}

// Evaluate picks the first rule whose cause holds and whose effect differs
// from the mirror's state. Later rules with the same effect are skipped;
// later rules demanding the opposite state are reported as conflicts.
func (e *Evaluator) Evaluate(p xref.Pair) Decision {
	var d Decision
	for i := range e.rules {
		rule := &e.rules[i]
		if d.Rule != nil && rule.Effect == d.Rule.Effect {
			continue
		}
		if !rule.Cause(p) {
			continue
		}
		if d.Rule != nil {
			d.Conflicts = append(d.Conflicts, rule)
			continue
		}
		if rule.Effect == p.Mirror.State {
			continue
		}
		d.Rule = rule
	}
	return d
}
