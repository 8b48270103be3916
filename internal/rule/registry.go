// Package rule implements the ordered rule registry and effect
// composition described in spec.md §4.4. The registry's pattern-match
// plumbing is intentionally minimal (types.Pattern's substring match);
// only the effect-composition semantics are elaborated here.
package rule

import "github.com/tilewm/core/internal/types"

// Registry holds an ordered list of rules. Iteration order is
// significant: MatchAll composes matches in registry order, so later
// rules override fields earlier ones specified.
type Registry struct {
	rules []types.Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a rule. If the rule carries a non-empty label and a prior
// rule bears that label, the prior rule is removed first (spec.md §4.4).
func (r *Registry) Add(rule types.Rule) {
	if rule.Label != "" {
		r.RemoveLabel(rule.Label)
	}
	r.rules = append(r.rules, rule)
}

// RemoveLabel removes every rule bearing the given label. Returns the
// number removed.
func (r *Registry) RemoveLabel(label string) int {
	if label == "" {
		return 0
	}
	kept := r.rules[:0:0]
	removed := 0
	for _, existing := range r.rules {
		if existing.Label == label {
			removed++
			continue
		}
		kept = append(kept, existing)
	}
	r.rules = kept
	return removed
}

// Rules returns the registry's rules in iteration order. The returned
// slice must not be mutated by the caller.
func (r *Registry) Rules() []types.Rule {
	return r.rules
}

// MatchAll composes every matching rule's effects into one EffectSet,
// iterating in registry order so later rules override fields earlier
// ones specified (spec.md §4.4, testable property 9). Returns the
// composed set and the registry indices of any one-shot rules that
// matched (the caller is responsible for consuming them via
// ConsumeOneShots — the registry itself does not mutate on match).
func (r *Registry) MatchAll(app, title, role, subrole string) (types.EffectSet, []int) {
	var effects types.EffectSet
	var oneShotIdx []int

	for i, rl := range r.rules {
		if !rl.Criteria.Matches(app, title, role, subrole) {
			continue
		}
		effects.ApplyRule(rl)
		if rl.OneShot {
			oneShotIdx = append(oneShotIdx, i)
		}
	}

	return effects, oneShotIdx
}

// ConsumeOneShots removes the rules at the given registry indices
// (as returned by MatchAll), highest index first so earlier indices
// stay valid during removal.
func (r *Registry) ConsumeOneShots(indices []int) {
	sorted := append([]int(nil), indices...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for _, idx := range sorted {
		if idx < 0 || idx >= len(r.rules) {
			continue
		}
		r.rules = append(r.rules[:idx], r.rules[idx+1:]...)
	}
}
