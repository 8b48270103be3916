package types

// LayoutKind is the per-space layout a View renders windows with.
type LayoutKind int

const (
	LayoutBSP LayoutKind = iota
	LayoutStack
	LayoutFloat
)

// Pattern is a single match criterion: a substring pattern with an
// optional exclusion flag. Pattern matching itself (beyond substring
// containment) is boundary plumbing the rule engine does not elaborate
// on, per spec.md §1's explicit non-goal.
type Pattern struct {
	Value   string
	Exclude bool
}

// Match reports whether s satisfies the pattern: contains Value, negated
// if Exclude is set. A zero-value Pattern (empty Value, not excluding)
// always matches.
func (p Pattern) Match(s string) bool {
	if p.Value == "" {
		return true
	}
	contains := containsFold(s, p.Value)
	if p.Exclude {
		return !contains
	}
	return contains
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	sl, su := len(s), len(substr)
	if su > sl {
		return false
	}
	for i := 0; i+su <= sl; i++ {
		if equalFold(s[i:i+su], substr) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// MatchCriteria is the set of patterns a Rule matches a window against.
// A nil field is treated as "matches anything."
type MatchCriteria struct {
	App     *Pattern
	Title   *Pattern
	Role    *Pattern
	Subrole *Pattern
}

// Matches reports whether the given window attributes satisfy every
// non-nil criterion.
func (m MatchCriteria) Matches(app, title, role, subrole string) bool {
	if m.App != nil && !m.App.Match(app) {
		return false
	}
	if m.Title != nil && !m.Title.Match(title) {
		return false
	}
	if m.Role != nil && !m.Role.Match(role) {
		return false
	}
	if m.Subrole != nil && !m.Subrole.Match(subrole) {
		return false
	}
	return true
}

// GridSpec is a parsed "rows:cols:x:y:w:h" grid placement.
type GridSpec struct {
	Rows, Cols int
	X, Y       int
	W, H       int
}

// DisplaySpaceEffect targets a display or space, carrying whether the
// window should follow when its space changes.
type DisplaySpaceEffect struct {
	SpaceID     SpaceId
	FollowSpace bool
}

// Rule is one entry in the rule registry: match criteria plus the
// effects it contributes when matched.
type Rule struct {
	Label    string
	Criteria MatchCriteria
	OneShot  bool

	DisplaySpace *DisplaySpaceEffect
	Opacity      *float64
	Manage       *bool
	Sticky       *bool
	MouseFollowsFocus *bool
	Layer        *int
	Fullscreen   *bool
	Grid         *GridSpec
	Scratchpad   *string
}

// EffectSet is the result of composing every matching rule's effects.
// Every field is independently present-or-absent; a later rule in
// iteration order overrides only the fields it specifies (spec.md §4.4).
type EffectSet struct {
	DisplaySpace      *DisplaySpaceEffect
	Opacity           *float64
	Manage            *bool
	Sticky            *bool
	MouseFollowsFocus *bool
	Layer             *int
	Fullscreen        *bool
	Grid              *GridSpec
	Scratchpad        *string
}

// ApplyRule folds a single rule's effects onto the set, overriding only
// the fields the rule specifies.
func (e *EffectSet) ApplyRule(r Rule) {
	if r.DisplaySpace != nil {
		e.DisplaySpace = r.DisplaySpace
	}
	if r.Opacity != nil {
		e.Opacity = r.Opacity
	}
	if r.Manage != nil {
		e.Manage = r.Manage
	}
	if r.Sticky != nil {
		e.Sticky = r.Sticky
	}
	if r.MouseFollowsFocus != nil {
		e.MouseFollowsFocus = r.MouseFollowsFocus
	}
	if r.Layer != nil {
		e.Layer = r.Layer
	}
	if r.Fullscreen != nil {
		e.Fullscreen = r.Fullscreen
	}
	if r.Grid != nil {
		e.Grid = r.Grid
	}
	if r.Scratchpad != nil {
		e.Scratchpad = r.Scratchpad
	}
}
