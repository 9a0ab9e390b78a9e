package exclusion

import (
	"sync"

	"github.com/harrison/treescout/internal/pathmatch"
)

// rule is a pattern paired with its compiled matcher.
type rule struct {
	pattern Pattern
	matcher *pathmatch.Matcher
}

// RuleSet is an ordered collection of exclusion patterns, partitioned into
// manual rules (user-authored, never auto-removed) and auto rules
// (suggestions confirmed by the user, cleared en masse when the project
// type changes).
//
// Exclusion is monotonic: a path is excluded iff any pattern whose scope
// covers its kind matches it. There is no include pattern that can
// un-exclude a path, and clearing the auto partition never touches manual
// rules.
//
// A RuleSet is safe for concurrent readers; during an analysis run it is
// treated as read-only.
type RuleSet struct {
	mu     sync.RWMutex
	manual []rule
	auto   []rule
}

// NewRuleSet returns an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// AddManual registers a user-authored pattern. Malformed patterns are
// rejected with a *pathmatch.PatternError and never enter the set.
// Adding a pattern already present is a no-op.
func (rs *RuleSet) AddManual(p Pattern) error {
	m, err := pathmatch.Compile(p.Text, p.Kind)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if indexOf(rs.manual, p) >= 0 {
		return nil
	}
	rs.manual = append(rs.manual, rule{pattern: p, matcher: m})
	return nil
}

// RemoveManual removes a manual pattern by identity. It reports whether a
// pattern was removed.
func (rs *RuleSet) RemoveManual(p Pattern) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	i := indexOf(rs.manual, p)
	if i < 0 {
		return false
	}
	rs.manual = append(rs.manual[:i], rs.manual[i+1:]...)
	return true
}

// AddAuto registers confirmed auto-suggested patterns in bulk. The whole
// batch is validated before any pattern is added, so a single malformed
// pattern rejects the operation without partial effects.
func (rs *RuleSet) AddAuto(patterns []Pattern) error {
	compiled := make([]rule, 0, len(patterns))
	for _, p := range patterns {
		m, err := pathmatch.Compile(p.Text, p.Kind)
		if err != nil {
			return err
		}
		compiled = append(compiled, rule{pattern: p, matcher: m})
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, r := range compiled {
		if indexOf(rs.auto, r.pattern) >= 0 {
			continue
		}
		rs.auto = append(rs.auto, r)
	}
	return nil
}

// ClearAuto drops the whole auto partition. Manual rules are untouched.
// Callers re-running project type detection must clear before suggesting
// again so stale patterns do not accumulate.
func (rs *RuleSet) ClearAuto() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.auto = nil
}

// IsExcluded reports whether the path is excluded for the given target
// kind. Directory exclusion is a pruning rule: the traversal never visits
// descendants of an excluded directory, so this is never called for them.
func (rs *RuleSet) IsExcluded(path string, target Target) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	for _, r := range rs.manual {
		if r.pattern.appliesTo(target) && r.matcher.Matches(path) {
			return true
		}
	}
	for _, r := range rs.auto {
		if r.pattern.appliesTo(target) && r.matcher.Matches(path) {
			return true
		}
	}
	return false
}

// Manual returns a copy of the manual patterns in insertion order.
func (rs *RuleSet) Manual() []Pattern {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return patternsOf(rs.manual)
}

// Auto returns a copy of the auto patterns in insertion order.
func (rs *RuleSet) Auto() []Pattern {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return patternsOf(rs.auto)
}

// Len returns the total number of patterns across both partitions.
func (rs *RuleSet) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.manual) + len(rs.auto)
}

func indexOf(rules []rule, p Pattern) int {
	for i, r := range rules {
		if r.pattern == p {
			return i
		}
	}
	return -1
}

func patternsOf(rules []rule) []Pattern {
	out := make([]Pattern, len(rules))
	for i, r := range rules {
		out[i] = r.pattern
	}
	return out
}
