// Package autoexclude maps a detected project type to a library of
// suggested exclusion patterns. Suggestions are never applied by the
// engine: they are handed to the caller for confirmation and only then flow
// back into the rule set via ExclusionRuleSet.AddAuto.
package autoexclude

import (
	"sort"
	"sync"

	"github.com/harrison/treescout/internal/detect"
	"github.com/harrison/treescout/internal/exclusion"
)

// Provider contributes exclusion suggestions for one concern. Providers are
// registered per project type at startup; lookups never use reflection.
type Provider struct {
	// Name labels the provider in grouped output, e.g. "vcs-and-ide".
	Name string
	// Patterns are the suggested exclusions.
	Patterns []exclusion.Pattern
}

// Suggestion pairs a suggested pattern with the provider that produced it,
// so callers can present suggestions grouped by concern.
type Suggestion struct {
	Pattern exclusion.Pattern
	Source  string
}

// Manager resolves project types to suggestion sets via a static registry.
type Manager struct {
	mu       sync.RWMutex
	registry map[detect.Type][]Provider
}

// NewManager returns a Manager preloaded with the built-in provider
// library. The baseline VCS/IDE provider is registered for every known
// type, including generic, mirroring junk that accumulates in any checkout.
func NewManager() *Manager {
	m := &Manager{registry: make(map[detect.Type][]Provider)}
	for _, typ := range []detect.Type{
		detect.TypeNextJS, detect.TypeNodeJS, detect.TypePython,
		detect.TypeDatabase, detect.TypeWeb, detect.TypeGeneric,
	} {
		m.Register(typ, baselineProvider())
	}
	m.Register(detect.TypePython, pythonProvider())
	m.Register(detect.TypeNodeJS, nodeProvider())
	m.Register(detect.TypeNextJS, nodeProvider(), nextJSProvider())
	m.Register(detect.TypeWeb, webProvider())
	m.Register(detect.TypeDatabase, databaseProvider())
	return m
}

// Register appends providers for a project type. Registering for an unseen
// type makes it known; this is the extension point in place of dynamic
// service lookup.
func (m *Manager) Register(typ detect.Type, providers ...Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[typ] = append(m.registry[typ], providers...)
}

// Suggest returns the suggestion set for a project type, deduplicated by
// pattern identity, in provider registration order. Unknown types return
// an empty set rather than failing.
func (m *Manager) Suggest(typ detect.Type) []Suggestion {
	return m.SuggestAll(typ)
}

// SuggestAll merges the suggestion sets of several detected types. The
// first provider to suggest a pattern owns it; later duplicates are
// dropped.
func (m *Manager) SuggestAll(types ...detect.Type) []Suggestion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seenProvider := make(map[string]bool)
	seenPattern := make(map[exclusion.Pattern]bool)
	var out []Suggestion
	for _, typ := range types {
		for _, prov := range m.registry[typ] {
			if seenProvider[prov.Name] {
				continue
			}
			seenProvider[prov.Name] = true
			for _, p := range prov.Patterns {
				if seenPattern[p] {
					continue
				}
				seenPattern[p] = true
				out = append(out, Suggestion{Pattern: p, Source: prov.Name})
			}
		}
	}
	return out
}

// Patterns strips sources from suggestions, yielding the plain pattern
// list to feed into ExclusionRuleSet.AddAuto after confirmation.
func Patterns(suggs []Suggestion) []exclusion.Pattern {
	out := make([]exclusion.Pattern, len(suggs))
	for i, s := range suggs {
		out[i] = s.Pattern
	}
	return out
}

// Grouped buckets suggestions by source for display, with sources sorted
// and each bucket preserving suggestion order.
func Grouped(suggs []Suggestion) ([]string, map[string][]exclusion.Pattern) {
	groups := make(map[string][]exclusion.Pattern)
	for _, s := range suggs {
		groups[s.Source] = append(groups[s.Source], s.Pattern)
	}
	sources := make([]string, 0, len(groups))
	for src := range groups {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return sources, groups
}
