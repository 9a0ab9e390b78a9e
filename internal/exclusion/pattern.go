// Package exclusion holds the exclusion-rule model: immutable patterns with
// a kind and a scope, and the RuleSet that partitions them into manual and
// auto-suggested rules.
package exclusion

import (
	"fmt"
	"strings"

	"github.com/harrison/treescout/internal/pathmatch"
)

// Scope restricts which node kinds a pattern applies to.
type Scope int

const (
	// ScopeBoth applies the pattern to files and directories.
	ScopeBoth Scope = iota
	// ScopeFile applies the pattern to files only.
	ScopeFile
	// ScopeDir applies the pattern to directories only.
	ScopeDir
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeFile:
		return "file"
	case ScopeDir:
		return "dir"
	case ScopeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseScope converts a string to a Scope. Empty defaults to both.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return ScopeBoth, nil
	case "file":
		return ScopeFile, nil
	case "dir", "directory":
		return ScopeDir, nil
	default:
		return ScopeBoth, fmt.Errorf("unknown pattern scope %q", s)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s Scope) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scope) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseScope(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Target is the node kind a path represents when queried against a rule set.
type Target int

const (
	// TargetFile marks the queried path as a regular file.
	TargetFile Target = iota
	// TargetDir marks the queried path as a directory.
	TargetDir
)

// Pattern is a single exclusion rule. Patterns are immutable once added to
// a rule set; changing one is remove-then-add.
//
// A Pattern serializes to an order-preserving (text, kind, scope) triple;
// the persistence layer owns the surrounding file format.
type Pattern struct {
	Text  string         `yaml:"text"`
	Kind  pathmatch.Kind `yaml:"kind"`
	Scope Scope          `yaml:"scope"`
}

// Glob is shorthand for a glob pattern with the given scope.
func Glob(text string, scope Scope) Pattern {
	return Pattern{Text: text, Kind: pathmatch.KindGlob, Scope: scope}
}

// Regex is shorthand for a regex pattern with the given scope.
func Regex(text string, scope Scope) Pattern {
	return Pattern{Text: text, Kind: pathmatch.KindRegex, Scope: scope}
}

// String returns a compact human-readable form, e.g. "glob:dir:__pycache__".
func (p Pattern) String() string {
	return fmt.Sprintf("%s:%s:%s", p.Kind, p.Scope, p.Text)
}

// appliesTo reports whether the pattern's scope covers the target kind.
func (p Pattern) appliesTo(t Target) bool {
	switch p.Scope {
	case ScopeFile:
		return t == TargetFile
	case ScopeDir:
		return t == TargetDir
	default:
		return true
	}
}
