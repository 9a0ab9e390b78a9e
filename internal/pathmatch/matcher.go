// Package pathmatch evaluates filesystem paths against exclusion patterns.
//
// Two pattern kinds are supported: shell globs (extended with ** matching
// across directory boundaries, via doublestar) and regular expressions
// matched against the normalized full path. Patterns are compiled once at
// registration time; a Matcher is immutable and safe for concurrent use.
package pathmatch

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind identifies the pattern syntax.
type Kind int

const (
	// KindGlob is a shell glob, extended so ** matches across path segments.
	KindGlob Kind = iota
	// KindRegex is a Go regular expression matched against the full path.
	KindRegex
)

// String returns the string representation of the pattern kind.
func (k Kind) String() string {
	switch k {
	case KindGlob:
		return "glob"
	case KindRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind. Empty defaults to glob.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "glob":
		return KindGlob, nil
	case "regex":
		return KindRegex, nil
	default:
		return KindGlob, fmt.Errorf("unknown pattern kind %q", s)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// PatternError reports a pattern that failed to compile. It is returned at
// registration time so callers can reject bad patterns before they enter a
// rule set; matching itself never fails.
type PatternError struct {
	Text string
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Kind, e.Text, e.Err)
}

// Unwrap returns the underlying compilation error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// Matcher is a compiled exclusion pattern.
type Matcher struct {
	text string
	kind Kind
	re   *regexp.Regexp // regex kind only
}

// Compile validates and compiles a pattern. Malformed patterns produce a
// *PatternError.
func Compile(text string, kind Kind) (*Matcher, error) {
	switch kind {
	case KindGlob:
		if !doublestar.ValidatePattern(text) {
			return nil, &PatternError{Text: text, Kind: kind, Err: doublestar.ErrBadPattern}
		}
		return &Matcher{text: text, kind: kind}, nil
	case KindRegex:
		re, err := regexp.Compile(text)
		if err != nil {
			return nil, &PatternError{Text: text, Kind: kind, Err: err}
		}
		return &Matcher{text: text, kind: kind, re: re}, nil
	default:
		return nil, &PatternError{Text: text, Kind: kind, Err: fmt.Errorf("unknown kind")}
	}
}

// Text returns the original pattern text.
func (m *Matcher) Text() string { return m.text }

// Kind returns the pattern kind.
func (m *Matcher) Kind() Kind { return m.kind }

// Matches reports whether the normalized path matches the pattern.
//
// Glob patterns containing a separator are matched against the whole path;
// bare globs (no separator) are matched against each path segment, so a
// pattern like "__pycache__" or "*.pyc" matches at any depth. Regex
// patterns are always matched against the whole normalized path.
func (m *Matcher) Matches(p string) bool {
	p = Normalize(p)
	switch m.kind {
	case KindRegex:
		return m.re.MatchString(p)
	case KindGlob:
		if strings.Contains(m.text, "/") {
			ok, err := doublestar.Match(m.text, p)
			return err == nil && ok
		}
		for _, seg := range strings.Split(p, "/") {
			if ok, err := doublestar.Match(m.text, seg); err == nil && ok {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Normalize converts a path to the canonical form used for matching:
// forward slashes, redundant elements collapsed, no trailing slash except
// for the root itself. All comparisons in the engine go through this.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" {
		return "."
	}
	cleaned := path.Clean(p)
	if cleaned != "/" {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}
	return cleaned
}
