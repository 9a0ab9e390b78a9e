// Package project manages per-project treescout state: the exclusion
// rules file persisted under the project root.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/treescout/internal/exclusion"
	"github.com/harrison/treescout/internal/filelock"
)

// DefaultRulesPath is the rules file location relative to a project root.
const DefaultRulesPath = ".treescout/rules.yaml"

// RulesFile is the on-disk form of a project's exclusion rules. Manual
// rules are user-authored; auto rules were accepted from suggestions
// and may be replaced wholesale on later runs.
type RulesFile struct {
	Manual []exclusion.Pattern `yaml:"manual,omitempty"`
	Auto   []exclusion.Pattern `yaml:"auto,omitempty"`
}

// LoadRules reads a rules file. A missing file yields an empty RulesFile
// and no error.
func LoadRules(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &RulesFile{}, nil
		}
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return &rf, nil
}

// LoadRulesFromDir reads the rules file at its default location under root.
func LoadRulesFromDir(root string) (*RulesFile, error) {
	return LoadRules(filepath.Join(root, DefaultRulesPath))
}

// SaveRules writes the rules file atomically, creating parent
// directories as needed.
func SaveRules(path string, rf *RulesFile) error {
	data, err := yaml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create rules directory: %w", err)
		}
	}

	if err := filelock.AtomicWrite(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rules file %s: %w", path, err)
	}
	return nil
}

// SaveRulesToDir writes the rules file at its default location under root.
func SaveRulesToDir(root string, rf *RulesFile) error {
	return SaveRules(filepath.Join(root, DefaultRulesPath), rf)
}

// BuildRuleSet compiles the stored patterns into a live rule set.
// Every pattern is validated; a single bad pattern fails the build so
// a corrupt rules file never silently weakens exclusions.
func (rf *RulesFile) BuildRuleSet() (*exclusion.RuleSet, error) {
	rs := exclusion.NewRuleSet()
	for _, p := range rf.Manual {
		if err := rs.AddManual(p); err != nil {
			return nil, fmt.Errorf("invalid manual rule %q: %w", p.Text, err)
		}
	}
	if err := rs.AddAuto(rf.Auto); err != nil {
		return nil, fmt.Errorf("invalid auto rules: %w", err)
	}
	return rs, nil
}

// ReplaceAuto swaps in a fresh auto rule list, leaving manual rules
// untouched.
func (rf *RulesFile) ReplaceAuto(patterns []exclusion.Pattern) {
	rf.Auto = append([]exclusion.Pattern(nil), patterns...)
}
