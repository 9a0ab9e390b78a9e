package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/treescout/internal/comment"
	"github.com/harrison/treescout/internal/config"
	"github.com/harrison/treescout/internal/exclusion"
	"github.com/harrison/treescout/internal/project"
)

// loadConfigForRoot loads configuration from --config, falling back to
// <root>/.treescout/config.yaml and defaults.
func loadConfigForRoot(cmd *cobra.Command, root string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// rulesPathForRoot resolves the rules file location from --rules or the
// configured per-project path.
func rulesPathForRoot(cmd *cobra.Command, cfg *config.Config, root string) string {
	if rulesPath, _ := cmd.Flags().GetString("rules"); rulesPath != "" {
		return rulesPath
	}
	rp := cfg.RulesFile
	if !filepath.IsAbs(rp) {
		rp = filepath.Join(root, rp)
	}
	return rp
}

// loadRuleSet reads the rules file and compiles it
func loadRuleSet(path string) (*project.RulesFile, *exclusion.RuleSet, error) {
	rf, err := project.LoadRules(path)
	if err != nil {
		return nil, nil, err
	}
	rs, err := rf.BuildRuleSet()
	if err != nil {
		return nil, nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rf, rs, nil
}

// newParser builds the purpose-comment parser for the configured tag
func newParser(cfg *config.Config) *comment.Parser {
	return comment.NewParser(nil, cfg.PurposeTag)
}
