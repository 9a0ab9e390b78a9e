package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/treescout/internal/autoexclude"
	"github.com/harrison/treescout/internal/detect"
	"github.com/harrison/treescout/internal/logger"
	"github.com/harrison/treescout/internal/project"
)

// NewSuggestCommand creates the suggest command
func NewSuggestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [root]",
		Short: "Suggest exclusion rules for a project",
		Long: `Detect the project type and suggest exclusion rules to match.

Suggestions are grouped by their source (version control, Python
tooling, Node.js packaging, and so on). With --apply, the suggestions
replace the auto section of the rules file; manually added rules are
never touched.

Examples:
  treescout suggest                  # Show suggestions for the current directory
  treescout suggest ~/code/webapp    # Show suggestions for another project
  treescout suggest --apply .        # Write suggestions into .treescout/rules.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: suggestCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <root>/.treescout/config.yaml)")
	cmd.Flags().String("rules", "", "Path to rules file (default: <root>/.treescout/rules.yaml)")
	cmd.Flags().Bool("apply", false, "Write suggestions to the rules file's auto section")

	return cmd
}

// suggestCommand implements the suggest command logic
func suggestCommand(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := loadConfigForRoot(cmd, root)
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)

	types, err := detect.DetectAll(root)
	if err != nil {
		return fmt.Errorf("failed to detect project type: %w", err)
	}
	log.Debugf("detected types: %v", types)

	typeNames := make([]string, len(types))
	for i, typ := range types {
		typeNames[i] = string(typ)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Detected project type: %s\n\n", strings.Join(typeNames, ", "))

	manager := autoexclude.NewManager()
	suggestions := manager.SuggestAll(types...)
	if len(suggestions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No suggestions for this project.")
		return nil
	}

	sources, groups := autoexclude.Grouped(suggestions)
	bold := color.New(color.Bold)
	for _, source := range sources {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", bold.Sprint(source))
		for _, p := range groups[source] {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if !mustBool(cmd, "apply") {
		fmt.Fprintln(cmd.OutOrStdout(), "Run again with --apply to write these rules.")
		return nil
	}

	rulesPath := rulesPathForRoot(cmd, cfg, root)
	rf, err := project.LoadRules(rulesPath)
	if err != nil {
		return err
	}
	rf.ReplaceAuto(autoexclude.Patterns(suggestions))
	if err := project.SaveRules(rulesPath, rf); err != nil {
		return err
	}

	log.Successf("wrote %d auto rules to %s", len(rf.Auto), rulesPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d rules to %s (%d manual rules kept).\n",
		len(rf.Auto), rulesPath, len(rf.Manual))
	return nil
}
