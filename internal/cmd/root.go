package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for treescout
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treescout",
		Short: "Directory analysis with exclusion rules and purpose comments",
		Long: `Treescout walks a project tree, applies layered exclusion rules,
and extracts purpose comments from source files.

It detects the project type (Python, Node.js, Next.js, web, database),
suggests exclusion rules to match, and renders the analyzed tree with
per-file annotations.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewSuggestCommand())
	cmd.AddCommand(NewCommentsCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
