package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/treescout/internal/analyzer"
	"github.com/harrison/treescout/internal/logger"
	"github.com/harrison/treescout/internal/report"
)

// NewCommentsCommand creates the comments command
func NewCommentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments [root]",
		Short: "Report purpose comments across a project",
		Long: `Analyze the tree and report the purpose comments found in each file.

The default output is a flat listing. Use --markdown or --html to write
a report document instead, and --missing-only to list only the files
that carry no purpose comment.

Examples:
  treescout comments                      # List comments in the current directory
  treescout comments --missing-only .     # Show unannotated files
  treescout comments --markdown report.md # Write a markdown report
  treescout comments --html report.html   # Write a standalone HTML report`,
		Args: cobra.MaximumNArgs(1),
		RunE: commentsCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <root>/.treescout/config.yaml)")
	cmd.Flags().String("rules", "", "Path to rules file (default: <root>/.treescout/rules.yaml)")
	cmd.Flags().Bool("missing-only", false, "List only files without purpose comments")
	cmd.Flags().String("markdown", "", "Write a markdown report to this file")
	cmd.Flags().String("html", "", "Write an HTML report to this file")

	return cmd
}

// commentsCommand implements the comments command logic
func commentsCommand(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := loadConfigForRoot(cmd, root)
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)

	rulesPath := rulesPathForRoot(cmd, cfg, root)
	_, rules, err := loadRuleSet(rulesPath)
	if err != nil {
		return err
	}

	runner := analyzer.NewRunner(analyzer.Options{
		Rules:          rules,
		Parser:         newParser(cfg),
		MaxFileSize:    cfg.MaxFileSize,
		FollowSymlinks: cfg.FollowSymlinks,
		Workers:        cfg.Workers,
	})

	run, err := runner.Start(cmd.Context(), root)
	if err != nil {
		if errors.Is(err, analyzer.ErrRunInFlight) {
			return fmt.Errorf("another treescout run is already analyzing %s", root)
		}
		return err
	}

	res := run.Result()
	switch res.Status {
	case analyzer.StatusCancelled:
		return fmt.Errorf("analysis cancelled")
	case analyzer.StatusFailed:
		return fmt.Errorf("analysis failed: %w", res.Err)
	}
	log.Debugf("analyzed %s in %s", res.Root, res.Duration.Round(time.Millisecond))

	missingOnly := mustBool(cmd, "missing-only")
	mdPath, _ := cmd.Flags().GetString("markdown")
	htmlPath, _ := cmd.Flags().GetString("html")

	if mdPath != "" || htmlPath != "" {
		builder := report.NewBuilder(report.Options{MissingOnly: missingOnly})
		if mdPath != "" {
			md, err := builder.Markdown(&res)
			if err != nil {
				return err
			}
			if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", mdPath, err)
			}
			log.Successf("wrote markdown report to %s", mdPath)
		}
		if htmlPath != "" {
			page, err := builder.HTML(&res)
			if err != nil {
				return err
			}
			if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", htmlPath, err)
			}
			log.Successf("wrote HTML report to %s", htmlPath)
		}
		return nil
	}

	printCommentListing(cmd, &res, missingOnly)
	return nil
}

// printCommentListing writes the flat per-file listing to stdout
func printCommentListing(cmd *cobra.Command, res *analyzer.Result, missingOnly bool) {
	index := res.Tree.CommentIndex()

	paths := make([]string, 0, len(index))
	for p := range index {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	missing := 0
	for _, p := range paths {
		comments := index[p]
		if len(comments) == 0 {
			missing++
			if missingOnly {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			continue
		}
		if missingOnly {
			continue
		}
		for _, c := range comments {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %s\n", p, c.Line, c.Text)
		}
	}

	if !missingOnly {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d comments across %d files (%d files without comments)\n",
			res.Stats.Comments, res.Stats.Files, missing)
	}
}
