package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/treescout/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [root]",
		Short: "Show past analysis runs",
		Long: `Show the recorded history of analysis runs for a project.

Runs are stored in the project's history database while history is
enabled in the configuration.

Examples:
  treescout history              # Recent runs for the current directory
  treescout history --limit 50 . # Show more runs`,
		Args: cobra.MaximumNArgs(1),
		RunE: historyCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <root>/.treescout/config.yaml)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	cmd.Flags().Bool("all-roots", false, "Show runs for every analyzed root in the database")

	return cmd
}

// historyCommand implements the history command logic
func historyCommand(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := loadConfigForRoot(cmd, root)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in the configuration")
	}

	dbPath := cfg.History.DBPath
	if !filepath.IsAbs(dbPath) && dbPath != ":memory:" {
		dbPath = filepath.Join(root, dbPath)
	}
	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	filterRoot := ""
	if !mustBool(cmd, "all-roots") {
		filterRoot, err = filepath.Abs(root)
		if err != nil {
			return err
		}
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.RecentRuns(cmd.Context(), filterRoot, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tDIRS\tFILES\tCOMMENTS\tEXCLUDED\tDURATION\tROOT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status, r.Dirs, r.Files, r.Comments, r.Excluded,
			r.Duration.Round(time.Millisecond), r.Root)
	}
	return w.Flush()
}
