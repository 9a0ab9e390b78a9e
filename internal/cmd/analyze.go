package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/treescout/internal/analyzer"
	"github.com/harrison/treescout/internal/config"
	"github.com/harrison/treescout/internal/display"
	"github.com/harrison/treescout/internal/history"
	"github.com/harrison/treescout/internal/logger"
	"github.com/harrison/treescout/internal/watch"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [root]",
		Short: "Analyze a directory tree",
		Long: `Analyze a directory tree: apply exclusion rules, extract purpose
comments, and print the annotated tree.

Exclusion rules are loaded from .treescout/rules.yaml under the root.
Configuration is loaded from .treescout/config.yaml if present; CLI
flags override configuration file settings.

Examples:
  treescout analyze                        # Analyze the current directory
  treescout analyze ~/code/webapp          # Analyze another project
  treescout analyze --show-excluded .      # Keep excluded entries visible
  treescout analyze --comments .           # Print purpose comments inline
  treescout analyze --watch .              # Re-analyze on file changes
  treescout analyze --workers 8 /big/tree  # Parallel directory fan-out
  treescout analyze --max-file-size 4mb .  # Raise the file read guard`,
		Args: cobra.MaximumNArgs(1),
		RunE: analyzeCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <root>/.treescout/config.yaml)")
	cmd.Flags().String("rules", "", "Path to rules file (default: <root>/.treescout/rules.yaml)")
	cmd.Flags().Bool("follow-symlinks", false, "Descend into symlinked directories")
	cmd.Flags().String("max-file-size", "", "Skip files larger than this (e.g. 512kb, 4mb)")
	cmd.Flags().Int("workers", 0, "Concurrent directory workers (0 = use config)")
	cmd.Flags().Bool("watch", false, "Stay running and re-analyze on file changes")
	cmd.Flags().Bool("show-excluded", false, "List excluded entries, marked")
	cmd.Flags().Bool("comments", false, "Print purpose comments under each file")
	cmd.Flags().Bool("verbose", false, "Show detailed progress information")

	return cmd
}

// analyzeCommand implements the analyze command logic
func analyzeCommand(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := loadConfigForRoot(cmd, root)
	if err != nil {
		return err
	}
	if err := mergeAnalyzeFlags(cmd, cfg); err != nil {
		return err
	}

	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}
	log := logger.NewConsoleLogger(os.Stderr, logLevel)

	rulesPath := rulesPathForRoot(cmd, cfg, root)
	_, rules, err := loadRuleSet(rulesPath)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d exclusion rules from %s", rules.Len(), rulesPath)

	opts := analyzer.Options{
		Rules:          rules,
		Parser:         newParser(cfg),
		MaxFileSize:    cfg.MaxFileSize,
		FollowSymlinks: cfg.FollowSymlinks,
		Workers:        cfg.Workers,
	}
	meter := newProgressMeter(&opts)
	runner := analyzer.NewRunner(opts)

	treeOpts := display.TreeOptions{
		Color:        isatty.IsTerminal(os.Stdout.Fd()),
		ShowComments: mustBool(cmd, "comments"),
		ShowExcluded: mustBool(cmd, "show-excluded"),
	}

	var store *history.Store
	if cfg.History.Enabled {
		dbPath := cfg.History.DBPath
		if !filepath.IsAbs(dbPath) && dbPath != ":memory:" {
			dbPath = filepath.Join(root, dbPath)
		}
		store, err = history.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
	}

	ctx := cmd.Context()

	runOnce := func() error {
		run, err := runner.Start(ctx, root)
		if err != nil {
			if errors.Is(err, analyzer.ErrRunInFlight) {
				return fmt.Errorf("another treescout run is already analyzing %s", root)
			}
			return err
		}
		log.Debugf("run %s started", run.ID())

		res := run.Result()
		meter.finish()

		if store != nil {
			// Recording must outlive ctx: on Ctrl-C the run comes back
			// cancelled with ctx already dead, and the row still belongs
			// in history.
			recordCtx, recordCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer recordCancel()
			if _, err := store.RecordResult(recordCtx, &res); err != nil {
				log.Warnf("failed to record run history: %v", err)
			} else if _, err := store.Prune(recordCtx, cfg.History.KeepRuns); err != nil {
				log.Warnf("failed to prune run history: %v", err)
			}
		}

		switch res.Status {
		case analyzer.StatusCancelled:
			log.Warnf("run %s cancelled after %s", res.RunID, res.Duration.Round(time.Millisecond))
			return nil
		case analyzer.StatusFailed:
			return fmt.Errorf("analysis failed: %w", res.Err)
		}

		display.NewTreeRenderer(cmd.OutOrStdout(), treeOpts).Render(res.Tree)
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d directories, %d files, %d comments, %d excluded\n",
			res.Stats.Dirs, res.Stats.Files, res.Stats.Comments, res.Stats.Excluded)

		if res.Stats.Errors > 0 {
			display.WarnScanErrors(res.Stats.Errors, errorPaths(res.Tree)).Display(cmd.OutOrStderr())
		}

		log.Successf("analyzed %s in %s", res.Root, res.Duration.Round(time.Millisecond))
		return nil
	}

	if err := runOnce(); err != nil {
		return err
	}

	if !mustBool(cmd, "watch") {
		return nil
	}

	watcher, err := watch.NewTreeWatcher(root, rules)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer watcher.Close()

	log.Infof("watching %s for changes (Ctrl-C to stop)", watcher.Root())
	for {
		select {
		case <-ctx.Done():
			return nil
		case werr := <-watcher.Errors():
			log.Warnf("watch error: %v", werr)
		case cs := <-watcher.Changes():
			log.Infof("%d paths changed, re-analyzing", len(cs.Paths))
			if err := runOnce(); err != nil {
				return err
			}
		}
	}
}

// mergeAnalyzeFlags overlays changed CLI flags onto the loaded config
func mergeAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("follow-symlinks") {
		cfg.FollowSymlinks = mustBool(cmd, "follow-symlinks")
	}
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("max-file-size") {
		sizeStr, _ := cmd.Flags().GetString("max-file-size")
		size, err := config.ParseSize(sizeStr)
		if err != nil {
			return fmt.Errorf("invalid max-file-size %q: %w", sizeStr, err)
		}
		cfg.MaxFileSize = size
	}
	return cfg.Validate()
}

// progressMeter throttles OnProgress callbacks into stderr updates when
// stderr is a terminal.
type progressMeter struct {
	meter  *logger.ScanMeter
	active bool
	last   atomic.Int64
}

func newProgressMeter(opts *analyzer.Options) *progressMeter {
	pm := &progressMeter{
		meter:  logger.NewScanMeter(isatty.IsTerminal(os.Stderr.Fd())),
		active: isatty.IsTerminal(os.Stderr.Fd()),
	}
	if !pm.active {
		return pm
	}
	opts.OnProgress = func(p analyzer.Progress) {
		// Refresh once per hundred files to keep the hot path cheap.
		bucket := p.Files / 100
		if pm.last.Swap(bucket) == bucket {
			return
		}
		pm.meter.Update(p.Dirs, p.Files, p.Comments, p.Errors)
		fmt.Fprintf(os.Stderr, "\r%s", pm.meter.Render())
	}
	return pm
}

// finish clears the in-place progress line
func (pm *progressMeter) finish() {
	if pm.active && pm.meter.Files() > 0 {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
}

// errorPaths collects paths of nodes that failed to read, capped for
// display.
func errorPaths(tree *analyzer.Node) []string {
	const maxPaths = 10
	var paths []string
	tree.Walk(func(n *analyzer.Node) {
		if n.Err != "" && len(paths) < maxPaths {
			paths = append(paths, n.Path)
		}
	})
	return paths
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
