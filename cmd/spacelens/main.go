package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devpatel/spacelens/internal/cachescan"
	"github.com/devpatel/spacelens/internal/cleaner"
	"github.com/devpatel/spacelens/internal/config"
	"github.com/devpatel/spacelens/internal/dupes"
	"github.com/devpatel/spacelens/internal/platform"
	"github.com/devpatel/spacelens/internal/reporter"
	"github.com/devpatel/spacelens/internal/session"
	"github.com/devpatel/spacelens/internal/ui/models"
	"github.com/devpatel/spacelens/pkg/utils"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	topN       int
	minSize    string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spacelens",
	Short: "Disk usage analyzer with safe cache cleanup",
	Long: heredoc.Doc(`
		Spacelens analyzes local disk usage: it walks directory trees,
		aggregates sizes by file and extension, locates well-known cache
		folders, and performs reversible deletion. Deleted paths move to a
		recoverable holding area; nothing is ever erased permanently.
	`),
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory tree and report usage",
	Long: heredoc.Doc(`
		Walks the given directory (default: current directory) and reports
		total size, the largest files, and a per-extension breakdown.
		Symlinks are never followed and mount boundaries are never crossed.
		Press Ctrl+C to cancel; partial results are still reported.
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		n := cfg.TopN
		if cmd.Flags().Changed("top") {
			n = topN
		}

		sess := session.New(root, session.WithTopN(n))
		if err := sess.Start(); err != nil {
			return err
		}

		// Ctrl+C requests cooperative cancellation; the session still
		// publishes the partial result it had at the stop point.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		go func() {
			<-ctx.Done()
			sess.Cancel()
		}()

		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
	wait:
		for {
			select {
			case <-sess.Done():
				break wait
			case <-ticker.C:
				if verbose {
					if st := sess.Poll(); st.Result != nil {
						fmt.Fprintf(os.Stderr, "\r%d entries, %s",
							st.Visited, humanize.IBytes(uint64(st.Result.TotalBytes)))
					}
				}
			}
		}
		if verbose {
			fmt.Fprintln(os.Stderr)
		}

		return reporter.New(os.Stdout).ReportScan(root, sess.Wait())
	},
}

var cachesCmd = &cobra.Command{
	Use:   "caches",
	Short: "Locate and size well-known cache folders",
	Long: heredoc.Doc(`
		Resolves the platform's known cache and temp folder templates
		against the current user profile and sizes each existing one.
		Candidates are scanned by a small worker pool; folders that cannot
		be read degrade to a warning instead of failing the listing.
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		info, err := platform.GetInfo()
		if err != nil {
			return err
		}

		loc := cachescan.New(info, cachescan.WithWorkers(cfg.CacheWorkers))
		candidates := loc.Locate(cmd.Context())
		return reporter.New(os.Stdout).ReportCaches(candidates, loc.Warnings())
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean <path>...",
	Short: "Move paths to the recoverable holding area",
	Long: heredoc.Doc(`
		Requests reversible deletion of the given paths. Each path is moved
		into the holding area and recorded in a manifest, from which it can
		be restored with "spacelens restore". Protected system paths and
		files currently in use are skipped and reported, never touched.
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCleaner()
		if err != nil {
			return err
		}

		result, err := c.RequestDelete(args)
		if err != nil {
			return err
		}

		for _, p := range result.Succeeded {
			fmt.Printf("moved to holding area: %s\n", p)
		}
		for _, p := range result.SkippedInUse {
			fmt.Printf("skipped (in use): %s\n", p)
		}
		for _, p := range result.SkippedProtected {
			fmt.Printf("skipped (protected): %s\n", p)
		}
		for _, e := range result.Errors {
			fmt.Printf("failed: %v\n", e)
		}
		return nil
	},
}

var heldCmd = &cobra.Command{
	Use:   "held",
	Short: "List entries in the holding area",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCleaner()
		if err != nil {
			return err
		}
		entries, err := c.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("holding area is empty")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-30s %-10s %s\n",
				e.Name, humanize.IBytes(uint64(e.Size)), e.OriginalPath)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore a held entry to its original path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCleaner()
		if err != nil {
			return err
		}
		if err := c.Restore(args[0]); err != nil {
			return err
		}
		fmt.Printf("restored %s\n", args[0])
		return nil
	},
}

var dupesCmd = &cobra.Command{
	Use:   "dupes [path]",
	Short: "Find duplicate files under a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		minBytes, err := utils.ParseSize(minSize)
		if err != nil {
			return fmt.Errorf("invalid --min-size: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		groups, err := dupes.Find(ctx, root, dupes.WithMinSize(minBytes))
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		var wasted int64
		for _, g := range groups {
			wasted += g.WastedBytes
			fmt.Printf("%s x%d (%s wasted)\n",
				humanize.IBytes(uint64(g.Size)), len(g.Paths), humanize.IBytes(uint64(g.WastedBytes)))
			for _, p := range g.Paths {
				fmt.Printf("  %s\n", p)
			}
		}
		fmt.Printf("\n%d duplicate groups, %s reclaimable\n", len(groups), humanize.IBytes(uint64(wasted)))
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [path]",
	Short: "Interactive scan with live progress",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		sess := session.New(root, session.WithTopN(cfg.TopN))
		model := models.NewScanModel(sess)
		if _, err := tea.NewProgram(model).Run(); err != nil {
			return err
		}
		if err := model.StartErr(); err != nil {
			return err
		}

		// Re-print the final report on the plain terminal once the TUI exits.
		return reporter.New(os.Stdout).ReportScan(root, sess.Wait())
	},
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newCleaner() (*cleaner.Cleaner, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	info, err := platform.GetInfo()
	if err != nil {
		return nil, err
	}

	protect := func(path string) bool {
		if info.IsProtectedPath(path) {
			return true
		}
		for _, p := range cfg.ProtectedPaths {
			if path == p {
				return true
			}
		}
		return false
	}
	return cleaner.New(cfg.ResolveHoldingDir(info.HomeDir), protect), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress while scanning")
	scanCmd.Flags().IntVar(&topN, "top", 10, "number of largest files to track")
	dupesCmd.Flags().StringVar(&minSize, "min-size", "1KB", "smallest file size to consider (e.g. 1KB, 10MB)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cachesCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(heldCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(dupesCmd)
	rootCmd.AddCommand(tuiCmd)
}
