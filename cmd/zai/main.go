// Package main is the entry point for the Zai dashboard. Without a
// subcommand it runs the Bubble Tea program; the subcommands expose the
// report pipeline and data tooling on the command line.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/zai-dashboard-tui/internal/app"
	"github.com/j-veylop/zai-dashboard-tui/internal/config"
	"github.com/j-veylop/zai-dashboard-tui/internal/logger"
	"github.com/j-veylop/zai-dashboard-tui/internal/services"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/tabs/artists"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/tabs/campaigns"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/tabs/engagement"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/tabs/filters"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/tabs/impact"
	"github.com/j-veylop/zai-dashboard-tui/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "zai",
		Short: "Zai artist streaming analytics dashboard",
		Long: `Zai artist streaming analytics dashboard.

Reads one fact table per artist from DATA_DIR (CSV or XLSX) or from the
SQLite fact store (DATA_SOURCE=sqlite) and shows engagement, regional
growth and campaign ROI under a date range and region filter.

Keyboard Shortcuts:
  1-5             Switch tabs (Artists, Engagement, Global Impact, Campaign ROI, Filters)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Select artist / apply filter
  R               Run the report again
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATA_DIR              Directory of per-artist fact files (default: artist_data)
  DATA_SOURCE           files or sqlite (default: files)
  DATABASE_PATH         SQLite fact store path
  ARTISTS_METADATA      Artist metadata YAML (default: DATA_DIR/artists.yaml)
  WATCH_DATA            Reload when DATA_DIR changes (default: true)
  AGGREGATION_WORKERS   Aggregation shards (default: number of CPUs)
  LOG_PATH, LOG_LEVEL   Log file and level (default: info)`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newReportCommand(),
		newGenerateCommand(),
		newImportCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			},
		},
	)
	return root
}

// setup loads the configuration and points the logger at the configured
// file. The returned function releases the log file.
func setup() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	closer, err := logger.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, func() { _ = closer.Close() }, nil
}

// runTUI contains the dashboard logic, separated for cleaner error handling.
func runTUI() error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	// Tab order matches app.TabID.
	state := model.GetState()
	model.SetTabs([]app.Tab{
		artists.New(state, cfg),
		engagement.New(state),
		impact.New(state),
		campaigns.New(state),
		filters.New(state),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	logger.Info("dashboard started", "version", version.GetVersion(), "artists", len(svcManager.Artists()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
