package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/j-veylop/zai-dashboard-tui/internal/loader"
	"github.com/j-veylop/zai-dashboard-tui/internal/services"
	"github.com/j-veylop/zai-dashboard-tui/internal/synth"
)

type generateOptions struct {
	out    string
	seed   uint64
	days   int
	start  string
	format string
}

func newGenerateCommand() *cobra.Command {
	defaults := synth.DefaultOptions()
	opts := &generateOptions{
		seed:   defaults.Seed,
		days:   defaults.Days,
		start:  defaults.Start.Format(time.DateOnly),
		format: "csv",
	}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic fact tables for the built-in artists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "artist_data", "output directory")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().IntVar(&opts.days, "days", opts.days, "number of days per artist")
	cmd.Flags().StringVar(&opts.start, "start", opts.start, "first day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "file format: csv or xlsx")
	return cmd
}

func runGenerate(out io.Writer, opts *generateOptions) error {
	if opts.days < 1 {
		return fmt.Errorf("--days must be at least 1, got %d", opts.days)
	}
	start, err := time.Parse(time.DateOnly, opts.start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	format := "." + strings.TrimPrefix(strings.ToLower(opts.format), ".")

	reg := loader.NewRegistry()
	artists := synth.GenerateAll(synth.DefaultArtists, reg, synth.Options{
		Seed:  opts.seed,
		Days:  opts.days,
		Start: start,
	})
	paths, err := synth.WriteDir(opts.out, format, artists, reg)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load every fact file in DATA_DIR into the SQLite fact store",
		Long: `Load every fact file in DATA_DIR into the SQLite fact store at
DATABASE_PATH. Artists already in the store are replaced. Run the dashboard
with DATA_SOURCE=sqlite to read from the store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := services.ImportDir(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			t := newWriter(cmd.OutOrStdout(), "Imported into "+cfg.DatabasePath)
			t.AppendHeader(table.Row{"ID", "Name", "Records"})
			var total int
			for _, r := range summary.Imported {
				t.AppendRow(table.Row{r.ID, r.Name, r.Records})
				total += r.Records
			}
			t.AppendFooter(table.Row{"", "Total", total})
			t.Render()

			for _, id := range summary.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s (no file in %s)\n", id, cfg.DataDir)
			}
			return nil
		},
	}
}
