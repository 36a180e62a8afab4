package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/j-veylop/zai-dashboard-tui/internal/analytics"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
	"github.com/j-veylop/zai-dashboard-tui/internal/services"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/tabs/impact"
)

type reportOptions struct {
	artist  string
	from    string
	to      string
	regions []string
	json    bool
}

func newReportCommand() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the report pipeline for one artist and print it",
		Example: `  zai report --artist drake
  zai report --artist bad_bunny --from 2023-03-01 --to 2023-05-31 --region USA --region Mexico
  zai report --artist taylor_swift --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.artist, "artist", "a", "", "artist id (file stem of its fact table)")
	cmd.Flags().StringVar(&opts.from, "from", "", "first day, inclusive (YYYY-MM-DD; default: first day in the data)")
	cmd.Flags().StringVar(&opts.to, "to", "", "last day, inclusive (YYYY-MM-DD; default: last day in the data)")
	cmd.Flags().StringSliceVarP(&opts.regions, "region", "r", nil, "allowed region, repeatable (default: all regions)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("artist")
	return cmd
}

func runReport(ctx context.Context, out io.Writer, opts *reportOptions) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	cfg.WatchData = false

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() { _ = svcManager.Close() }()

	artist, err := svcManager.Artist(opts.artist)
	if err != nil {
		if errors.Is(err, services.ErrUnknownArtist) {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(artistIDs(svcManager.Artists()), ", "))
		}
		return err
	}

	f, err := buildFilter(artist.Table, opts)
	if err != nil {
		return err
	}

	report, _, err := svcManager.Report(ctx, artist.Profile.ID, f)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	renderReport(out, report)
	return nil
}

func artistIDs(artists []*models.Artist) []string {
	ids := make([]string, len(artists))
	for i, a := range artists {
		ids[i] = a.Profile.ID
	}
	slices.Sort(ids)
	return ids
}

// buildFilter starts from the full extent of the table and narrows it with
// the flags that were given. The range is not checked here; the pipeline
// rejects from after to.
func buildFilter(t *models.FactTable, opts *reportOptions) (models.Filter, error) {
	f := models.DefaultFilter(t)
	if opts.from != "" {
		d, err := time.Parse(time.DateOnly, opts.from)
		if err != nil {
			return f, fmt.Errorf("invalid --from: %w", err)
		}
		f.From = d
	}
	if opts.to != "" {
		d, err := time.Parse(time.DateOnly, opts.to)
		if err != nil {
			return f, fmt.Errorf("invalid --to: %w", err)
		}
		f.To = d
	}
	if len(opts.regions) > 0 {
		f.Regions = slices.Clone(opts.regions)
		slices.Sort(f.Regions)
	}
	return f, nil
}

func newWriter(out io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func alignRight(cols ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		configs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	return configs
}

// renderReport prints every metric of r as a table. Failed metrics are
// listed at the end.
func renderReport(out io.Writer, r *analytics.Report) {
	fmt.Fprintf(out, "%s  %s to %s  %d regions  %d records\n\n",
		r.Artist.Name, r.Filter.From.Format(time.DateOnly), r.Filter.To.Format(time.DateOnly),
		len(r.Filter.Regions), r.Records)

	if e := r.Engagement; e != nil {
		t := newWriter(out, "Engagement")
		t.AppendHeader(table.Row{"Total Streams", "Avg Skip Rate", "Playlist Reach", "Likes", "Shares", "Revenue"})
		t.AppendRow(table.Row{e.TotalStreams, fmt.Sprintf("%.1f%%", e.MeanSkipRate*100), e.PlaylistReach, e.Likes, e.Shares, fmt.Sprintf("$%.2f", e.Revenue)})
		t.Render()
		fmt.Fprintln(out)
	}

	if r.Tracks != nil && len(r.Tracks.Ranked) > 0 {
		t := newWriter(out, "Track Performance")
		t.AppendHeader(table.Row{"#", "Track", "Streams", "Skip Rate"})
		for i, s := range r.Tracks.Ranked {
			t.AppendRow(table.Row{i + 1, s.Track, s.Streams, fmt.Sprintf("%.1f%%", s.MeanSkipRate*100)})
		}
		t.SetColumnConfigs(alignRight(3, 4))
		t.Render()
		fmt.Fprintln(out)
	}

	if len(r.Regions) > 0 {
		t := newWriter(out, "Streams by Region")
		t.AppendHeader(table.Row{"Region", "Streams"})
		for _, s := range r.Regions {
			t.AppendRow(table.Row{s.Region, s.Streams})
		}
		t.Render()
		fmt.Fprintln(out)
	}

	if r.Growth != nil {
		t := newWriter(out, fmt.Sprintf("Growth Momentum (last %d days)", analytics.GrowthWindowDays))
		t.AppendHeader(table.Row{"Region", "Streams", "Growth"})
		for _, g := range r.Growth {
			t.AppendRow(table.Row{g.Region, g.Streams, impact.FormatGrowth(g.GrowthRate)})
		}
		t.SetColumnConfigs(alignRight(2, 3))
		t.Render()
		fmt.Fprintln(out)
	}

	if len(r.Funnel) > 0 {
		t := newWriter(out, "Conversion Funnel")
		t.AppendHeader(table.Row{"Campaign", "Streams", "Premium Conversions", "Not Converted", "Mean CPA"})
		cpa := make(map[string]string, len(r.Efficiency))
		for _, p := range r.Efficiency {
			cpa[p.CampaignType] = fmt.Sprintf("$%.2f", p.MeanCPA)
		}
		for _, s := range r.Funnel {
			t.AppendRow(table.Row{s.CampaignType, s.Streams, s.PremiumConversions, s.NonConverted, cpa[s.CampaignType]})
		}
		t.SetColumnConfigs(alignRight(2, 3, 4, 5))
		t.Render()
		fmt.Fprintln(out)
	}

	if r.ROI != nil {
		t := newWriter(out, "ROI by Campaign")
		t.AppendHeader(table.Row{"Campaign", "ROI"})
		for _, e := range r.ROI {
			t.AppendRow(table.Row{e.CampaignType, fmt.Sprintf("%.1f%%", e.ROIPercent)})
		}
		t.SetColumnConfigs(alignRight(2))
		t.Render()
		fmt.Fprintln(out)
	}

	if insight := r.Insight(); insight != "" {
		fmt.Fprintln(out, insight)
	}

	metrics := make([]string, 0, len(r.Errors))
	for m := range r.Errors {
		metrics = append(metrics, m)
	}
	slices.Sort(metrics)
	for _, m := range metrics {
		fmt.Fprintf(out, "unavailable: %v\n", r.Errors[m])
	}
}
