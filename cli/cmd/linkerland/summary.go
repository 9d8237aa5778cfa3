package main

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"linkerland.dev/cli/cmd/linkerland/cmdutil"
	"linkerland.dev/cli/internal/browser"
	"linkerland.dev/pkg/mapfile"
	"linkerland.dev/pkg/sizes"
)

var (
	summaryTop   int
	summaryUnits = unitsFlag()
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file.map>",
	Short: "Print the size of each bucket and the largest object files",
	Long: `Prints the binary's size by bucket (text, data, bss, other) followed by the
object files that contribute the most bytes.`,
	Args:              cmdutil.MapFileArg,
	ValidArgsFunction: cmdutil.CompleteMapFiles,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		summaryUnits.FallbackTo(cmd, cfg.VizUnits)
		if !cmd.Flags().Changed("top") {
			summaryTop = cfg.SummaryTop
		}
		if summaryTop < 1 {
			cmdutil.Fatalf("--top must be at least 1, got %d", summaryTop)
		}

		m, metrics, err := cmdutil.LoadMap(args[0])
		if err != nil {
			cmdutil.Fatal(err)
		}
		units, _ := browser.ParseUnits(summaryUnits.Value)

		w := bufio.NewWriter(os.Stdout)
		writeSummary(w, m, metrics, units, summaryTop)
		if err := w.Flush(); err != nil {
			cmdutil.Fatal(err)
		}
	},
}

func writeSummary(w io.Writer, m *mapfile.MapFile, metrics *sizes.Metrics, units browser.Units, top int) {
	fmt.Fprintf(w, "Path:    %s\n", m.TargetPath)
	fmt.Fprintf(w, "Arch:    %s\n", m.Arch)
	fmt.Fprintf(w, "Format:  %s\n", m.Format)
	fmt.Fprintf(w, "Objects: %d, sections: %d, symbols: %d\n",
		len(m.ObjectFiles), len(m.Sections), len(m.Symbols))
	if metrics.Dropped > 0 {
		fmt.Fprintf(w, "Skipped: %d symbols with unreadable addresses\n", metrics.Dropped)
	}
	fmt.Fprintln(w)

	t := metrics.Totals
	buckets := tablewriter.NewWriter(w)
	buckets.SetHeader([]string{"Bucket", "Size", "Share"})
	for _, b := range []sizes.Bucket{sizes.Text, sizes.Data, sizes.Bss, sizes.Other} {
		buckets.Append([]string{b.String(), units.Format(t.Get(b)), share(t.Get(b), t.Total)})
	}
	buckets.Append([]string{"total", units.Format(t.Total), share(t.Total, t.Total)})
	buckets.Render()
	fmt.Fprintln(w)

	objects := slices.Clone(metrics.Objects)
	slices.SortStableFunc(objects, func(a, b sizes.ObjectMetrics) int {
		return cmp.Compare(b.Total, a.Total)
	})
	objects = objects[:min(top, len(objects))]

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Object", "Text", "Data", "Bss", "Other", "Total"})
	for _, o := range objects {
		table.Append([]string{
			strconv.Itoa(int(o.ID)),
			o.Path,
			units.Format(o.Text),
			units.Format(o.Data),
			units.Format(o.Bss),
			units.Format(o.Other),
			units.Format(o.Total),
		})
	}
	table.Render()
}

func share(n, total uint64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "number of object files to list")
	summaryUnits.AddFlag(summaryCmd)
	rootCmd.AddCommand(summaryCmd)
}
