package main

import (
	"github.com/spf13/cobra"

	"linkerland.dev/cli/cmd/linkerland/cmdutil"
	"linkerland.dev/cli/internal/browser"
	"linkerland.dev/pkg/symexport"
)

var (
	vizFilter string
	vizSort   = sortFlag()
	vizOrder  = orderFlag()
	vizUnits  = unitsFlag()
)

var vizCmd = &cobra.Command{
	Use:   "viz <file.map>",
	Short: "Browse the size of each object file and symbol interactively",
	Long: `Opens an interactive browser with two panes: the object files linked into
the binary and the symbols of the selected object file.

Use tab to switch panes, / to filter, s to change the sort key, r to reverse
it, u to switch between human readable and hex sizes, and ? for all keys.`,
	Args:              cmdutil.MapFileArg,
	ValidArgsFunction: cmdutil.CompleteMapFiles,
	Run: func(cmd *cobra.Command, args []string) {
		runViz(cmd, args[0])
	},
}

func runViz(cmd *cobra.Command, path string) {
	cfg := loadConfig()
	vizSort.FallbackTo(cmd, cfg.Sort)
	vizOrder.FallbackTo(cmd, cfg.Order)
	vizUnits.FallbackTo(cmd, cfg.VizUnits)
	filter := compileFilter(vizFilter)

	m, metrics, err := cmdutil.LoadMap(path)
	if err != nil {
		cmdutil.Fatal(err)
	}

	units, _ := browser.ParseUnits(vizUnits.Value)
	opts := browser.Options{
		Units:      units,
		ObjectSort: "total",
		SymbolSort: "size",
		Ascending:  vizOrder.Value == string(symexport.Asc),
	}
	switch symexport.SortKey(vizSort.Value) {
	case symexport.ByName:
		opts.SymbolSort = "name"
	case symexport.ByPath:
		opts.ObjectSort = "path"
	}

	if err := browser.Run(browser.NewSnapshot(m, metrics, filter), opts); err != nil {
		cmdutil.Fatal(err)
	}
}

func init() {
	vizCmd.Flags().StringVar(&vizFilter, "filter", "", "only list symbols whose name matches this regular expression")
	vizSort.AddFlag(vizCmd)
	vizOrder.AddFlag(vizCmd)
	vizUnits.AddFlag(vizCmd)
	rootCmd.AddCommand(vizCmd)
}
