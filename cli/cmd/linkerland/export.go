package main

import (
	"bufio"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"linkerland.dev/cli/cmd/linkerland/cmdutil"
	"linkerland.dev/pkg/mapfile"
	"linkerland.dev/pkg/symexport"
)

var (
	exportFilter string
	exportOut    string
	exportSort   = sortFlag()
	exportOrder  = orderFlag()
	exportFormat = &cmdutil.Oneof{
		Value:   "json",
		Allowed: []string{"json", "csv"},
		Flag:    "format",
		Desc:    "Output format",
	}
)

var exportCmd = &cobra.Command{
	Use:   "export <file.map>",
	Short: "Write the map file's symbols as JSON or CSV",
	Long: `Writes the symbols of a map file with their address, size, object file index
and name exactly as they appear in the map file.

Symbols can be restricted with --filter, a regular expression matched against
the symbol name, and ordered by size, name or object file (--sort, --order).`,
	Args:              cmdutil.MapFileArg,
	ValidArgsFunction: cmdutil.CompleteMapFiles,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		exportSort.FallbackTo(cmd, cfg.Sort)
		exportOrder.FallbackTo(cmd, cfg.Order)
		exportFormat.FallbackTo(cmd, cfg.ExportFormat)
		q := symexport.Query{
			Filter: compileFilter(exportFilter),
			Key:    symexport.SortKey(exportSort.Value),
			Order:  symexport.Order(exportOrder.Value),
		}

		m, err := cmdutil.ParseMap(args[0])
		if err != nil {
			cmdutil.Fatal(err)
		}
		syms := symexport.Select(m.Symbols, q)
		log.Debug().Int("selected", len(syms)).Int("symbols", len(m.Symbols)).Msg("selected symbols")

		if err := writeExport(exportOut, syms); err != nil {
			cmdutil.Fatal(err)
		}
	},
}

// writeExport writes syms to path, or to stdout if path is empty.
// The file at path is replaced atomically once the export is complete.
func writeExport(path string, syms []mapfile.Symbol) error {
	if path == "" {
		w := bufio.NewWriter(os.Stdout)
		if err := encode(w, syms); err != nil {
			return err
		}
		return errors.Wrap(w.Flush(), "write output")
	}

	f, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() { _ = f.Cleanup() }()

	if err := encode(f, syms); err != nil {
		return err
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	log.Debug().Str("path", path).Int("symbols", len(syms)).Msg("wrote export")
	return nil
}

func encode(w io.Writer, syms []mapfile.Symbol) error {
	if exportFormat.Value == "csv" {
		return symexport.WriteCSV(w, syms)
	}
	return symexport.WriteJSON(w, syms)
}

func init() {
	exportCmd.Flags().StringVar(&exportFilter, "filter", "", "only export symbols whose name matches this regular expression")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write to this file instead of stdout")
	exportFormat.AddFlag(exportCmd)
	exportSort.AddFlag(exportCmd)
	exportOrder.AddFlag(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
