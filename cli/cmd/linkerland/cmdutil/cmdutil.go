package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ErrNotMapPath = errors.New("expected path ending with .map")

// CheckMapPath reports whether path names a linker map file by its extension.
func CheckMapPath(path string) error {
	if filepath.Ext(path) != ".map" || filepath.Base(path) == ".map" {
		return errors.WithDetailf(ErrNotMapPath, "got %q", path)
	}
	return nil
}

// MapFileArg accepts exactly one positional argument naming a map file.
func MapFileArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	return CheckMapPath(args[0])
}

// CompleteMapFiles completes the map file argument with *.map files.
func CompleteMapFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"map"}, cobra.ShellCompDirectiveFilterFileExt
}

func AutoCompleteFromStaticList(args ...string) func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, toComplete string) (rtn []string, dir cobra.ShellCompDirective) {
		toComplete = strings.ToLower(toComplete)

		for _, option := range args {
			before, _, _ := strings.Cut(option, "\t")

			if strings.HasPrefix(before, toComplete) {
				rtn = append(rtn, option)
			}
		}

		return rtn, cobra.ShellCompDirectiveNoFileComp
	}
}

func Fatal(args ...any) {
	red := color.New(color.FgRed)
	_, _ = red.Fprint(os.Stderr, "error: ")
	_, _ = red.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func Fatalf(format string, args ...any) {
	Fatal(fmt.Sprintf(format, args...))
}
