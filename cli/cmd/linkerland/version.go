package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"linkerland.dev/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Reports the current version of linkerland",

	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		ver := version.Version
		if ver == "" {
			ver = "devel"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				ver = info.Main.Version
			}
		}
		fmt.Fprintf(os.Stdout, "linkerland version %s %s/%s\n", ver, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
