package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"linkerland.dev/cli/cmd/linkerland/cmdutil"
	"linkerland.dev/internal/userconfig"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "linkerland <file.map>",
	Short: "linkerland explains where the bytes of a linked binary come from",
	Long: `linkerland reads the map file a linker writes next to a binary
(for example with ld64's -map option) and attributes the binary's size to
the object files and symbols that contributed it.

Running linkerland with just a map file opens the interactive browser.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true, // We'll handle displaying an error in our main func
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true, // Hide the "completion" command from help (used for generating auto-completions for the shell)
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbosity == 1 {
			level = zerolog.DebugLevel
		} else if verbosity >= 2 {
			level = zerolog.TraceLevel
		}
		log.Logger = log.Logger.Level(level)
	},
	ValidArgsFunction: cmdutil.CompleteMapFiles,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		if err := cmdutil.CheckMapPath(args[0]); err != nil {
			cmdutil.Fatal(err)
		}
		runViz(vizCmd, args[0])
	},
}

// loadConfig returns the user's configuration or exits if it is invalid.
func loadConfig() *userconfig.Config {
	cfg, err := userconfig.Load()
	if err != nil {
		cmdutil.Fatal(err)
	}
	return cfg
}

func main() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output")
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		cmdutil.Fatal(err)
	}
}
