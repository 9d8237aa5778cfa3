package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"linkerland.dev/cli/cmd/linkerland/cmdutil"
	"linkerland.dev/internal/userconfig"
)

var viewAllSettings bool

var configLongDocs = `Gets or sets configuration values that provide defaults for linkerland's flags.
Flags given on the command line always take precedence.

Configuration is read from $XDG_CONFIG_HOME/linkerland/config (or
~/.config/linkerland/config), then ~/.linkerlandrc, then the file named by
$` + userconfig.EnvPath + `. Later files override earlier ones.

Options are set using ` + bt("linkerland config <key> <value>") + `,
and read using ` + bt("linkerland config <key>") + ` or ` + bt("linkerland config --all") + `.

Available configuration settings are:

` + userconfig.Docs()

var configCmd = &cobra.Command{
	Use:   "config <key> [<value>]",
	Short: "Get or set a configuration value",
	Long:  configLongDocs,
	Args:  cobra.RangeArgs(0, 2),

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 2 {
			path, err := userconfig.Set(args[0], args[1])
			if err != nil {
				cmdutil.Fatal(err)
			}
			log.Debug().Str("path", path).Str("key", args[0]).Msg("updated config")
			return
		}

		cfg := loadConfig()
		if viewAllSettings {
			if len(args) > 0 {
				cmdutil.Fatalf("cannot specify a settings key when using --all")
			}
			fmt.Println(strings.TrimSuffix(cfg.Render(), "\n"))
			return
		}

		if len(args) == 0 {
			// No args are only allowed when --all is specified.
			_ = cmd.Usage()
			os.Exit(1)
		}

		val, ok := cfg.GetByKey(args[0])
		if !ok {
			cmdutil.Fatalf("unknown key %q", args[0])
		}
		fmt.Printf("%v\n", val)
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return cmdutil.AutoCompleteFromStaticList(userconfig.Keys()...)(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
}

func init() {
	configCmd.Flags().BoolVar(&viewAllSettings, "all", false, "view all settings")
	rootCmd.AddCommand(configCmd)
}

// bt renders a backtick-enclosed string.
func bt(val string) string {
	return fmt.Sprintf("`%s`", val)
}
