// Package cmd provides the modmenu CLI commands.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/git-pkgs/modmenu/internal/catalog"
	"github.com/git-pkgs/modmenu/internal/config"
	"github.com/git-pkgs/modmenu/internal/output"
)

// globals holds flags and configuration shared by every command.
type globals struct {
	configPath string
	verbose    bool

	prefs catalog.Preferences
}

// NewRootCmd creates the root command for the modmenu CLI.
func NewRootCmd() *cobra.Command {
	g := &globals{prefs: catalog.DefaultPreferences()}

	rootCmd := &cobra.Command{
		Use:           "modmenu",
		Short:         "List installed mods and check them for updates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.initialize()
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to preferences file (env: MODMENU_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newListCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newInfoCmd(g))

	return rootCmd
}

// initialize sets up logging and loads preferences. Unreadable preferences
// fall back to the defaults.
func (g *globals) initialize() error {
	output.SetupLogging(g.verbose)

	prefs, err := config.Load(g.configPath)
	if err != nil {
		output.Warn("using default preferences", "err", err)
	}
	g.prefs = prefs
	output.Debug("preferences loaded",
		"sortingOrder", prefs.SortOrder,
		"updateChannel", prefs.UpdateChannel,
		"enableUpdateChecking", prefs.EnableUpdateChecks,
	)
	return nil
}
