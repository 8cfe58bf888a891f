package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/carton-pm/carton/internal/version"
	"github.com/carton-pm/carton/pkg/logging"
)

var (
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "carton",
		Short: "Inspect carton packages and their sources",
		Long: `carton discovers the packages under a source directory, answers
dependency queries against them, and reports which files belong to a
package and whether a previously built artifact is still fresh.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errorStyle.Render("Error: "+err.Error()))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newPackagesCmd())
	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newFingerprintCmd())
	rootCmd.AddCommand(newQueryCmd())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("carton %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
	},
}
