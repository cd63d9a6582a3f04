package main

import (
	"os"

	"github.com/spf13/cobra"

	"fullyhacks/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fullyhacks",
	Short: "SQLite CRUD walkthrough with live source commentary",
	Long: `fullyhacks walks through creating, reading, updating and deleting users in SQLite,
echoing the source it runs as it goes, and serves the same table over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupCommand,
	PersistentPostRun: teardownCommand,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(walkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to fullyhacks.toml (default: nearest one upwards)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write runtime trace to file")
}

// main executes the root command. A command error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		if current != nil {
			_ = current.prof.Stop()
		}
		os.Exit(1)
	}
}

// stdoutFile returns the command's output as a file when it is one.
func stdoutFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}
