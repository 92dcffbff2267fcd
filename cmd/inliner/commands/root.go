// Package commands implements CLI command handlers for inliner.
package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/viant/inliner/config"
)

// globalOptions holds persistent flags shared by all commands
type globalOptions struct {
	configPath string
	logLevel   string
	verbose    bool
}

// NewRootCommand creates the inliner command tree
func NewRootCommand(version string) *cobra.Command {
	global := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "inliner",
		Short: "Java source amalgamation tool",
		Long: `Inliner merges a Java class and the transitive closure of classes it uses
into a single compilation unit, turning each inlined class into a static nested class.

Commands:
  inline    Inline classes and collect remaining imports
  archive   Pack a file or folder into a tar.xz archive
  shuffle   Print random batches drawn from a reshuffled permutation`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&global.configPath, "config", "c", "", "Config file (default: ./.inliner.yaml)")
	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "Verbose output, same as --log-level debug")

	rootCmd.AddCommand(newInlineCommand(global))
	rootCmd.AddCommand(newArchiveCommand(global))
	rootCmd.AddCommand(newShuffleCommand())
	rootCmd.AddCommand(versionCmd(version))
	return rootCmd
}

func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inliner %s\n", version)
		},
	}
}

// newLogger creates a stderr style logger at the configured level
func (g *globalOptions) newLogger(w io.Writer, level log.Level) *log.Logger {
	if g.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "inliner",
		Level:           level,
		ReportTimestamp: true,
	})
}
