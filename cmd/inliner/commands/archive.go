package commands

import (
	"github.com/spf13/cobra"
	"github.com/viant/inliner/archive"
	"github.com/viant/inliner/config"
)

func newArchiveCommand(global *globalOptions) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:   "archive <path> [destination]",
		Short: "Pack a file or folder into a tar.xz archive",
		Long: `Archive packs path with the system tar tool at maximum xz compression.
Without destination the archive is created next to path, an existing destination
directory receives an auto named archive, any other destination is the archive path.
Archiving failures are logged and do not fail the command.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(global.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			destination := ""
			if len(args) > 1 {
				destination = args[1]
			}
			compressor := archive.New(
				archive.WithCommand(command),
				archive.WithOutput(cmd.OutOrStdout()),
				archive.WithLogger(global.newLogger(cmd.ErrOrStderr(), cfg.LogLevel())),
			)
			compressor.Compress(cmd.Context(), args[0], destination)
			return nil
		},
	}
	cmd.Flags().StringVar(&command, "command", archive.DefaultCommand, "Archiving tool")
	return cmd
}
