package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var summaryFlag bool

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "clipmeta <input_directory>",
		Short:         "Write XMP sidecars for camera clip metadata files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          exactDirectoryArg,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, args[0], summaryFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().BoolVar(&summaryFlag, "summary", false, "Print a summary table after the batch")

	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// usageError is returned when the argument count is wrong.
type usageError struct {
	usage string
}

func (e usageError) Error() string {
	return "Usage: " + e.usage
}

func exactDirectoryArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usageError{usage: cmd.UseLine()}
	}
	return nil
}
