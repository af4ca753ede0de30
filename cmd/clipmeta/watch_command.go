package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"clipmeta/internal/fileutil"
	"clipmeta/internal/history"
	"clipmeta/internal/logging"
	"clipmeta/internal/sidecar"
	"clipmeta/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Convert existing clips, then each clip written to the directory until interrupted",
		Args:  exactDirectoryArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := requireInputDirectory(dir); err != nil {
				return err
			}
			session, err := ctx.startRun(cmd)
			if err != nil {
				return err
			}
			defer session.Close()

			conv, err := session.converter(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			// Watch before the initial pass so clips landing during it are not missed.
			w, err := watch.New(dir, func(path string) bool {
				return sidecar.Matches(conv.Options().Pattern, path)
			}, session.cfg.WatchDebounce(), session.logger)
			if err != nil {
				return err
			}
			defer w.Close()

			if _, err := conv.Run(runCtx, dir); err != nil {
				return err
			}

			err = w.Run(runCtx, func(ctx context.Context, path string) {
				if unchangedSinceLastWrite(ctx, session.store, path, conv) {
					session.logger.Debug("clip unchanged since last conversion",
						logging.String(logging.FieldInput, path),
						logging.String(logging.FieldEventType, "clip_unchanged"),
					)
					return
				}
				conv.ConvertPath(ctx, path)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// unchangedSinceLastWrite reports whether the ledger's latest entry for path
// is a successful write of identical input whose sidecar still exists.
func unchangedSinceLastWrite(ctx context.Context, store *history.Store, path string, conv *sidecar.Converter) bool {
	if store == nil {
		return false
	}
	latest, err := store.LatestForInput(ctx, path)
	if err != nil || latest == nil || latest.Status != string(sidecar.StatusWritten) || latest.InputSHA256 == "" {
		return false
	}
	if _, err := os.Stat(sidecar.OutputPath(path, conv.Options().Marker, conv.Options().Suffix)); err != nil {
		return false
	}
	digest, _, err := fileutil.HashFile(path)
	return err == nil && digest == latest.InputSHA256
}
