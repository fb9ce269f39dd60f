package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/handiism/radiotracks/internal/catalog"
	"github.com/spf13/cobra"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch new plays into the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, err := ctx.catalog(cmd, catalog.WithProgress(progressPrinter(cmd.ErrOrStderr(), ctx.verbose())))
			if err != nil {
				return err
			}

			ds, err := cat.Sync(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fetched %d new plays, %d in cache\n", ds.Fetched, len(ds.Tracks))
			if ds.HasWatermark {
				fmt.Fprintf(out, "Latest play: %s (%s)\n", ds.Watermark.Local().Format(time.DateTime), humanize.Time(ds.Watermark))
			}
			return nil
		},
	}
}

// progressPrinter writes catalog progress to w, one line per event.
func progressPrinter(w io.Writer, verbose bool) func(catalog.ProgressEvent) {
	return func(event catalog.ProgressEvent) {
		if event.Level == catalog.LevelVerbose && !verbose {
			return
		}
		prefix := "•"
		switch event.Level {
		case catalog.LevelError:
			prefix = "✗"
		case catalog.LevelWarning:
			prefix = "!"
		case catalog.LevelSuccess:
			prefix = "✓"
		case catalog.LevelInfo:
			prefix = "›"
		}
		fmt.Fprintf(w, "%s %s\n", prefix, event.Message)
	}
}
