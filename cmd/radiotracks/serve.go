package main

import (
	"strings"

	"github.com/handiism/radiotracks/internal/radio"
	"github.com/handiism/radiotracks/internal/web"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := ctx.ensure(cmd)
			if err != nil {
				return err
			}
			cat, fetcher, err := ctx.catalog(cmd)
			if err != nil {
				return err
			}
			runCtx := cmd.Context()

			// Warm the memo so the first page view does not wait for a
			// full history fetch.
			ds, err := cat.Sync(runCtx)
			if err != nil {
				return err
			}
			if ds.FetchErr != nil {
				logger.WithError(ds.FetchErr).Warn("Serving cached data only")
			}

			if err := cat.Watch(runCtx, nil); err != nil {
				logger.WithError(err).Warn("Cache watcher unavailable")
			}

			if spec := strings.TrimSpace(settings.Server.RefreshSchedule); spec != "" {
				if err := cat.Schedule(runCtx, spec); err != nil {
					return err
				}
				defer cat.Stop()
			}

			srv, err := web.New(cat, fetcher, web.Options{
				ImageBase:      radio.ImageBase(settings.API.BaseURL),
				ThumbnailSize:  settings.Server.ThumbnailSize,
				CoverCacheSize: settings.Server.CoverCacheSize,
				Logger:         logger,
			})
			if err != nil {
				return err
			}

			if addr == "" {
				addr = settings.Server.Address()
			}
			return srv.ListenAndServe(runCtx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.host and server.port)")
	return cmd
}
