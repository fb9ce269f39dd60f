package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/handiism/radiotracks/internal/catalog"
	"github.com/handiism/radiotracks/internal/model"
	"github.com/handiism/radiotracks/internal/search"
	"github.com/handiism/radiotracks/internal/store"
	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var offline bool
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:   "search <artist>",
		Short: "List the titles aired for an artist",
		Long: "Search matches the artist name case-insensitively as a substring and lists\n" +
			"each matching title with its last airing and play count, most played first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Please enter a search term.")
				return search.ErrEmptyQuery
			}

			tracks, err := loadTracks(cmd, ctx, offline)
			if err != nil {
				return err
			}

			summaries, err := search.Aggregate(tracks, query)
			if err != nil {
				return err
			}
			if limit > 0 && len(summaries) > limit {
				summaries = summaries[:limit]
			}

			if jsonOutput {
				return writeJSON(cmd, summaryJSON(summaries))
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintf(out, "No tracks found for %q.\n", strings.TrimSpace(query))
				return nil
			}
			fmt.Fprintln(out, renderSummaries(summaries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Search the cache without fetching new plays")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n titles")
	return cmd
}

func loadTracks(cmd *cobra.Command, ctx *commandContext, offline bool) ([]model.Track, error) {
	if offline {
		settings, _, err := ctx.ensure(cmd)
		if err != nil {
			return nil, err
		}
		snap, err := store.New(settings.Cache.Path).Load(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("load cache: %w", err)
		}
		return snap.Tracks, nil
	}

	cat, _, err := ctx.catalog(cmd, catalog.WithProgress(progressPrinter(cmd.ErrOrStderr(), ctx.verbose())))
	if err != nil {
		return nil, err
	}
	ds, err := cat.Sync(cmd.Context())
	if err != nil {
		return nil, err
	}
	return ds.Tracks, nil
}

type titleJSON struct {
	Title    string    `json:"title"`
	LastSeen time.Time `json:"last_seen"`
	Count    int       `json:"count"`
	Cover    string    `json:"cover,omitempty"`
}

func summaryJSON(summaries []model.TitleSummary) []titleJSON {
	out := make([]titleJSON, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, titleJSON{
			Title:    s.Title,
			LastSeen: s.LastSeen,
			Count:    s.Count,
			Cover:    s.ImageURL,
		})
	}
	return out
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
