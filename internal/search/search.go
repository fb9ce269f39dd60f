// Package search filters the cached plays by artist and aggregates them by
// title for display.
package search

import (
	"errors"
	"sort"
	"strings"

	"github.com/handiism/radiotracks/internal/model"
)

// ErrEmptyQuery is returned when the artist query is blank. Renderers show
// it as a warning instead of a table.
var ErrEmptyQuery = errors.New("please enter a search term")

// Aggregate returns one summary per title among the plays whose artist
// contains query, case-insensitively.
//
// For each title, LastSeen is the latest play, Count the number of matching
// plays and ImageURL the first non-empty cover in tracks order. Results are
// sorted by Count, highest first; ties keep ascending title order.
//
// Example:
//
//	rows, err := Aggregate(tracks, "daft")
//	if errors.Is(err, ErrEmptyQuery) {
//	    // show a warning
//	}
func Aggregate(tracks []model.Track, query string) ([]model.TitleSummary, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, ErrEmptyQuery
	}

	groups := map[string]*model.TitleSummary{}
	for _, t := range tracks {
		if !strings.Contains(strings.ToLower(t.Artist), needle) {
			continue
		}

		g, ok := groups[t.Title]
		if !ok {
			g = &model.TitleSummary{Title: t.Title, LastSeen: t.Date}
			groups[t.Title] = g
		}
		g.Count++
		if t.Date.After(g.LastSeen) {
			g.LastSeen = t.Date
		}
		if g.ImageURL == "" {
			g.ImageURL = t.ImageURL
		}
	}

	rows := make([]model.TitleSummary, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, *g)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Title < rows[j].Title
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	return rows, nil
}

// Artists returns the distinct artists matching query, in first-seen order.
// It backs the suggestions shown under the search box.
func Artists(tracks []model.Track, query string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	seen := map[string]bool{}
	var out []string
	for _, t := range tracks {
		if seen[t.Artist] || !strings.Contains(strings.ToLower(t.Artist), needle) {
			continue
		}
		seen[t.Artist] = true
		out = append(out, t.Artist)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
