// Package model defines the core data structures used throughout
// the radiotracks application.
//
// # Track
//
// Track is one play event observed on the station's listing:
//
//	track := model.Track{
//	    Artist:   "Daft Punk",
//	    Title:    "Veridis Quo",
//	    Date:     readDate,
//	    ImageURL: coverURL, // empty when the listing carried no cover
//	}
//
// Tracks are immutable once fetched. Nothing enforces uniqueness: the same
// (artist, title, date) tuple may appear more than once when two fetch
// windows overlap.
//
// # TitleSummary
//
// TitleSummary is one row of a search result, aggregating every matching
// play of a title:
//
//	row := model.TitleSummary{Title: "Veridis Quo", LastSeen: last, Count: 4}
//
// # Watermark
//
// Watermark returns the latest Date in a slice of tracks. The cache store
// uses it to bound the next incremental fetch.
package model
