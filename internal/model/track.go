package model

import "time"

// Track represents a single play of a song on the radio.
//
// Track contains:
//   - Artist and Title as printed by the station
//   - Date, the moment the track was read on air
//   - ImageURL for the cover thumbnail, if the listing embedded one
//
// Example:
//
//	t := Track{Artist: "Air", Title: "La femme d'argent", Date: aired}
//	if !t.HasImage() {
//	    // render a placeholder
//	}
type Track struct {
	// Artist is the performing artist.
	Artist string

	// Title is the track title.
	Title string

	// Date is when the track aired.
	Date time.Time

	// ImageURL is the cover image URL.
	// Empty string means no cover is available.
	ImageURL string
}

// HasImage returns true if the track carries a cover image URL.
func (t Track) HasImage() bool {
	return t.ImageURL != ""
}

// TitleSummary aggregates every matching play of a single title.
type TitleSummary struct {
	// Title is the grouped track title.
	Title string

	// LastSeen is the most recent Date among the grouped plays.
	LastSeen time.Time

	// Count is the number of grouped plays.
	Count int

	// ImageURL is the first non-empty cover URL among the grouped plays,
	// in cache order. It is not necessarily the cover of the latest play.
	ImageURL string
}

// HasImage returns true if the summary carries a cover image URL.
func (s TitleSummary) HasImage() bool {
	return s.ImageURL != ""
}

// Watermark returns the latest Date among tracks.
//
// The boolean result is false when tracks is empty, in which case the
// returned time is the zero value.
//
// Example:
//
//	wm, ok := Watermark(cached)
//	if ok {
//	    fmt.Println("newest cached play:", wm)
//	}
func Watermark(tracks []Track) (time.Time, bool) {
	var latest time.Time
	if len(tracks) == 0 {
		return latest, false
	}

	latest = tracks[0].Date
	for _, t := range tracks[1:] {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	return latest, true
}
