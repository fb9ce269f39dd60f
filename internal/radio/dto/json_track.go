package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/handiism/radiotracks/internal/model"
)

// ReadDate is a custom time type that handles the API's ISO 8601 dates.
type ReadDate struct {
	time.Time
}

// UnmarshalJSON parses ISO 8601 timestamps such as "2024-01-05T14:32:00+01:00".
func (rd *ReadDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		rd.Time = time.Time{}
		return nil
	}

	// Try multiple formats
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05", // no offset
		"2006-01-02T15:04:05.999999",
		"2006-01-02 15:04:05Z07:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			rd.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse read date: %s", s)
}

// FlexString accepts a JSON string or number and keeps its text form.
//
// Media metadata fields (folder, hash) are not consistently typed in the
// API responses.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (fs *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*fs = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*fs = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unexpected media field %s", data)
	}
	*fs = FlexString(n.String())
	return nil
}

// JSONSearchPage is one page of the listing endpoint.
//
// Members is nil when the response has no member list at all, which is
// distinct from an empty page.
type JSONSearchPage struct {
	Members *[]JSONTrack `json:"hydra:member"`
}

// JSONTrack represents a music track member of a listing page.
type JSONTrack struct {
	Artist   string      `json:"artist"`
	Title    string      `json:"title"`
	ReadDate ReadDate    `json:"readDate"`
	Images   []JSONImage `json:"aio:images"`
}

// JSONImage is the embedded media metadata of a cover image.
type JSONImage struct {
	Folder    FlexString `json:"folder"`
	FileName  FlexString `json:"fileName"`
	Extension FlexString `json:"extension"`
	Hash      FlexString `json:"hash"`
}

// Complete reports whether every field needed to build an image URL is set.
func (ji JSONImage) Complete() bool {
	return ji.Folder != "" && ji.FileName != "" && ji.Extension != "" && ji.Hash != ""
}

// Cover returns the first complete image, if any.
func (jt *JSONTrack) Cover() (JSONImage, bool) {
	if len(jt.Images) == 0 || !jt.Images[0].Complete() {
		return JSONImage{}, false
	}
	return jt.Images[0], true
}

// ToTrack converts JSONTrack to a model.Track.
//
// imageURL builds the cover URL from the embedded metadata; it is only
// called when a complete image is present.
func (jt *JSONTrack) ToTrack(imageURL func(JSONImage) string) model.Track {
	track := model.Track{
		Artist: strings.TrimSpace(jt.Artist),
		Title:  strings.TrimSpace(jt.Title),
		Date:   jt.ReadDate.Time,
	}

	if img, ok := jt.Cover(); ok && imageURL != nil {
		track.ImageURL = imageURL(img)
	}

	return track
}
