package radio

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/handiism/radiotracks/internal/radio/dto"
)

const (
	// DefaultBaseURL is the station's public site.
	DefaultBaseURL = "https://www.verticalradio.ch"

	// PageSize is the fixed number of members per listing page.
	PageSize = 20

	// MaxPages is the safety limit on pages requested in one fetch.
	MaxPages = 1000
)

// SearchURL builds the listing endpoint URL for a 1-indexed page.
//
// The query is fixed: French locale, published music tracks of site 1,
// newest first, with embedded media metadata.
//
// Example:
//
//	SearchURL(DefaultBaseURL, 1)
//	// https://www.verticalradio.ch/api/search?children=false&count=20&...&page=1&...
func SearchURL(base string, page int) string {
	q := url.Values{}
	q.Set("locale", "fr")
	q.Set("site", "1")
	q.Set("status[]", "2")
	q.Set("count", strconv.Itoa(PageSize))
	q.Set("types[]", "music_tracks")
	q.Set("orderByProperty", "dateFrom")
	q.Set("orderByDirection", "DESC")
	q.Set("page", strconv.Itoa(page))
	q.Set("children", "false")
	q.Set("return_null_properties", "false")
	q.Set("embed_medias", "true")
	q.Set("embed_medias_new_format", "true")
	q.Set("date_search_on_period", "false")

	return strings.TrimRight(base, "/") + "/api/search?" + q.Encode()
}

// ImageURL builds the medium square WebP rendition URL of a cover.
//
// The hash is carried as an empty-valued query key, which is how the
// station busts caches.
func ImageURL(base string, img dto.JSONImage) string {
	return fmt.Sprintf("%s/%s/medium_1_1/%s.%s.webp?%s=",
		ImageBase(base),
		img.Folder,
		img.FileName,
		img.Extension,
		url.QueryEscape(string(img.Hash)),
	)
}

// ImageBase returns the URL prefix every cover URL starts with.
func ImageBase(base string) string {
	return strings.TrimRight(base, "/") + "/media/image"
}
