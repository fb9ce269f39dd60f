// Package web serves the search page of the radiotracks cache.
//
// Routes:
//
//	GET /          search form and result table (?artist=...)
//	GET /covers    thumbnail proxy for cover images (?src=...)
//	GET /healthz   dataset size and watermark as JSON
//
// Covers are fetched from the station only for URLs under the configured
// image base. Each URL is downloaded once even under concurrent requests,
// then resized and kept in a bounded in-memory cache.
package web
