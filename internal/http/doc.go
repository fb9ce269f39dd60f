// Package http provides an HTTP client configured for the station's public API.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Context cancellation on every request
//   - JSON decoding of API responses
//
// # Basic Usage
//
//	client := http.NewClient("radiotracks", 60*time.Second)
//
//	// Decode a JSON listing page
//	var page dto.JSONSearchPage
//	err := client.GetJSON(ctx, searchURL, &page)
//
//	// Fetch raw bytes (cover images)
//	data, err := client.Get(ctx, imageURL)
//
// # Errors
//
// Non-200 answers are returned as *StatusError so callers can tell an HTTP
// failure from a transport failure:
//
//	var se *http.StatusError
//	if errors.As(err, &se) && se.Code == 404 {
//	    // ...
//	}
package http
