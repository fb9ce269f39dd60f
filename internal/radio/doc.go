// Package radio talks to the station's public search API and turns its
// listing pages into model.Track values.
//
// # Listing Endpoint
//
// The station publishes every track it airs through a paginated search
// endpoint, newest first, 20 members per page:
//
//	GET {base}/api/search?locale=fr&site=1&...&page=N
//
// Each member carries the artist, the title, an ISO 8601 readDate and,
// optionally, the media metadata of a cover image under "aio:images".
//
// # Incremental Fetch
//
// Use the Fetcher to collect everything aired after a watermark:
//
//	fetcher := radio.NewFetcher(client, radio.DefaultBaseURL,
//	    radio.WithMaxPages(settings.API.MaxPages),
//	    radio.WithLogger(logger),
//	)
//	res := fetcher.FetchSince(ctx, watermark)
//
// Paging stops at the first page that has nothing newer than the watermark,
// at the first failure, or at the page limit. FetchResult.Stop says which;
// a failure keeps its cause in FetchResult.Err instead of being mistaken for
// the end of the listing.
//
// # Cover Images
//
// Cover URLs point at the medium square WebP rendition:
//
//	{base}/media/image/{folder}/medium_1_1/{fileName}.{extension}.webp?{hash}=
package radio
