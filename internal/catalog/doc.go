// Package catalog provides the load, fetch and merge pipeline that keeps
// the local track cache current.
//
// # Catalog
//
// The Catalog coordinates one refresh:
//
//  1. Load the cache file and its watermark
//  2. Fetch every play newer than the watermark
//  3. Append the new plays to the cache file
//  4. Keep the merged dataset in memory
//
// # Basic Usage
//
//	cat := catalog.New(store, fetcher,
//	    catalog.WithMaxAge(5*time.Minute),
//	    catalog.WithProgress(func(event catalog.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    }),
//	)
//
//	ds, err := cat.Dataset(ctx) // syncs only when the memo is stale
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Freshness
//
// Dataset reuses the last synced dataset while it is younger than the max
// age and the cache file's modification time has not changed. Watch
// invalidates it as soon as another process rewrites the file, and Schedule
// runs Sync periodically in the background.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Failures
//
// A fetch that stops on an error is not fatal: the plays gathered before the
// failure are still persisted, the cause is kept in Dataset.FetchErr and a
// warning event is emitted. Cache file errors abort the sync and are
// returned.
package catalog
