// Package store persists the track cache as a flat CSV file.
//
// The file has a header row followed by one row per play:
//
//	Artist,Title,Date,Image
//	Air,La femme d'argent,2024-01-05T14:32:00+01:00,https://.../cover.jpg.webp?abc=
//
// The cache is append-only: Update concatenates new plays after the existing
// rows and rewrites the whole file; it never removes or deduplicates rows.
//
// # Usage
//
//	st := store.New("vertical_radio_tracks.csv")
//
//	snap, err := st.Load(ctx)
//	if err != nil {
//	    return err // I/O and parse errors are fatal
//	}
//	res := fetcher.FetchSince(ctx, snap.Watermark)
//	snap, err = st.Update(ctx, res.Tracks)
//
// # Locking
//
// Loads take a shared lock and updates an exclusive lock on "<path>.lock",
// so cooperating processes never interleave a rewrite with a read. Update
// re-reads the file under the exclusive lock, so rows appended by another
// process in the meantime are kept.
package store
