package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/radiotracks/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func sampleTracks(t *testing.T) []model.Track {
	return []model.Track{
		{Artist: "A", Title: "Song1", Date: date(t, "2024-01-01T10:00:00Z"), ImageURL: "https://radio.example/media/image/1/medium_1_1/a.jpg.webp?h="},
		{Artist: "B, the band", Title: `Song "1"`, Date: date(t, "2024-01-05T22:15:30+01:00")},
		{Artist: "A", Title: "Song2", Date: date(t, "2024-01-02T08:30:00Z")},
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "tracks.csv"))

	snap, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Tracks) != 0 {
		t.Errorf("len(Tracks) = %d, want 0", len(snap.Tracks))
	}
	if snap.HasWatermark {
		t.Error("HasWatermark should be false for a missing file")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "tracks.csv"))
	want := sampleTracks(t)

	if _, err := st.Update(context.Background(), want); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	snap, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Tracks) != len(want) {
		t.Fatalf("len(Tracks) = %d, want %d", len(snap.Tracks), len(want))
	}
	for i, got := range snap.Tracks {
		if got.Artist != want[i].Artist || got.Title != want[i].Title || got.ImageURL != want[i].ImageURL {
			t.Errorf("Tracks[%d] = %+v, want %+v", i, got, want[i])
		}
		if !got.Date.Equal(want[i].Date) {
			t.Errorf("Tracks[%d].Date = %v, want %v", i, got.Date, want[i].Date)
		}
	}

	if !snap.HasWatermark || !snap.Watermark.Equal(want[1].Date) {
		t.Errorf("Watermark = %v (ok=%v), want %v", snap.Watermark, snap.HasWatermark, want[1].Date)
	}
}

func TestStore_RoundTripKeepsFractionalSeconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.csv")
	st := New(path)
	aired := date(t, "2024-01-05T14:32:00.500+01:00")

	if _, err := st.Update(context.Background(), []model.Track{{Artist: "A", Title: "Song1", Date: aired}}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "2024-01-05T14:32:00.5+01:00") {
		t.Errorf("cache content = %q, want fractional seconds kept", data)
	}

	snap, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !snap.HasWatermark || !snap.Watermark.Equal(aired) {
		t.Errorf("Watermark = %v, want %v", snap.Watermark, aired)
	}
}

func TestStore_UpdateEmptyLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.csv")
	st := New(path)

	if _, err := st.Update(context.Background(), sampleTracks(t)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	infoBefore, _ := os.Stat(path)

	snap, err := st.Update(context.Background(), nil)
	if err != nil {
		t.Fatalf("Update(nil) failed: %v", err)
	}
	if len(snap.Tracks) != 3 {
		t.Errorf("len(Tracks) = %d, want 3", len(snap.Tracks))
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("cache file changed after an empty update")
	}
	infoAfter, _ := os.Stat(path)
	if !infoAfter.ModTime().Equal(infoBefore.ModTime()) {
		t.Error("cache file was rewritten after an empty update")
	}
}

func TestStore_UpdateEmptyDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.csv")
	if _, err := New(path).Update(context.Background(), []model.Track{}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("cache file should not exist, stat error = %v", err)
	}
}

func TestStore_UpdateAppendsWithoutDedup(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "tracks.csv"))
	tracks := sampleTracks(t)

	if _, err := st.Update(context.Background(), tracks[:2]); err != nil {
		t.Fatal(err)
	}
	// Overlapping window: track 1 comes again.
	snap, err := st.Update(context.Background(), tracks[1:])
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.Tracks) != 4 {
		t.Fatalf("len(Tracks) = %d, want 4", len(snap.Tracks))
	}
	wantTitles := []string{"Song1", `Song "1"`, `Song "1"`, "Song2"}
	for i, tr := range snap.Tracks {
		if tr.Title != wantTitles[i] {
			t.Errorf("Tracks[%d].Title = %q, want %q", i, tr.Title, wantTitles[i])
		}
	}
}

func TestStore_LoadIOError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be cannot be read as CSV.
	path := filepath.Join(dir, "tracks.csv")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := New(path).Load(context.Background()); err == nil {
		t.Error("expected error when the cache path is a directory")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		csv       string
		wantCount int
		wantErr   bool
		wantDay   string
	}{
		{
			name:      "empty input",
			csv:       "",
			wantCount: 0,
		},
		{
			name:      "header only",
			csv:       "Artist,Title,Date,Image\n",
			wantCount: 0,
		},
		{
			name:      "pandas layout with offset",
			csv:       "Artist,Title,Date,Image\nA,Song1,2024-01-01 12:34:56+01:00,\n",
			wantCount: 1,
			wantDay:   "2024-01-01",
		},
		{
			name:      "pandas layout with micros",
			csv:       "Artist,Title,Date,Image\nA,Song1,2024-01-02 12:34:56.123456+00:00,http://x\n",
			wantCount: 1,
			wantDay:   "2024-01-02",
		},
		{
			name:      "date only, no image column",
			csv:       "Artist,Title,Date\nA,Song1,2024-01-03\n",
			wantCount: 1,
			wantDay:   "2024-01-03",
		},
		{
			name:      "pandas index column",
			csv:       ",Artist,Title,Date,Image\n0,A,Song1,2024-01-04T00:00:00Z,\n",
			wantCount: 1,
			wantDay:   "2024-01-04",
		},
		{
			name:    "missing date column",
			csv:     "Artist,Title\nA,Song1\n",
			wantErr: true,
		},
		{
			name:    "bad date",
			csv:     "Artist,Title,Date,Image\nA,Song1,yesterday,\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks, err := Decode(strings.NewReader(tt.csv))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tracks) != tt.wantCount {
				t.Fatalf("got %d tracks, want %d", len(tracks), tt.wantCount)
			}
			if tt.wantDay != "" && tracks[0].Date.Format("2006-01-02") != tt.wantDay {
				t.Errorf("Date = %v, want day %s", tracks[0].Date, tt.wantDay)
			}
		})
	}
}

func TestEncode_Header(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Artist,Title,Date,Image\n" {
		t.Errorf("Encode(nil) = %q", data)
	}
}
