package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	ioutils "github.com/handiism/radiotracks/internal/io"
	"github.com/handiism/radiotracks/internal/model"
)

// Header is the CSV header row of the cache file.
var Header = []string{"Artist", "Title", "Date", "Image"}

// DateLayout is the layout dates are written with. Sub-second precision is
// kept so a reloaded watermark still equals the latest play.
const DateLayout = time.RFC3339Nano

// dateLayouts are accepted on load. The space-separated layouts are what
// pandas to_csv writes for datetime columns.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

const lockRetryDelay = 50 * time.Millisecond

// Snapshot is the content of the cache file at one point in time.
type Snapshot struct {
	Tracks []model.Track

	// Watermark is the latest Date in Tracks; zero when HasWatermark is false.
	Watermark    time.Time
	HasWatermark bool
}

func newSnapshot(tracks []model.Track) Snapshot {
	wm, ok := model.Watermark(tracks)
	return Snapshot{Tracks: tracks, Watermark: wm, HasWatermark: ok}
}

// Store reads and rewrites the cache file at a fixed path.
type Store struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

// New creates a Store for the cache file at path.
//
// Nothing is touched on disk until the first Load or Update.
func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted tracks and their watermark.
//
// A missing file yields an empty snapshot without watermark. Any other read
// or parse failure is returned.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}

	if err := s.acquire(ctx, false); err != nil {
		return Snapshot{}, err
	}
	defer s.lock.Unlock()

	tracks, err := s.read()
	if err != nil {
		return Snapshot{}, err
	}
	return newSnapshot(tracks), nil
}

// Update appends tracks to the persisted set and rewrites the file.
//
// When tracks is empty the file is left untouched and the current content is
// returned. Otherwise the returned snapshot is the merged content.
func (s *Store) Update(ctx context.Context, tracks []model.Track) (Snapshot, error) {
	if len(tracks) == 0 {
		return s.Load(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ioutils.EnsureDir(filepath.Dir(s.path)); err != nil {
		return Snapshot{}, fmt.Errorf("create cache directory: %w", err)
	}
	if err := s.acquire(ctx, true); err != nil {
		return Snapshot{}, err
	}
	defer s.lock.Unlock()

	existing, err := s.read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, err
	}

	merged := make([]model.Track, 0, len(existing)+len(tracks))
	merged = append(merged, existing...)
	merged = append(merged, tracks...)

	data, err := Encode(merged)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ioutils.WriteFileAtomic(ctx, s.path, data); err != nil {
		return Snapshot{}, fmt.Errorf("write cache %s: %w", s.path, err)
	}

	return newSnapshot(merged), nil
}

// ModTime returns the modification time of the cache file.
//
// The zero time is returned when the file does not exist.
func (s *Store) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *Store) acquire(ctx context.Context, exclusive bool) error {
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("lock cache %s: %w", s.path, err)
	}
	if !ok {
		return fmt.Errorf("lock cache %s: not acquired", s.path)
	}
	return nil
}

func (s *Store) read() ([]model.Track, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tracks, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", s.path, err)
	}
	return tracks, nil
}

// Encode renders tracks as CSV with the cache header.
func Encode(tracks []model.Track) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, t := range tracks {
		row := []string{t.Artist, t.Title, t.Date.Format(DateLayout), t.ImageURL}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses cache CSV.
//
// Columns are matched by header name, so files with extra columns (such as
// a pandas index) still load. Artist, Title and Date are required; Image is
// optional. An empty input yields no tracks.
func Decode(r io.Reader) ([]model.Track, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range Header[:3] {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	imageCol, hasImage := cols["Image"]

	var tracks []model.Track
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := ParseDate(field(row, cols["Date"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		track := model.Track{
			Artist: field(row, cols["Artist"]),
			Title:  field(row, cols["Title"]),
			Date:   date,
		}
		if hasImage {
			track.ImageURL = field(row, imageCol)
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

// ParseDate parses a cache date in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %q", s)
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
