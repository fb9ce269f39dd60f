package tui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/radiotracks/internal/catalog"
	"github.com/handiism/radiotracks/internal/model"
	"github.com/handiism/radiotracks/internal/radio"
	"github.com/handiism/radiotracks/internal/store"
)

type noFetch struct{}

func (noFetch) FetchSince(ctx context.Context, since time.Time) radio.FetchResult {
	return radio.FetchResult{Stop: radio.StopEndOfData}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cat := catalog.New(store.New(filepath.Join(t.TempDir(), "tracks.csv")), noFetch{})
	return NewModel(cat, nil, nil)
}

func testDataset() *catalog.Dataset {
	at := func(d int) time.Time { return time.Now().Add(-time.Duration(d) * 24 * time.Hour) }
	tracks := []model.Track{
		{Artist: "Air", Title: "Sexy Boy", Date: at(3), ImageURL: "https://example.test/media/image/a.webp"},
		{Artist: "Air", Title: "Kelly Watch the Stars", Date: at(2)},
		{Artist: "AIR", Title: "Sexy Boy", Date: at(1)},
		{Artist: "Moby", Title: "Porcelain", Date: at(1)},
	}
	wm, ok := model.Watermark(tracks)
	return &catalog.Dataset{Tracks: tracks, Watermark: wm, HasWatermark: ok}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func ready(t *testing.T) Model {
	t.Helper()
	return update(t, newTestModel(t), SyncDoneMsg{Dataset: testDataset()})
}

func TestSyncDone(t *testing.T) {
	m := ready(t)
	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
	if !strings.Contains(m.View(), "4 plays cached") {
		t.Errorf("View() missing dataset summary:\n%s", m.View())
	}
}

func TestSyncError(t *testing.T) {
	m := update(t, newTestModel(t), SyncDoneMsg{Err: errors.New("load cache: permission denied")})
	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.View(), "permission denied") {
		t.Errorf("View() missing error:\n%s", m.View())
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	m := ready(t)
	m.textInput.SetValue("   ")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.warning != emptyQueryWarning {
		t.Errorf("warning = %q, want %q", m.warning, emptyQueryWarning)
	}
	if len(m.table.Rows()) != 0 {
		t.Errorf("rows = %d, want 0", len(m.table.Rows()))
	}
	if !strings.Contains(m.View(), emptyQueryWarning) {
		t.Error("View() does not show the warning")
	}
}

func TestSearchResults(t *testing.T) {
	m := ready(t)
	m.textInput.SetValue("air")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.warning != "" {
		t.Errorf("warning = %q, want none", m.warning)
	}
	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][1] != "Sexy Boy" || rows[0][3] != "2" {
		t.Errorf("first row = %v, want Sexy Boy with count 2", rows[0])
	}
	if rows[0][2] != "1 day ago" {
		t.Errorf("last on air = %q, want %q", rows[0][2], "1 day ago")
	}
	if rows[0][0] == "" || rows[1][0] != "" {
		t.Errorf("cover markers = %q, %q", rows[0][0], rows[1][0])
	}
}

func TestSearchNoMatch(t *testing.T) {
	m := ready(t)
	m.textInput.SetValue("daft punk")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.Contains(m.warning, "No tracks found") {
		t.Errorf("warning = %q", m.warning)
	}
}

func TestSearchWhileSyncing(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue("air")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.warning == "" {
		t.Error("expected a loading warning")
	}
	if m.state != StateSyncing {
		t.Errorf("state = %v, want StateSyncing", m.state)
	}
}

func TestProgressFiltering(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, ProgressMsg{Event: catalog.ProgressEvent{Message: "Loading cache", Level: catalog.LevelVerbose}})
	if len(m.logs) != 0 {
		t.Errorf("verbose event logged without verbose mode: %v", m.logs)
	}

	for i := 0; i < 15; i++ {
		m = update(t, m, ProgressMsg{Event: catalog.ProgressEvent{Message: "Fetching new plays...", Level: catalog.LevelInfo}})
	}
	if len(m.logs) != maxLogs {
		t.Errorf("logs = %d, want %d", len(m.logs), maxLogs)
	}
}

func TestCoverMsg(t *testing.T) {
	m := ready(t)
	m.textInput.SetValue("air")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	url := m.results[0].ImageURL
	m = update(t, m, CoverMsg{URL: url, Art: "▀▀\n▀▀"})
	if !strings.Contains(m.View(), "▀▀") {
		t.Errorf("View() missing cover art:\n%s", m.View())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(m.View(), "No cover") {
		t.Errorf("View() for a row without image:\n%s", m.View())
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.RGBA{R: uint8(80 * x), G: uint8(80 * y), B: 200, A: 255})
		}
	}

	art := renderHalfBlocks(img)
	lines := strings.Split(art, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for i, line := range lines {
		if got := strings.Count(line, "▀"); got != 3 {
			t.Errorf("line %d has %d cells, want 3", i, got)
		}
	}
}

func TestHexColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0xff, G: 0x80, B: 0x01, A: 0xff})

	if got := hexColor(img, 0, 0); got != "#ff8001" {
		t.Errorf("hexColor() = %q, want %q", got, "#ff8001")
	}
}
