package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/radiotracks/internal/catalog"
	"github.com/handiism/radiotracks/internal/model"
	"github.com/handiism/radiotracks/internal/search"
)

// setup writes a config pointing at a cache with a few plays and returns
// the config path.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	now := time.Now().UTC().Truncate(time.Second)
	cache := "Artist,Title,Date,Image\n" +
		fmt.Sprintf("Air,Sexy Boy,%s,https://img.test/a.webp\n", now.Add(-72*time.Hour).Format(time.RFC3339)) +
		fmt.Sprintf("Air,Kelly Watch the Stars,%s,\n", now.Add(-48*time.Hour).Format(time.RFC3339)) +
		fmt.Sprintf("air,Sexy Boy,%s,\n", now.Add(-25*time.Hour).Format(time.RFC3339)) +
		fmt.Sprintf("Moby,Porcelain,%s,\n", now.Add(-24*time.Hour).Format(time.RFC3339))
	cachePath := filepath.Join(dir, "tracks.csv")
	if err := os.WriteFile(cachePath, []byte(cache), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := fmt.Sprintf("[cache]\npath = %q\n\n[logging]\nlevel = \"error\"\n", cachePath)
	cfgPath := filepath.Join(dir, "radiotracks.toml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSearchOffline(t *testing.T) {
	cfg := setup(t)

	out, _, err := run(t, "--config", cfg, "search", "--offline", "AIR")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	for _, want := range []string{"Cover", "Title", "Last on air", "Count", "Sexy Boy", "Kelly Watch the Stars", "1 day ago", "https://img.test/a.webp"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Porcelain") {
		t.Errorf("output contains a non-matching artist:\n%s", out)
	}
	if strings.Index(out, "Sexy Boy") > strings.Index(out, "Kelly Watch the Stars") {
		t.Errorf("titles not ordered by count:\n%s", out)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	cfg := setup(t)

	tests := [][]string{
		{"--config", cfg, "search", "--offline"},
		{"--config", cfg, "search", "--offline", "   "},
	}
	for _, args := range tests {
		out, errOut, err := run(t, args...)
		if !errors.Is(err, search.ErrEmptyQuery) {
			t.Errorf("%v: error = %v, want ErrEmptyQuery", args, err)
		}
		if !strings.Contains(errOut, "Please enter a search term.") {
			t.Errorf("%v: stderr = %q", args, errOut)
		}
		if out != "" {
			t.Errorf("%v: stdout = %q, want empty", args, out)
		}
	}
}

func TestSearchJSON(t *testing.T) {
	cfg := setup(t)

	out, _, err := run(t, "--config", cfg, "search", "--offline", "--json", "-n", "1", "air")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, `"title": "Sexy Boy"`) || !strings.Contains(out, `"count": 2`) {
		t.Errorf("unexpected JSON:\n%s", out)
	}
	if strings.Contains(out, "Kelly") {
		t.Errorf("limit not applied:\n%s", out)
	}
}

func TestSearchNoMatch(t *testing.T) {
	cfg := setup(t)

	out, _, err := run(t, "--config", cfg, "search", "--offline", "daft punk")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "No tracks found") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "radiotracks.toml")

	if _, _, err := run(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "vertical_radio_tracks.csv") {
		t.Errorf("config missing cache path:\n%s", data)
	}

	if _, _, err := run(t, "--config", path, "config", "init"); err == nil {
		t.Error("second config init without --overwrite: expected error")
	}
	if _, _, err := run(t, "--config", path, "config", "init", "--overwrite"); err != nil {
		t.Errorf("config init --overwrite error = %v", err)
	}
}

func TestRenderSummaries(t *testing.T) {
	out := renderSummaries([]model.TitleSummary{
		{Title: "Sexy Boy", LastSeen: time.Now().Add(-3 * time.Hour), Count: 12},
		{Title: "Playground Love", LastSeen: time.Now().Add(-48 * time.Hour), Count: 3, ImageURL: "https://img.test/p.webp"},
	})
	for _, want := range []string{"Cover", "Title", "Last on air", "Count", "Sexy Boy", "3 hours ago", "12", "https://img.test/p.webp"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "LAST ON AIR") {
		t.Errorf("header labels upper-cased:\n%s", out)
	}
}

func TestProgressPrinter(t *testing.T) {
	tests := []struct {
		verbose bool
		event   catalog.ProgressEvent
		want    string
	}{
		{false, catalog.ProgressEvent{Message: "Loading cache", Level: catalog.LevelVerbose}, ""},
		{true, catalog.ProgressEvent{Message: "Loading cache", Level: catalog.LevelVerbose}, "• Loading cache\n"},
		{false, catalog.ProgressEvent{Message: "Fetch stopped", Level: catalog.LevelWarning}, "! Fetch stopped\n"},
		{false, catalog.ProgressEvent{Message: "3 new plays", Level: catalog.LevelSuccess}, "✓ 3 new plays\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		progressPrinter(&buf, tt.verbose)(tt.event)
		if buf.String() != tt.want {
			t.Errorf("progressPrinter(%v, %+v) wrote %q, want %q", tt.verbose, tt.event, buf.String(), tt.want)
		}
	}
}
