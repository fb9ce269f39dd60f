package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/handiism/radiotracks/internal/model"
	"github.com/handiism/radiotracks/internal/search"
	"github.com/sirupsen/logrus"
)

const (
	emptyQueryWarning = "Please enter a search term."

	// maxArtists caps the matching artist names listed above the results.
	maxArtists = 8
)

type pageData struct {
	Query     string
	Submitted bool
	Warning   string
	Rows      []rowData
	Artists   []string

	HasData     bool
	Total       int
	Latest      string
	FetchFailed bool
}

type rowData struct {
	Cover        string
	Title        string
	LastOnAir    string
	LastOnAirISO string
	Count        int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query, submitted := r.URL.Query()["artist"]
	data := pageData{Submitted: submitted}
	if submitted {
		data.Query = query[0]
	}

	ds, err := s.catalog.Dataset(r.Context())
	if err != nil {
		s.logger.WithError(err).WithField("request_id", requestID(r.Context())).Error("Loading dataset failed")
		http.Error(w, "The track cache could not be loaded.", http.StatusInternalServerError)
		return
	}

	data.HasData = true
	data.Total = len(ds.Tracks)
	data.FetchFailed = ds.FetchErr != nil
	if ds.HasWatermark {
		data.Latest = humanize.Time(ds.Watermark)
	}

	if submitted {
		summaries, err := search.Aggregate(ds.Tracks, data.Query)
		if errors.Is(err, search.ErrEmptyQuery) {
			data.Warning = emptyQueryWarning
		} else {
			data.Rows = rows(summaries)
			data.Artists = search.Artists(ds.Tracks, data.Query, maxArtists)
		}
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.WithError(err).Error("Rendering page failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func rows(summaries []model.TitleSummary) []rowData {
	out := make([]rowData, 0, len(summaries))
	for _, s := range summaries {
		row := rowData{
			Title:        s.Title,
			LastOnAir:    humanize.Time(s.LastSeen),
			LastOnAirISO: s.LastSeen.Format(time.RFC3339),
			Count:        s.Count,
		}
		if s.HasImage() {
			row.Cover = "/covers?src=" + url.QueryEscape(s.ImageURL)
		}
		out = append(out, row)
	}
	return out
}

type healthResponse struct {
	Status    string     `json:"status"`
	Tracks    int        `json:"tracks"`
	Watermark *time.Time `json:"watermark"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	LastError string     `json:"last_fetch_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "loading"}
	if ds := s.catalog.Current(); ds != nil {
		resp.Status = "ok"
		resp.Tracks = len(ds.Tracks)
		loaded := ds.LoadedAt
		resp.LoadedAt = &loaded
		if ds.HasWatermark {
			wm := ds.Watermark
			resp.Watermark = &wm
		}
		if ds.FetchErr != nil {
			resp.LastError = ds.FetchErr.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.WithError(err).Debug("Writing health response failed")
	}
}

func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	src := strings.TrimSpace(r.URL.Query().Get("src"))
	if src == "" {
		http.Error(w, "missing src", http.StatusBadRequest)
		return
	}

	thumb, err := s.covers.thumbnail(r.Context(), src)
	switch {
	case errors.Is(err, errForeignCover):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.logger.WithError(err).WithFields(logrus.Fields{
			"request_id": requestID(r.Context()),
			"src":        src,
		}).Warn("Cover proxy failed")
		http.Error(w, "cover unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(thumb)
}
