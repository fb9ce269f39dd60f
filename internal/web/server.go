package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/handiism/radiotracks/internal/catalog"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

// Catalog provides the dataset the page searches.
type Catalog interface {
	Dataset(ctx context.Context) (*catalog.Dataset, error)
	Current() *catalog.Dataset
}

// CoverFetcher downloads raw cover bytes.
type CoverFetcher interface {
	FetchCover(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Server.
type Options struct {
	// ImageBase is the URL prefix covers must live under.
	ImageBase string
	// ThumbnailSize is the edge, in pixels, covers are resized to.
	ThumbnailSize int
	// CoverCacheSize is the number of thumbnails kept in memory.
	CoverCacheSize int
	Logger         logrus.FieldLogger
}

// Server is the web UI.
type Server struct {
	catalog Catalog
	covers  *coverProxy
	logger  logrus.FieldLogger
	page    *template.Template
	router  *mux.Router
}

// New creates a Server over cat. Covers are downloaded through fetcher.
func New(cat Catalog, fetcher CoverFetcher, opts Options) (*Server, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = 100
	}

	covers, err := newCoverProxy(fetcher, opts.ImageBase, opts.ThumbnailSize, opts.CoverCacheSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		catalog: cat,
		covers:  covers,
		logger:  logger,
		page:    page,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, s.loggingMiddleware)

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/covers", s.handleCover).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return router
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("Web server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
