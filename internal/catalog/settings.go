package catalog

import (
	"github.com/handiism/radiotracks/internal/config"
	"github.com/handiism/radiotracks/internal/http"
	"github.com/handiism/radiotracks/internal/radio"
	"github.com/handiism/radiotracks/internal/store"
	"github.com/sirupsen/logrus"
)

// NewFromSettings wires a Catalog with the HTTP client, fetcher and cache
// store described by settings. The fetcher is returned as well so callers
// can download covers with the same client.
func NewFromSettings(settings *config.Settings, logger logrus.FieldLogger, opts ...Option) (*Catalog, *radio.Fetcher) {
	client := http.NewClient(settings.API.UserAgent, settings.API.Timeout())
	fetcher := radio.NewFetcher(client, settings.API.BaseURL,
		radio.WithMaxPages(settings.API.MaxPages),
		radio.WithLogger(logger),
	)

	base := []Option{
		WithLogger(logger),
		WithMaxAge(settings.Cache.Interval()),
	}
	cat := New(store.New(settings.Cache.Path), fetcher, append(base, opts...)...)
	return cat, fetcher
}
