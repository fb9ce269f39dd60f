package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/handiism/radiotracks/internal/http"
	"github.com/handiism/radiotracks/internal/model"
	"github.com/handiism/radiotracks/internal/radio/dto"
	"github.com/sirupsen/logrus"
)

// ErrNoMembers is returned for a listing response without a member list.
var ErrNoMembers = errors.New("response has no hydra:member list")

// PageKind tells what a single page request produced.
type PageKind int

const (
	// PageRecords means the page yielded at least one track after filtering.
	PageRecords PageKind = iota
	// EndOfData means the page yielded no track after filtering.
	EndOfData
	// PageFailed means the request or the decoding failed.
	PageFailed
)

func (k PageKind) String() string {
	switch k {
	case PageRecords:
		return "records"
	case EndOfData:
		return "end-of-data"
	case PageFailed:
		return "failed"
	}
	return fmt.Sprintf("PageKind(%d)", int(k))
}

// PageResult is the outcome of one page request.
type PageResult struct {
	Page     int
	Kind     PageKind
	Tracks   []model.Track
	Received int // members on the page before watermark filtering
	Err      error
}

// StopReason tells why FetchSince stopped paging.
type StopReason int

const (
	StopEndOfData StopReason = iota
	StopError
	StopPageLimit
)

func (r StopReason) String() string {
	switch r {
	case StopEndOfData:
		return "end of data"
	case StopError:
		return "error"
	case StopPageLimit:
		return "page limit"
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

// FetchResult is the outcome of an incremental fetch.
//
// Tracks holds everything collected before the fetch stopped, even when it
// stopped on an error.
type FetchResult struct {
	Tracks []model.Track
	Pages  int
	Stop   StopReason
	Err    error
}

// Fetcher pages through the station's listing endpoint.
//
// Pages are requested strictly in order, one at a time, without retries:
// the first failure ends the fetch.
//
// Example usage:
//
//	fetcher := NewFetcher(http.NewClient("", 0), DefaultBaseURL)
//
//	res := fetcher.FetchSince(ctx, watermark)
//	if res.Err != nil {
//	    log.Printf("fetch stopped on page %d: %v", res.Pages, res.Err)
//	}
//	fmt.Printf("%d new tracks\n", len(res.Tracks))
type Fetcher struct {
	client   *http.Client
	baseURL  string
	maxPages int
	logger   logrus.FieldLogger
	onPage   func(PageResult)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxPages overrides the safety page limit. Non-positive values are ignored.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPages = n
		}
	}
}

// WithLogger sets the logger used for per-page diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithPageHook registers a callback invoked after every page request.
func WithPageHook(hook func(PageResult)) Option {
	return func(f *Fetcher) {
		f.onPage = hook
	}
}

// NewFetcher creates a Fetcher for the site at baseURL.
func NewFetcher(client *http.Client, baseURL string, opts ...Option) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	f := &Fetcher{
		client:   client,
		baseURL:  baseURL,
		maxPages: MaxPages,
		logger:   discard,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BaseURL returns the site the fetcher talks to.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// FetchPage requests a single 1-indexed page.
//
// When since is non-zero, tracks aired at or before it are dropped. A page
// whose tracks are all dropped, or which is empty, is EndOfData. A response
// without a member list is PageFailed.
func (f *Fetcher) FetchPage(ctx context.Context, page int, since time.Time) PageResult {
	res := PageResult{Page: page}

	var body dto.JSONSearchPage
	if err := f.client.GetJSON(ctx, SearchURL(f.baseURL, page), &body); err != nil {
		res.Kind = PageFailed
		res.Err = fmt.Errorf("page %d: %w", page, err)
		return res
	}

	if body.Members == nil {
		res.Kind = PageFailed
		res.Err = fmt.Errorf("page %d: %w", page, ErrNoMembers)
		return res
	}
	members := *body.Members

	res.Received = len(members)
	for i := range members {
		track := members[i].ToTrack(f.imageURL)
		if !since.IsZero() && !track.Date.After(since) {
			continue
		}
		res.Tracks = append(res.Tracks, track)
	}

	if len(res.Tracks) == 0 {
		res.Kind = EndOfData
	} else {
		res.Kind = PageRecords
	}
	return res
}

// FetchSince collects every track newer than since, page by page.
//
// A zero since fetches everything up to the page limit. Filtering happens per
// page; paging only stops on an empty (filtered) page, an error, or the
// page limit.
func (f *Fetcher) FetchSince(ctx context.Context, since time.Time) FetchResult {
	var res FetchResult

	for page := 1; ; page++ {
		if page > f.maxPages {
			res.Stop = StopPageLimit
			f.logger.WithField("max_pages", f.maxPages).Warn("Page limit reached")
			return res
		}

		pr := f.FetchPage(ctx, page, since)
		res.Pages++
		if f.onPage != nil {
			f.onPage(pr)
		}

		f.logger.WithFields(logrus.Fields{
			"page":     page,
			"kind":     pr.Kind.String(),
			"received": pr.Received,
			"kept":     len(pr.Tracks),
		}).Debug("Fetched listing page")

		switch pr.Kind {
		case PageRecords:
			res.Tracks = append(res.Tracks, pr.Tracks...)
		case EndOfData:
			res.Stop = StopEndOfData
			return res
		case PageFailed:
			res.Stop = StopError
			res.Err = pr.Err
			return res
		}
	}
}

// FetchCover downloads the raw bytes of a cover image.
func (f *Fetcher) FetchCover(ctx context.Context, url string) ([]byte, error) {
	return f.client.Get(ctx, url)
}

func (f *Fetcher) imageURL(img dto.JSONImage) string {
	return ImageURL(f.baseURL, img)
}
