package catalog

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/handiism/radiotracks/internal/model"
	"github.com/handiism/radiotracks/internal/radio"
	"github.com/handiism/radiotracks/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	}
	return fmt.Sprintf("ProgressLevel(%d)", int(l))
}

// ProgressEvent represents a sync progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Store is the cache the catalog reads from and appends to.
type Store interface {
	Path() string
	Load(ctx context.Context) (store.Snapshot, error)
	Update(ctx context.Context, tracks []model.Track) (store.Snapshot, error)
	ModTime() (time.Time, error)
}

// Fetcher retrieves the plays newer than a watermark.
type Fetcher interface {
	FetchSince(ctx context.Context, since time.Time) radio.FetchResult
}

// Dataset is the merged content of the cache after a sync.
type Dataset struct {
	Tracks       []model.Track
	Watermark    time.Time
	HasWatermark bool

	// LoadedAt is when the sync finished.
	LoadedAt time.Time
	// Fetched is the number of plays appended by the sync.
	Fetched int
	// FetchErr is the error that stopped the fetch, if any.
	FetchErr error
	Stop     radio.StopReason
}

// Catalog keeps the cache file current and memoizes its content.
type Catalog struct {
	store      Store
	fetcher    Fetcher
	logger     logrus.FieldLogger
	onProgress func(ProgressEvent)
	maxAge     time.Duration
	now        func() time.Time

	syncMu sync.Mutex

	mu      sync.RWMutex
	current *Dataset
	modTime time.Time

	cronMu sync.Mutex
	cron   *cron.Cron
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger for sync diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithProgress registers the progress callback.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(c *Catalog) {
		c.onProgress = fn
	}
}

// WithMaxAge sets how long a synced dataset is reused by Dataset.
// Zero keeps it until the cache file changes or Invalidate is called.
func WithMaxAge(d time.Duration) Option {
	return func(c *Catalog) {
		c.maxAge = d
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// New creates a Catalog over the given store and fetcher.
func New(st Store, fetcher Fetcher, opts ...Option) *Catalog {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Catalog{
		store:   st,
		fetcher: fetcher,
		logger:  discard,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sync loads the cache, fetches newer plays, appends them and memoizes the
// merged dataset.
//
// Only cache errors are returned. A failed fetch still persists the plays
// gathered before the failure and is reported through Dataset.FetchErr.
func (c *Catalog) Sync(ctx context.Context) (*Dataset, error) {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()
	return c.sync(ctx)
}

// Dataset returns the memoized dataset while it is fresh and syncs otherwise.
func (c *Catalog) Dataset(ctx context.Context) (*Dataset, error) {
	if ds := c.fresh(); ds != nil {
		return ds, nil
	}

	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	// Another caller may have synced while we waited.
	if ds := c.fresh(); ds != nil {
		return ds, nil
	}
	return c.sync(ctx)
}

// Current returns the memoized dataset without syncing. It is nil before the
// first sync and after Invalidate.
func (c *Catalog) Current() *Dataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Invalidate drops the memoized dataset.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.modTime = time.Time{}
	c.mu.Unlock()
}

func (c *Catalog) fresh() *Dataset {
	c.mu.RLock()
	ds, memoTime := c.current, c.modTime
	c.mu.RUnlock()

	if ds == nil {
		return nil
	}
	if c.maxAge > 0 && c.now().Sub(ds.LoadedAt) >= c.maxAge {
		return nil
	}
	mt, err := c.store.ModTime()
	if err != nil || !mt.Equal(memoTime) {
		return nil
	}
	return ds
}

func (c *Catalog) sync(ctx context.Context) (*Dataset, error) {
	path := c.store.Path()
	log := c.logger.WithField("cache", path)

	c.progress(ProgressEvent{Message: fmt.Sprintf("Loading cache %s", path), Level: LevelVerbose})
	snap, err := c.store.Load(ctx)
	if err != nil {
		c.progress(ProgressEvent{Message: fmt.Sprintf("Error loading cache: %v", err), Level: LevelError})
		return nil, fmt.Errorf("load cache: %w", err)
	}

	var since time.Time
	if snap.HasWatermark {
		since = snap.Watermark
		c.progress(ProgressEvent{
			Message: fmt.Sprintf("%d cached plays, latest %s", len(snap.Tracks), since.Format(time.RFC3339)),
			Level:   LevelVerbose,
		})
	} else {
		c.progress(ProgressEvent{Message: "No cached plays, fetching the full history", Level: LevelInfo})
	}

	c.progress(ProgressEvent{Message: "Fetching new plays...", Level: LevelInfo})
	res := c.fetcher.FetchSince(ctx, since)

	switch res.Stop {
	case radio.StopError:
		log.WithError(res.Err).WithField("pages", res.Pages).Warn("Fetch stopped early")
		c.progress(ProgressEvent{
			Message: fmt.Sprintf("Fetch stopped after %d pages: %v", res.Pages, res.Err),
			Level:   LevelWarning,
		})
	case radio.StopPageLimit:
		log.WithField("pages", res.Pages).Warn("Fetch hit the page limit")
		c.progress(ProgressEvent{
			Message: fmt.Sprintf("Page limit reached after %d pages", res.Pages),
			Level:   LevelWarning,
		})
	}

	merged, err := c.store.Update(ctx, res.Tracks)
	if err != nil {
		c.progress(ProgressEvent{Message: fmt.Sprintf("Error writing cache: %v", err), Level: LevelError})
		return nil, fmt.Errorf("update cache: %w", err)
	}

	ds := &Dataset{
		Tracks:       merged.Tracks,
		Watermark:    merged.Watermark,
		HasWatermark: merged.HasWatermark,
		LoadedAt:     c.now(),
		Fetched:      len(res.Tracks),
		FetchErr:     res.Err,
		Stop:         res.Stop,
	}

	mt, err := c.store.ModTime()
	if err != nil {
		log.WithError(err).Debug("Cannot stat cache file")
	}

	c.mu.Lock()
	c.current = ds
	c.modTime = mt
	c.mu.Unlock()

	log.WithFields(logrus.Fields{
		"fetched": ds.Fetched,
		"total":   len(ds.Tracks),
		"pages":   res.Pages,
		"stop":    res.Stop.String(),
	}).Info("Catalog synced")

	c.progress(ProgressEvent{
		Message: fmt.Sprintf("%d new plays, %d in cache", ds.Fetched, len(ds.Tracks)),
		Level:   LevelSuccess,
	})
	return ds, nil
}

// Schedule runs Sync in the background on the given cron spec, for example
// "@every 15m". Each run is bounded by ctx.
func (c *Catalog) Schedule(ctx context.Context, spec string) error {
	c.cronMu.Lock()
	defer c.cronMu.Unlock()

	if c.cron != nil {
		return fmt.Errorf("catalog refresh already scheduled")
	}

	cr := cron.New(cron.WithLocation(time.UTC))
	_, err := cr.AddFunc(spec, func() {
		c.logger.WithField("schedule", spec).Debug("Scheduled sync triggered")
		if _, err := c.Sync(ctx); err != nil {
			c.logger.WithError(err).Error("Scheduled sync failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	c.cron = cr
	cr.Start()
	c.logger.WithField("schedule", spec).Info("Catalog refresh scheduled")
	return nil
}

// Stop halts the scheduled refresh and waits for a running sync to finish.
func (c *Catalog) Stop() {
	c.cronMu.Lock()
	cr := c.cron
	c.cron = nil
	c.cronMu.Unlock()

	if cr == nil {
		return
	}
	<-cr.Stop().Done()
	c.logger.Info("Catalog refresh stopped")
}

func (c *Catalog) progress(event ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(event)
	}
}
