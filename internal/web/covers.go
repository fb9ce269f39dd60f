package web

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	ioutils "github.com/handiism/radiotracks/internal/io"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const defaultCoverCacheSize = 256

var errForeignCover = errors.New("cover URL outside the image base")

// coverProxy turns remote covers into thumbnails. Concurrent requests for
// the same URL share one download; results are kept in an LRU cache.
type coverProxy struct {
	fetcher CoverFetcher
	images  *ioutils.ImageService
	prefix  string
	size    int

	group singleflight.Group
	cache *lru.Cache[string, []byte]
}

func newCoverProxy(fetcher CoverFetcher, imageBase string, size, capacity int) (*coverProxy, error) {
	if capacity <= 0 {
		capacity = defaultCoverCacheSize
	}
	cache, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, fmt.Errorf("cover cache: %w", err)
	}
	return &coverProxy{
		fetcher: fetcher,
		images:  ioutils.NewImageService(),
		prefix:  strings.TrimRight(imageBase, "/") + "/",
		size:    size,
		cache:   cache,
	}, nil
}

// allowed reports whether src points under the image base.
func (p *coverProxy) allowed(src string) bool {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if strings.Contains(u.Path, "..") {
		return false
	}
	return strings.HasPrefix(src, p.prefix)
}

func (p *coverProxy) thumbnail(ctx context.Context, src string) ([]byte, error) {
	if !p.allowed(src) {
		return nil, errForeignCover
	}
	if thumb, ok := p.cache.Get(src); ok {
		return thumb, nil
	}

	// The download outlives a cancelled first requester; the HTTP client
	// timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)

	v, err, _ := p.group.Do(src, func() (any, error) {
		if thumb, ok := p.cache.Get(src); ok {
			return thumb, nil
		}
		raw, err := p.fetcher.FetchCover(fetchCtx, src)
		if err != nil {
			return nil, fmt.Errorf("fetch cover: %w", err)
		}
		thumb, err := p.images.ResizeImage(fetchCtx, raw, p.size, p.size)
		if err != nil {
			return nil, fmt.Errorf("resize cover: %w", err)
		}
		p.cache.Add(src, thumb)
		return thumb, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
