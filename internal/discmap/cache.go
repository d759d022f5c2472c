package discmap

import (
	"context"
	"fmt"
	"sync"

	"github.com/llehouerou/ncmtag/internal/catalog"
)

// FetchFunc returns the full track listing of an album.
type FetchFunc func(ctx context.Context, albumID int64) ([]catalog.Song, error)

// Album is a cache entry: the fetched listing and its aggregation.
type Album struct {
	Songs []catalog.Song
	Info  Info
}

// entry is a pending or completed resolution. done is closed once album or
// err is set; both are read-only afterwards.
type entry struct {
	done  chan struct{}
	album *Album
	err   error
}

// Cache memoizes album resolutions by album id. Concurrent callers asking for
// the same album share a single fetch; callers asking for different albums
// never wait on each other. Failed fetches are not kept, so a later call
// retries.
type Cache struct {
	fetch FetchFunc

	mu      sync.Mutex
	entries map[int64]*entry
}

// NewCache creates an empty cache backed by fetch.
func NewCache(fetch FetchFunc) *Cache {
	return &Cache{
		fetch:   fetch,
		entries: make(map[int64]*entry),
	}
}

// Resolve returns the listing and aggregation of an album, fetching it on
// first use. Callers waiting on another caller's fetch stop waiting when ctx
// is done.
func (c *Cache) Resolve(ctx context.Context, albumID int64) (*Album, error) {
	c.mu.Lock()
	e, ok := c.entries[albumID]
	if !ok {
		e = &entry{done: make(chan struct{})}
		c.entries[albumID] = e
	}
	c.mu.Unlock()

	if ok {
		select {
		case <-e.done:
			return e.album, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.load(ctx, albumID, e)
	return e.album, e.err
}

func (c *Cache) load(ctx context.Context, albumID int64, e *entry) {
	defer close(e.done)

	songs, err := c.fetchSongs(ctx, albumID)
	if err != nil {
		e.err = fmt.Errorf("fetch album %d: %w", albumID, err)
		c.mu.Lock()
		delete(c.entries, albumID)
		c.mu.Unlock()
		return
	}
	e.album = &Album{Songs: songs, Info: Build(songs)}
}

// fetchSongs converts a panicking fetch into an error so waiters are released
// with a result.
func (c *Cache) fetchSongs(ctx context.Context, albumID int64) (songs []catalog.Song, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.fetch(ctx, albumID)
}

// Len returns the number of albums resolved or being resolved.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
