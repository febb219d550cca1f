package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
)

// ArtistCache is the persistence surface the resolver needs. Implemented by
// repositories.ArtistCacheRepository.
type ArtistCache interface {
	Get(searchName string) (*models.CacheEntry, error)
	Put(entry *models.CacheEntry) error
}

// Resolver maps an artist search name to a channel.
type Resolver interface {
	// Resolve returns the resolved artist, (nil, nil) when no channel
	// matches, or an error when the lookup or cache failed.
	Resolve(ctx context.Context, name string) (*models.ResolvedArtist, error)
}

// CachedResolver resolves artist names through a time-boxed cache.
//
// A fresh cache entry short-circuits the remote lookup entirely. A stale or
// missing entry triggers a remote search whose successful result overwrites
// the cached row. Not-found is a valid terminal outcome and is never cached,
// so an artist who joins the platform later is found on the next run.
type CachedResolver struct {
	lookup       services.ArtistLookup
	cache        ArtistCache
	expiry       time.Duration
	forceRefresh bool
	logger       *log.Logger

	// now is swapped in tests to pin staleness decisions.
	now func() time.Time
}

// NewCachedResolver creates a resolver over the given lookup service and cache.
func NewCachedResolver(lookup services.ArtistLookup, cache ArtistCache, expiry time.Duration, logger *log.Logger) *CachedResolver {
	return &CachedResolver{
		lookup: lookup,
		cache:  cache,
		expiry: expiry,
		logger: logger,
		now:    time.Now,
	}
}

// SetForceRefresh makes every resolution bypass cache reads. Writes still
// happen, so a forced run repopulates the cache with current data.
func (r *CachedResolver) SetForceRefresh(force bool) {
	r.forceRefresh = force
}

// Resolve maps a search name to a channel.
//
// Cache storage failures are returned as errors wrapping
// [shared.ErrCacheUnavailable]; a failed remote lookup returns the lookup
// error; an artist with no acceptable match returns (nil, nil).
func (r *CachedResolver) Resolve(ctx context.Context, name string) (*models.ResolvedArtist, error) {
	key := shared.NormalizeArtistKey(name)
	if key == "" {
		return nil, fmt.Errorf("%w: empty artist name", shared.ErrInvalidInput)
	}

	if !r.forceRefresh {
		entry, err := r.cache.Get(key)
		switch {
		case err == nil:
			if entry.Fresh(r.now(), r.expiry) {
				r.logger.Debug("cache hit", "artist", name, "channel", entry.Artist.ChannelID)
				artist := entry.Artist
				return &artist, nil
			}
			r.logger.Debug("cache entry stale", "artist", name, "cached_at", entry.CachedAt)
		case errors.Is(err, shared.ErrCacheMiss):
			r.logger.Debug("cache miss", "artist", name)
		default:
			return nil, err
		}
	}

	artist, err := r.lookup.SearchArtist(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", name, err)
	}
	if artist == nil {
		r.logger.Debug("no channel match", "artist", name)
		return nil, nil
	}

	entry := &models.CacheEntry{
		SearchName: key,
		Artist:     *artist,
		CachedAt:   r.now().UTC(),
	}
	if err := r.cache.Put(entry); err != nil {
		return nil, err
	}

	r.logger.Debug("resolved and cached", "artist", name, "channel", artist.ChannelID)
	return artist, nil
}
