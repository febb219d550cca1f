package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

// ArtistCacheRepository persists resolved artists keyed by normalized search name.
//
// One row per search name. Writes replace the full row atomically, so a
// forced refresh either lands completely or leaves the previous entry intact.
type ArtistCacheRepository struct {
	db *sql.DB
}

// NewArtistCacheRepository creates a new ArtistCacheRepository with the given database connection
func NewArtistCacheRepository(db *sql.DB) *ArtistCacheRepository {
	return &ArtistCacheRepository{db: db}
}

// Get retrieves the cache entry for a normalized search name.
//
// Returns [shared.ErrCacheMiss] when no row exists; any other failure wraps
// [shared.ErrCacheUnavailable].
func (r *ArtistCacheRepository) Get(searchName string) (*models.CacheEntry, error) {
	query := `
		SELECT id, search_name, resolved_name, channel_id, subscriber_count, description, cached_at
		FROM artist_cache
		WHERE search_name = ?
	`

	var entry models.CacheEntry
	err := r.db.QueryRow(query, searchName).Scan(
		&entry.ID,
		&entry.SearchName,
		&entry.Artist.Name,
		&entry.Artist.ChannelID,
		&entry.Artist.SubscriberCount,
		&entry.Artist.Description,
		&entry.CachedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrCacheMiss, searchName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read entry for %q: %v", shared.ErrCacheUnavailable, searchName, err)
	}

	entry.Artist.ResolvedAt = entry.CachedAt
	return &entry, nil
}

// Put writes a cache entry, replacing any existing row for the same search
// name in a single upsert statement.
func (r *ArtistCacheRepository) Put(entry *models.CacheEntry) error {
	if entry.ID == "" {
		entry.ID = shared.GenerateID()
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO artist_cache (
			id, search_name, resolved_name, channel_id, subscriber_count, description, cached_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(search_name) DO UPDATE SET
			id = excluded.id,
			resolved_name = excluded.resolved_name,
			channel_id = excluded.channel_id,
			subscriber_count = excluded.subscriber_count,
			description = excluded.description,
			cached_at = excluded.cached_at
	`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.SearchName,
		entry.Artist.Name,
		entry.Artist.ChannelID,
		entry.Artist.SubscriberCount,
		entry.Artist.Description,
		entry.CachedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to write entry for %q: %v", shared.ErrCacheUnavailable, entry.SearchName, err)
	}

	return nil
}

// Delete removes the entry for a search name. Deleting an absent entry is not
// an error.
func (r *ArtistCacheRepository) Delete(searchName string) error {
	if _, err := r.db.Exec("DELETE FROM artist_cache WHERE search_name = ?", searchName); err != nil {
		return fmt.Errorf("%w: failed to delete entry for %q: %v", shared.ErrCacheUnavailable, searchName, err)
	}
	return nil
}

// Clear removes every cache entry and returns how many were deleted.
func (r *ArtistCacheRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM artist_cache")
	if err != nil {
		return 0, fmt.Errorf("%w: failed to clear cache: %v", shared.ErrCacheUnavailable, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// Count returns the number of cached entries.
func (r *ArtistCacheRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM artist_cache").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: failed to count entries: %v", shared.ErrCacheUnavailable, err)
	}
	return count, nil
}

// Top returns up to limit entries ordered by subscriber count, largest first.
func (r *ArtistCacheRepository) Top(limit int) ([]*models.CacheEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, search_name, resolved_name, channel_id, subscriber_count, description, cached_at
		FROM artist_cache
		ORDER BY subscriber_count DESC, resolved_name ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query entries: %v", shared.ErrCacheUnavailable, err)
	}
	defer rows.Close()

	var entries []*models.CacheEntry
	for rows.Next() {
		var entry models.CacheEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.SearchName,
			&entry.Artist.Name,
			&entry.Artist.ChannelID,
			&entry.Artist.SubscriberCount,
			&entry.Artist.Description,
			&entry.CachedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entry.Artist.ResolvedAt = entry.CachedAt
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// CacheStats summarizes the state of the artist cache.
type CacheStats struct {
	Entries int
	Fresh   int
	Stale   int
	Oldest  time.Time
	Newest  time.Time
}

// Stats computes entry counts and the age range of the cache, splitting fresh
// from stale against the given expiry window.
func (r *ArtistCacheRepository) Stats(now time.Time, expiry time.Duration) (*CacheStats, error) {
	stats := &CacheStats{}
	cutoff := now.Add(-expiry)

	query := `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN cached_at > ? THEN 1 ELSE 0 END), 0),
			COALESCE(MIN(cached_at), ''),
			COALESCE(MAX(cached_at), '')
		FROM artist_cache
	`

	var oldest, newest sql.NullString
	err := r.db.QueryRow(query, cutoff).Scan(&stats.Entries, &stats.Fresh, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute stats: %v", shared.ErrCacheUnavailable, err)
	}
	stats.Stale = stats.Entries - stats.Fresh

	if stats.Entries > 0 {
		if oldest.Valid && oldest.String != "" {
			stats.Oldest, _ = parseStoredTime(oldest.String)
		}
		if newest.Valid && newest.String != "" {
			stats.Newest, _ = parseStoredTime(newest.String)
		}
	}

	return stats, nil
}

// parseStoredTime reads a timestamp in any of the layouts the sqlite3 driver
// writes.
func parseStoredTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
