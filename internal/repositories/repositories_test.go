package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testEntry(searchName, resolvedName, channelID string, subscribers int64, cachedAt time.Time) *models.CacheEntry {
	return &models.CacheEntry{
		SearchName: searchName,
		Artist: models.ResolvedArtist{
			Name:            resolvedName,
			ChannelID:       channelID,
			SubscriberCount: subscribers,
		},
		CachedAt: cachedAt,
	}
}

func TestArtistCacheRepository(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("Get on empty cache is a miss", func(t *testing.T) {
		repo := NewArtistCacheRepository(setupTestDB(t))

		_, err := repo.Get("tool")
		if !errors.Is(err, shared.ErrCacheMiss) {
			t.Errorf("expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("Put then Get round-trips the entry", func(t *testing.T) {
		repo := NewArtistCacheRepository(setupTestDB(t))

		entry := testEntry("tool", "TOOL", "UCtool", 2500000, now)
		if err := repo.Put(entry); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.ID == "" {
			t.Error("expected Put to assign an ID")
		}

		got, err := repo.Get("tool")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Artist.Name != "TOOL" || got.Artist.ChannelID != "UCtool" {
			t.Errorf("unexpected artist: %+v", got.Artist)
		}
		if got.Artist.SubscriberCount != 2500000 {
			t.Errorf("expected subscriber count 2500000, got %d", got.Artist.SubscriberCount)
		}
		if !got.CachedAt.Equal(entry.CachedAt) {
			t.Errorf("expected cached_at %v, got %v", entry.CachedAt, got.CachedAt)
		}
	})

	t.Run("Put replaces the full row for an existing key", func(t *testing.T) {
		repo := NewArtistCacheRepository(setupTestDB(t))

		stale := testEntry("tool", "Tool Tribute", "UCwrong", 100, now.Add(-10*24*time.Hour))
		if err := repo.Put(stale); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		refreshed := testEntry("tool", "TOOL", "UCtool", 2500000, now)
		if err := repo.Put(refreshed); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := repo.Get("tool")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Artist.ChannelID != "UCtool" {
			t.Errorf("expected refreshed channel UCtool, got %s", got.Artist.ChannelID)
		}
		if !got.CachedAt.Equal(refreshed.CachedAt) {
			t.Errorf("expected refreshed timestamp, got %v", got.CachedAt)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 row after upsert, got %d", count)
		}
	})

	t.Run("Put rejects invalid entries", func(t *testing.T) {
		repo := NewArtistCacheRepository(setupTestDB(t))

		entry := testEntry("tool", "TOOL", "", 0, now)
		if err := repo.Put(entry); err == nil {
			t.Error("expected validation error for missing channel ID")
		}
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		repo := NewArtistCacheRepository(setupTestDB(t))

		if err := repo.Put(testEntry("tool", "TOOL", "UCtool", 0, now)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.Delete("tool"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.Delete("tool"); err != nil {
			t.Fatalf("expected deleting absent row to succeed, got %v", err)
		}
		if _, err := repo.Get("tool"); !errors.Is(err, shared.ErrCacheMiss) {
			t.Errorf("expected ErrCacheMiss after delete, got %v", err)
		}
	})

	t.Run("Clear reports deleted rows", func(t *testing.T) {
		repo := NewArtistCacheRepository(setupTestDB(t))

		for _, name := range []string{"tool", "deftones", "burial"} {
			if err := repo.Put(testEntry(name, name, "UC"+name, 0, now)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		deleted, err := repo.Clear()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deleted != 3 {
			t.Errorf("expected 3 deleted rows, got %d", deleted)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty cache, got %d rows", count)
		}
	})

	t.Run("Top orders by subscriber count", func(t *testing.T) {
		repo := NewArtistCacheRepository(setupTestDB(t))

		entries := []*models.CacheEntry{
			testEntry("small", "Small", "UCs", 100, now),
			testEntry("big", "Big", "UCb", 9000000, now),
			testEntry("mid", "Mid", "UCm", 50000, now),
		}
		for _, e := range entries {
			if err := repo.Put(e); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		top, err := repo.Top(2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(top) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(top))
		}
		if top[0].Artist.Name != "Big" || top[1].Artist.Name != "Mid" {
			t.Errorf("unexpected order: %s, %s", top[0].Artist.Name, top[1].Artist.Name)
		}
	})

	t.Run("Stats splits fresh from stale", func(t *testing.T) {
		repo := NewArtistCacheRepository(setupTestDB(t))
		expiry := 7 * 24 * time.Hour

		if err := repo.Put(testEntry("fresh", "Fresh", "UCf", 0, now.Add(-time.Hour))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.Put(testEntry("stale", "Stale", "UCst", 0, now.Add(-10*24*time.Hour))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stats, err := repo.Stats(now, expiry)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Entries != 2 {
			t.Errorf("expected 2 entries, got %d", stats.Entries)
		}
		if stats.Fresh != 1 || stats.Stale != 1 {
			t.Errorf("expected 1 fresh and 1 stale, got %d/%d", stats.Fresh, stats.Stale)
		}
	})
}

func TestSyncRunRepository(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	newRun := func(dryRun bool, subscribed int) *models.SyncRun {
		return &models.SyncRun{
			DryRun:     dryRun,
			Targets:    5,
			Subscribed: subscribed,
			StartedAt:  now.Add(-time.Minute),
			FinishedAt: now,
		}
	}

	t.Run("Create assigns ID and increasing sequence", func(t *testing.T) {
		repo := NewSyncRunRepository(setupTestDB(t))

		first := newRun(true, 3)
		second := newRun(false, 2)

		if err := repo.Create(first); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.Create(second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first.ID == "" || second.ID == "" {
			t.Error("expected Create to assign IDs")
		}
		if second.Sequence != first.Sequence+1 {
			t.Errorf("expected sequence %d, got %d", first.Sequence+1, second.Sequence)
		}
	})

	t.Run("List returns most recent first", func(t *testing.T) {
		repo := NewSyncRunRepository(setupTestDB(t))

		for i := 0; i < 3; i++ {
			if err := repo.Create(newRun(true, i)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		runs, err := repo.List(2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].Sequence <= runs[1].Sequence {
			t.Errorf("expected descending sequence, got %d then %d", runs[0].Sequence, runs[1].Sequence)
		}
		if runs[0].Subscribed != 2 {
			t.Errorf("expected latest run first, got subscribed=%d", runs[0].Subscribed)
		}
	})

	t.Run("Latest on empty history returns nil", func(t *testing.T) {
		repo := NewSyncRunRepository(setupTestDB(t))

		run, err := repo.Latest()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run != nil {
			t.Errorf("expected nil, got %+v", run)
		}
	})
}
