// package models defines the data model for the subscription sync tool
package models

import (
	"fmt"
	"strings"
	"time"
)

// maxTargetNameLen bounds artist names parsed from the targets file.
const maxTargetNameLen = 100

// ArtistTarget is a user-declared artist or channel name the account should
// be subscribed to. Tags are informational metadata and never participate in
// matching.
type ArtistTarget struct {
	Name string
	Tags []string
}

// ParseTarget parses a single line of the artists file into an ArtistTarget.
//
// The expected format is "Name" or "Name | tag1 | tag2". Leading and trailing
// whitespace is trimmed from the name and every tag; empty tags are dropped.
func ParseTarget(line string) (ArtistTarget, error) {
	parts := strings.Split(line, "|")

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return ArtistTarget{}, fmt.Errorf("empty artist name")
	}
	if len(name) > maxTargetNameLen {
		return ArtistTarget{}, fmt.Errorf("artist name too long (%d chars): %s", len(name), name)
	}

	var tags []string
	for _, tag := range parts[1:] {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return ArtistTarget{Name: name, Tags: tags}, nil
}

// ResolvedArtist is the result of matching a target name to a remote channel.
//
// ChannelID is non-empty whenever resolution succeeded; the absence of a
// ResolvedArtist for a target means "not found", which is a valid terminal
// outcome rather than an error.
type ResolvedArtist struct {
	Name            string // Display name as returned by the remote service
	ChannelID       string // Opaque remote channel identifier
	SubscriberCount int64  // Zero when the service did not report a count
	Description     string
	ResolvedAt      time.Time
}

// CacheEntry is the persisted form of a [ResolvedArtist], keyed by the
// normalized search name that produced it.
type CacheEntry struct {
	ID         string // Row identifier (UUID)
	SearchName string // Normalized lookup key
	Artist     ResolvedArtist
	CachedAt   time.Time
}

// Fresh reports whether the entry is still within the expiry window at the
// given instant. Staleness is purely a function of wall-clock age.
func (e CacheEntry) Fresh(now time.Time, expiry time.Duration) bool {
	return now.Sub(e.CachedAt) < expiry
}

// Validate checks the invariants a cache row must satisfy before it is
// written to storage.
func (e CacheEntry) Validate() error {
	if e.SearchName == "" {
		return fmt.Errorf("cache entry missing search name")
	}
	if e.Artist.ChannelID == "" {
		return fmt.Errorf("cache entry missing channel ID for %q", e.SearchName)
	}
	if e.CachedAt.IsZero() {
		return fmt.Errorf("cache entry missing timestamp for %q", e.SearchName)
	}
	return nil
}

// SubscriptionSet is a snapshot of the channel IDs the account follows,
// observed at the start of a run. It is treated as read-only for the
// duration of one sync.
type SubscriptionSet map[string]struct{}

// NewSubscriptionSet builds a set from the given channel IDs.
func NewSubscriptionSet(channelIDs ...string) SubscriptionSet {
	set := make(SubscriptionSet, len(channelIDs))
	for _, id := range channelIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports membership of a channel ID.
func (s SubscriptionSet) Contains(channelID string) bool {
	_, ok := s[channelID]
	return ok
}

// Add inserts a channel ID into the set.
func (s SubscriptionSet) Add(channelID string) {
	s[channelID] = struct{}{}
}

// Len returns the number of channels in the set.
func (s SubscriptionSet) Len() int { return len(s) }
