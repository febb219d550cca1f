package services

import (
	"context"

	"github.com/desertthunder/ytsync/internal/models"
)

// AuthMode identifies how a service authenticates its requests.
type AuthMode int

const (
	// AuthAPIKey authenticates with a developer API key. Search only.
	AuthAPIKey AuthMode = iota
	// AuthOAuth authenticates with a user-scoped OAuth token.
	AuthOAuth
)

func (m AuthMode) String() string {
	switch m {
	case AuthAPIKey:
		return "api_key"
	case AuthOAuth:
		return "oauth"
	default:
		return ""
	}
}

// ArtistLookup resolves an artist search name to a remote channel.
type ArtistLookup interface {
	// SearchArtist returns the best channel match for the given name, or
	// (nil, nil) when the service found no acceptable match. A non-nil
	// error means the lookup itself failed and may succeed on retry.
	SearchArtist(ctx context.Context, name string) (*models.ResolvedArtist, error)

	// Name returns the human-readable service name.
	Name() string
}

// SubscriptionReader retrieves the authenticated account's subscriptions.
type SubscriptionReader interface {
	// ListSubscriptions pages through the full subscription list and
	// returns the set of subscribed channel IDs.
	ListSubscriptions(ctx context.Context) (models.SubscriptionSet, error)
}

// SubscriptionWriter creates subscriptions on the authenticated account.
type SubscriptionWriter interface {
	// Subscribe subscribes the account to the given channel.
	Subscribe(ctx context.Context, channelID string) error
}

// Service is the full surface the sync engine wires together.
type Service interface {
	ArtistLookup
	SubscriptionReader
	SubscriptionWriter

	// Mode reports the active authentication strategy.
	Mode() AuthMode
}
