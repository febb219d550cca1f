package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytsync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// youtubeScope grants read and write access to the account's subscriptions.
const youtubeScope = "https://www.googleapis.com/auth/youtube"

// NewGoogleConfig builds the OAuth2 config for the YouTube Data API.
func NewGoogleConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{youtubeScope},
		Endpoint:     google.Endpoint,
	}
}

// TokenStore persists an OAuth token to a JSON file on disk.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store at path, defaulting to
// $HOME/.config/ytsync/token.json when path is empty.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".config", "ytsync", "token.json")
	}
	return &TokenStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *TokenStore) Path() string {
	return s.path
}

// Save writes the token to disk, creating parent directories as needed. The
// file is user-readable only since it carries a refresh token.
func (s *TokenStore) Save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads the persisted token. A missing file maps to
// [shared.ErrNotAuthenticated] so callers can prompt for a login.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no token at %s, run `ytsync auth login`", shared.ErrNotAuthenticated, s.path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}
