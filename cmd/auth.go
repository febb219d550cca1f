package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/ytsync/internal/server"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 authorization flow for the YouTube account.
//
// Starts a local HTTP server, opens the browser for user authorization,
// exchanges the auth code for tokens, and persists them to disk.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	creds := r.config.Credentials.YouTube
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: client_id and client_secret must be set under [credentials.youtube]", shared.ErrMissingCredentials)
	}

	oauthConf := server.NewGoogleConfig(creds.ClientID, creds.ClientSecret, creds.RedirectURI)

	token, err := r.doOAuth(ctx, oauthConf)
	if err != nil {
		return err
	}

	store := server.NewTokenStore(creds.TokenPath)
	if err := store.Save(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	// Drop any API-key service built earlier so the next call uses OAuth.
	r.service = nil

	r.logger.Info("authentication successful", "token", store.Path())

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", store.Path())
	r.writePlain("You can now run: ytsync sync --artists-file artists.txt\n")

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, oauthConf *oauth2.Config) (*oauth2.Token, error) {
	state := shared.GenerateState()

	oauthHandler := server.NewOAuthHandler(oauthConf, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	callback, err := url.Parse(oauthConf.RedirectURL)
	if err != nil || callback.Host == "" {
		return nil, fmt.Errorf("%w: invalid redirect_uri %q", shared.ErrInvalidConfig, oauthConf.RedirectURL)
	}

	httpServer := &http.Server{
		Addr:    callback.Host,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", callback.Host)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	authURL := oauthConf.AuthCodeURL(state, oauth2.AccessTypeOffline)

	r.writePlain("→ Opening browser for Google authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}

// AuthStatus reports whether a stored token exists and when it expires.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	creds := r.config.Credentials.YouTube
	store := server.NewTokenStore(creds.TokenPath)

	token, err := store.Load()
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			r.writePlain("✗ Not authenticated\n")
			if creds.APIKey != "" {
				r.writePlain("API key configured: search-only operations available\n")
			}
			r.writePlain("Run `ytsync auth login` to authorize\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Authenticated\n")
	r.writePlain("Token: %s\n", store.Path())
	if token.RefreshToken != "" {
		r.writePlain("Refresh token: present\n")
	}

	switch {
	case token.Expiry.IsZero():
		r.writePlain("Expiry: none\n")
	case token.Valid():
		r.writePlain("Expires: %s\n", token.Expiry.Format(time.RFC1123))
	default:
		r.writePlain("Access token expired at %s, refreshed automatically on next use\n", token.Expiry.Format(time.RFC1123))
	}

	return nil
}
