package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/ytsync/internal/shared"
)

func searchItemJSON(channelID, title, description string) map[string]any {
	return map[string]any{
		"id": map[string]any{"kind": "youtube#channel", "channelId": channelID},
		"snippet": map[string]any{
			"title":       title,
			"description": description,
			"channelId":   channelID,
		},
	}
}

func newTestService(t *testing.T, mode AuthMode, handler http.HandlerFunc) *YouTubeService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var svc *YouTubeService
	if mode == AuthOAuth {
		svc = NewYouTubeOAuthService(server.Client())
	} else {
		svc = NewYouTubeService("test-key")
	}
	svc.SetBaseURL(server.URL)
	return svc
}

func TestSearchArtist(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match beats earlier substring match", func(t *testing.T) {
		svc := newTestService(t, AuthAPIKey, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/search":
				if got := r.URL.Query().Get("type"); got != "channel" {
					t.Errorf("expected type=channel, got %s", got)
				}
				if got := r.URL.Query().Get("key"); got != "test-key" {
					t.Errorf("expected API key query param, got %q", got)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{
						searchItemJSON("UCcover", "Tool Covers Collective", "covers"),
						searchItemJSON("UCtool", "TOOL", "official channel"),
					},
				})
			case "/channels":
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{{
						"id":      "UCtool",
						"snippet": map[string]any{"title": "TOOL", "description": "official channel"},
						"statistics": map[string]any{
							"subscriberCount":       "2500000",
							"hiddenSubscriberCount": false,
						},
					}},
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		artist, err := svc.SearchArtist(ctx, "Tool")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if artist == nil {
			t.Fatal("expected a match")
		}
		if artist.ChannelID != "UCtool" {
			t.Errorf("expected channel UCtool, got %s", artist.ChannelID)
		}
		if artist.SubscriberCount != 2500000 {
			t.Errorf("expected subscriber count 2500000, got %d", artist.SubscriberCount)
		}
	})

	t.Run("substring match when no exact title", func(t *testing.T) {
		svc := newTestService(t, AuthAPIKey, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/search" {
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{
						searchItemJSON("UCnin", "Nine Inch Nails Official", ""),
					},
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{}})
		})

		artist, err := svc.SearchArtist(ctx, "nine inch nails")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if artist == nil || artist.ChannelID != "UCnin" {
			t.Fatalf("expected substring match on UCnin, got %+v", artist)
		}
	})

	t.Run("no acceptable match returns nil without error", func(t *testing.T) {
		svc := newTestService(t, AuthAPIKey, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					searchItemJSON("UCother", "Completely Unrelated", ""),
				},
			})
		})

		artist, err := svc.SearchArtist(ctx, "Autechre")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if artist != nil {
			t.Errorf("expected no match, got %+v", artist)
		}
	})

	t.Run("hidden subscriber count reads as zero", func(t *testing.T) {
		svc := newTestService(t, AuthAPIKey, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/search" {
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{searchItemJSON("UCx", "Burial", "")},
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{
					"id": "UCx",
					"statistics": map[string]any{
						"subscriberCount":       "12345",
						"hiddenSubscriberCount": true,
					},
				}},
			})
		})

		artist, err := svc.SearchArtist(ctx, "Burial")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if artist.SubscriberCount != 0 {
			t.Errorf("expected hidden count to read as 0, got %d", artist.SubscriberCount)
		}
	})

	t.Run("quota error surfaces as ErrQuotaExceeded", func(t *testing.T) {
		svc := newTestService(t, AuthAPIKey, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"code":    403,
					"message": "quota exceeded",
					"errors":  []map[string]any{{"reason": "quotaExceeded"}},
				},
			})
		})

		_, err := svc.SearchArtist(ctx, "Tool")
		if !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Errorf("expected ErrQuotaExceeded, got %v", err)
		}
	})

	t.Run("unauthorized surfaces as ErrAuthFailed", func(t *testing.T) {
		svc := newTestService(t, AuthAPIKey, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 401, "message": "invalid credentials"},
			})
		})

		_, err := svc.SearchArtist(ctx, "Tool")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}

func TestListSubscriptions(t *testing.T) {
	ctx := context.Background()

	t.Run("pages until next token is empty", func(t *testing.T) {
		var pages []string
		svc := newTestService(t, AuthOAuth, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/subscriptions" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("mine"); got != "true" {
				t.Errorf("expected mine=true, got %q", got)
			}
			if got := r.URL.Query().Get("maxResults"); got != "50" {
				t.Errorf("expected maxResults=50, got %q", got)
			}

			token := r.URL.Query().Get("pageToken")
			pages = append(pages, token)

			if token == "" {
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{
						{"snippet": map[string]any{
							"title":      "Tool",
							"resourceId": map[string]any{"channelId": "UCa"},
						}},
					},
					"nextPageToken": "page2",
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"snippet": map[string]any{
						"title":      "Deftones",
						"resourceId": map[string]any{"channelId": "UCb"},
					}},
				},
			})
		})

		set, err := svc.ListSubscriptions(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Len() != 2 {
			t.Errorf("expected 2 subscriptions, got %d", set.Len())
		}
		if !set.Contains("UCa") || !set.Contains("UCb") {
			t.Error("expected both channel IDs in the set")
		}
		if len(pages) != 2 {
			t.Errorf("expected 2 page fetches, got %d", len(pages))
		}
	})

	t.Run("API key mode fails fast", func(t *testing.T) {
		svc := NewYouTubeService("test-key")
		if _, err := svc.ListSubscriptions(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the channel resource", func(t *testing.T) {
		var body map[string]any
		svc := newTestService(t, AuthOAuth, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]any{"id": "sub1"})
		})

		if err := svc.Subscribe(ctx, "UCtool"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		snippet := body["snippet"].(map[string]any)
		resource := snippet["resourceId"].(map[string]any)
		if resource["channelId"] != "UCtool" {
			t.Errorf("expected channelId UCtool, got %v", resource["channelId"])
		}
		if resource["kind"] != "youtube#channel" {
			t.Errorf("expected kind youtube#channel, got %v", resource["kind"])
		}
	})

	t.Run("API key mode fails fast", func(t *testing.T) {
		svc := NewYouTubeService("test-key")
		if err := svc.Subscribe(ctx, "UCtool"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("empty channel ID rejected", func(t *testing.T) {
		svc := newTestService(t, AuthOAuth, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		if err := svc.Subscribe(ctx, ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestPickChannelMatch(t *testing.T) {
	items := []searchItem{
		{ID: resourceID{ChannelID: "UC1"}, Snippet: searchSnippet{Title: "Faith No More Fans"}},
		{ID: resourceID{ChannelID: "UC2"}, Snippet: searchSnippet{Title: "Faith No More"}},
	}

	t.Run("exact wins over earlier substring", func(t *testing.T) {
		match := pickChannelMatch("faith no more", items)
		if match == nil || match.ID.ChannelID != "UC2" {
			t.Fatalf("expected UC2, got %+v", match)
		}
	})

	t.Run("case and spacing insensitive", func(t *testing.T) {
		match := pickChannelMatch("FAITH  NO  MORE", items)
		if match == nil || match.ID.ChannelID != "UC2" {
			t.Fatalf("expected UC2, got %+v", match)
		}
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		if match := pickChannelMatch("  ", items); match != nil {
			t.Errorf("expected nil, got %+v", match)
		}
	})

	t.Run("empty result titles are skipped", func(t *testing.T) {
		blank := []searchItem{{ID: resourceID{ChannelID: "UCblank"}}}
		if match := pickChannelMatch("anything", blank); match != nil {
			t.Errorf("expected nil, got %+v", match)
		}
	})
}

func TestClientTimeouts(t *testing.T) {
	t.Run("API key client is bounded", func(t *testing.T) {
		svc := NewYouTubeService("test-key")
		if svc.httpClient.Timeout != requestTimeout {
			t.Errorf("expected timeout %v, got %v", requestTimeout, svc.httpClient.Timeout)
		}
	})

	t.Run("OAuth client without a timeout gets the default", func(t *testing.T) {
		// oauth2.NewClient builds a client with no Timeout set
		svc := NewYouTubeOAuthService(&http.Client{})
		if svc.httpClient.Timeout != requestTimeout {
			t.Errorf("expected timeout %v, got %v", requestTimeout, svc.httpClient.Timeout)
		}
	})

	t.Run("OAuth client keeps an explicit timeout", func(t *testing.T) {
		svc := NewYouTubeOAuthService(&http.Client{Timeout: time.Minute})
		if svc.httpClient.Timeout != time.Minute {
			t.Errorf("expected explicit timeout to be kept, got %v", svc.httpClient.Timeout)
		}
	})

	t.Run("nil OAuth client gets a bounded client", func(t *testing.T) {
		svc := NewYouTubeOAuthService(nil)
		if svc.httpClient == nil || svc.httpClient.Timeout == 0 {
			t.Error("expected a bounded client")
		}
	})
}
