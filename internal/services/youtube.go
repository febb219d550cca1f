// YouTube Data API v3 implementation of [Service]
//
// Response types based on https://developers.google.com/youtube/v3/docs
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// searchResultLimit bounds one search call; the first acceptable match
	// wins, so a single page is enough.
	searchResultLimit = 10

	// subscriptionPageSize is the API maximum for subscriptions.list.
	subscriptionPageSize = 50

	// requestTimeout bounds every API call so a hung request surfaces as a
	// failed action instead of stalling the run.
	requestTimeout = 30 * time.Second
)

type resourceID struct {
	Kind      string `json:"kind"`
	ChannelID string `json:"channelId"`
}

type searchSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ChannelID   string `json:"channelId"`
}

type searchItem struct {
	ID      resourceID    `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type channelStatistics struct {
	SubscriberCount       string `json:"subscriberCount"`
	HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
}

type channelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"snippet"`
	Statistics channelStatistics `json:"statistics"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type subscriptionSnippet struct {
	Title      string     `json:"title"`
	ResourceID resourceID `json:"resourceId"`
}

type subscriptionItem struct {
	ID      string              `json:"id"`
	Snippet subscriptionSnippet `json:"snippet"`
}

type subscriptionListResponse struct {
	Items         []subscriptionItem `json:"items"`
	NextPageToken string             `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Subscription is one entry of the account's subscription list.
type Subscription struct {
	ChannelID string
	Title     string
}

// YouTubeService implements [Service] against the YouTube Data API v3.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	mode       AuthMode
	httpClient *http.Client
}

// NewYouTubeService creates a service authenticated by developer API key.
// Only search is usable in this mode.
func NewYouTubeService(apiKey string) *YouTubeService {
	return &YouTubeService{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		mode:       AuthAPIKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewYouTubeOAuthService creates a service backed by an OAuth-wrapped HTTP
// client. The client injects and refreshes the bearer token on every request.
// A client without a timeout gets the default request timeout; oauth2.NewClient
// constructs one with none.
func NewYouTubeOAuthService(client *http.Client) *YouTubeService {
	if client == nil {
		client = &http.Client{}
	}
	if client.Timeout == 0 {
		client.Timeout = requestTimeout
	}
	return &YouTubeService{
		baseURL:    defaultBaseURL,
		mode:       AuthOAuth,
		httpClient: client,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Mode reports the active authentication strategy.
func (y *YouTubeService) Mode() AuthMode {
	return y.mode
}

// SetBaseURL overrides the API base URL. Used by tests.
func (y *YouTubeService) SetBaseURL(baseURL string) {
	y.baseURL = baseURL
}

// doRequest performs one API request and decodes the response into result.
func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, params url.Values, body, result any) error {
	if params == nil {
		params = url.Values{}
	}
	if y.mode == AuthAPIKey {
		params.Set("key", y.apiKey)
	}

	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return y.decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError maps a non-2xx response to a shared sentinel.
func (y *YouTubeService) decodeError(resp *http.Response) error {
	var apiErr apiError
	detail := fmt.Sprintf("status %d", resp.StatusCode)
	reason := ""
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		detail = fmt.Sprintf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
		if len(apiErr.Error.Errors) > 0 {
			reason = apiErr.Error.Errors[0].Reason
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, detail)
	case resp.StatusCode == http.StatusForbidden &&
		(reason == "quotaExceeded" || reason == "dailyLimitExceeded"):
		return fmt.Errorf("%w: %s", shared.ErrQuotaExceeded, detail)
	default:
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, detail)
	}
}

// SearchArtist resolves a search name to a channel.
//
// Issues a channel-typed search, picks the first result whose title matches
// the query exactly or by substring (case-insensitive), then fetches channel
// statistics for the match. Returns (nil, nil) when nothing matches.
func (y *YouTubeService) SearchArtist(ctx context.Context, name string) (*models.ResolvedArtist, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", name)
	params.Set("maxResults", strconv.Itoa(searchResultLimit))

	var results searchResponse
	if err := y.doRequest(ctx, http.MethodGet, "/search", params, nil, &results); err != nil {
		return nil, fmt.Errorf("search for %q failed: %w", name, err)
	}

	match := pickChannelMatch(name, results.Items)
	if match == nil {
		return nil, nil
	}

	channelID := match.ID.ChannelID
	if channelID == "" {
		channelID = match.Snippet.ChannelID
	}

	artist := &models.ResolvedArtist{
		Name:        match.Snippet.Title,
		ChannelID:   channelID,
		Description: match.Snippet.Description,
		ResolvedAt:  time.Now().UTC(),
	}

	// Statistics are informational; a failure here does not void the match.
	if channel, err := y.channelByID(ctx, channelID); err == nil && channel != nil {
		artist.SubscriberCount = parseSubscriberCount(channel.Statistics)
		if channel.Snippet.Description != "" {
			artist.Description = channel.Snippet.Description
		}
	}

	return artist, nil
}

// channelByID fetches one channel's snippet and statistics.
func (y *YouTubeService) channelByID(ctx context.Context, channelID string) (*channelItem, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)

	var response channelListResponse
	if err := y.doRequest(ctx, http.MethodGet, "/channels", params, nil, &response); err != nil {
		return nil, err
	}
	if len(response.Items) == 0 {
		return nil, nil
	}
	return &response.Items[0], nil
}

// ListSubscriptions pages through the authenticated account's subscriptions
// and returns the set of subscribed channel IDs.
func (y *YouTubeService) ListSubscriptions(ctx context.Context) (models.SubscriptionSet, error) {
	subscriptions, err := y.Subscriptions(ctx)
	if err != nil {
		return nil, err
	}

	set := models.NewSubscriptionSet()
	for _, sub := range subscriptions {
		set.Add(sub.ChannelID)
	}
	return set, nil
}

// Subscriptions returns the full subscription list with channel titles,
// paging at the API maximum of 50 entries per call.
func (y *YouTubeService) Subscriptions(ctx context.Context) ([]Subscription, error) {
	if y.mode != AuthOAuth {
		return nil, fmt.Errorf("%w: listing subscriptions requires OAuth", shared.ErrNotAuthenticated)
	}

	var subscriptions []Subscription
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("mine", "true")
		params.Set("maxResults", strconv.Itoa(subscriptionPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page subscriptionListResponse
		if err := y.doRequest(ctx, http.MethodGet, "/subscriptions", params, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}

		for _, item := range page.Items {
			if item.Snippet.ResourceID.ChannelID == "" {
				continue
			}
			subscriptions = append(subscriptions, Subscription{
				ChannelID: item.Snippet.ResourceID.ChannelID,
				Title:     item.Snippet.Title,
			})
		}

		if page.NextPageToken == "" {
			return subscriptions, nil
		}
		pageToken = page.NextPageToken
	}
}

// Subscribe subscribes the authenticated account to the given channel.
func (y *YouTubeService) Subscribe(ctx context.Context, channelID string) error {
	if y.mode != AuthOAuth {
		return fmt.Errorf("%w: subscribing requires OAuth", shared.ErrNotAuthenticated)
	}
	if channelID == "" {
		return fmt.Errorf("%w: empty channel ID", shared.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("part", "snippet")

	body := map[string]any{
		"snippet": map[string]any{
			"resourceId": map[string]any{
				"kind":      "youtube#channel",
				"channelId": channelID,
			},
		},
	}

	if err := y.doRequest(ctx, http.MethodPost, "/subscriptions", params, body, nil); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channelID, err)
	}
	return nil
}

// pickChannelMatch selects the first result whose title matches the query,
// comparing normalized forms. Exact matches beat substring matches; within
// each tier the API's relevance order decides.
func pickChannelMatch(query string, items []searchItem) *searchItem {
	want := shared.NormalizeArtistKey(query)
	if want == "" {
		return nil
	}

	var substring *searchItem
	for i := range items {
		got := shared.NormalizeArtistKey(items[i].Snippet.Title)
		if got == "" {
			continue
		}
		if got == want {
			return &items[i]
		}
		if substring == nil && (strings.Contains(got, want) || strings.Contains(want, got)) {
			substring = &items[i]
		}
	}
	return substring
}

// parseSubscriberCount reads the subscriber count, which the API reports as
// a decimal string. Hidden counts read as zero.
func parseSubscriberCount(stats channelStatistics) int64 {
	if stats.HiddenSubscriberCount || stats.SubscriberCount == "" {
		return 0
	}
	count, err := strconv.ParseInt(stats.SubscriberCount, 10, 64)
	if err != nil {
		return 0
	}
	return count
}
