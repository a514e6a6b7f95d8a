// Package spotify resolves 30-second preview links through the Spotify Web API.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/soundscope/internal/core/ports"
	"github.com/ewilliams-labs/soundscope/internal/logger"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	credentials clientcredentials.Config
	httpClient  *http.Client
	baseURL     string
	logger      *zap.Logger
}

// compile-time interface assertion
var _ ports.PreviewResolver = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for both the token exchange and the search.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the Web API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTokenURL overrides the accounts token endpoint.
func WithTokenURL(tokenURL string) Option {
	return func(c *Client) { c.credentials.TokenURL = tokenURL }
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logger.OrNop(l) }
}

// NewClient constructs a new Spotify client.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		credentials: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     DefaultTokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolvePreview exchanges the client credentials for a new token and
// searches for "<song> <artist>", returning the first hit's preview URL.
// Every failure is a *ports.LookupFailedError.
func (c *Client) ResolvePreview(ctx context.Context, song, artist string) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", c.lookupFailed(song, artist, "token exchange", err)
	}

	item, err := c.searchTrack(ctx, token, song, artist)
	if err != nil {
		return "", c.lookupFailed(song, artist, "search", err)
	}
	if item.PreviewURL == nil || *item.PreviewURL == "" {
		return "", c.lookupFailed(song, artist, fmt.Sprintf("track %q has no preview", item.Name), nil)
	}

	c.logger.Debug("preview resolved",
		zap.String("song", song),
		zap.String("artist", artist),
		zap.String("track_id", item.ID),
		zap.String("matched_artists", item.artistNames()),
	)
	return *item.PreviewURL, nil
}

// token performs a full client-credentials handshake. Nothing is cached
// between lookups.
func (c *Client) token(ctx context.Context) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return c.credentials.Token(ctx)
}

func (c *Client) searchTrack(ctx context.Context, token *oauth2.Token, song, artist string) (searchItem, error) {
	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return searchItem{}, fmt.Errorf("invalid search url: %w", err)
	}

	query := searchURL.Query()
	query.Set("q", song+" "+artist)
	query.Set("type", "track")
	query.Set("limit", "1")
	searchURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return searchItem{}, fmt.Errorf("failed to create search request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return searchItem{}, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return searchItem{}, fmt.Errorf("search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return searchItem{}, fmt.Errorf("search decode error: %w", err)
	}
	if len(body.Tracks.Items) == 0 {
		return searchItem{}, errors.New("no track found")
	}
	return body.Tracks.Items[0], nil
}

func (c *Client) lookupFailed(song, artist, reason string, err error) error {
	c.logger.Warn("preview lookup failed",
		zap.String("song", song),
		zap.String("artist", artist),
		zap.String("reason", reason),
		zap.Error(err),
	)
	return fmt.Errorf("spotify adapter: %w", &ports.LookupFailedError{
		Song:   song,
		Artist: artist,
		Reason: reason,
		Err:    err,
	})
}
