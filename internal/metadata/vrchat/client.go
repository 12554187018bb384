// Package vrchat fetches world metadata from the public VRChat world API.
package vrchat

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/worldmarkapp/worldmark-server/internal/domain"
)

const (
	// DefaultBaseURL is the public VRChat API root.
	DefaultBaseURL = "https://vrchat.com/api/1"

	// The API rejects requests without a browser-like User-Agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultTimeout = 10 * time.Second
)

// Sentinel errors for VRChat API operations.
var (
	ErrNoWorldID   = errors.New("vrchat: no world id in url")
	ErrNotFound    = errors.New("vrchat: world not found")
	ErrRateLimited = errors.New("vrchat: rate limited by server")
	ErrServer      = errors.New("vrchat: server error")
)

// worldIDRe matches a VRChat world identifier anywhere in a URL.
var worldIDRe = regexp.MustCompile(`wrld_[A-Za-z0-9-]+`)

// ExtractWorldID pulls the first world identifier out of a world page URL.
// Returns ErrNoWorldID if the URL does not contain one.
func ExtractWorldID(rawURL string) (string, error) {
	id := worldIDRe.FindString(rawURL)
	if id == "" {
		return "", ErrNoWorldID
	}
	return id, nil
}

// Client is a rate-limited VRChat world API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a VRChat client. baseURL may be empty to use the public
// API; timeout zero means the default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		// 1 request per second, burst of 3. Unauthenticated clients get
		// throttled hard above that.
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
	}
}

// worldResponse is the subset of the world payload we care about.
type worldResponse struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	ImageURL          string `json:"imageUrl"`
	ThumbnailImageURL string `json:"thumbnailImageUrl"`
}

// FetchWorld fetches metadata for a world by its identifier.
func (c *Client) FetchWorld(ctx context.Context, worldID string) (*domain.WorldMetadata, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	reqURL := c.baseURL + "/worlds/" + worldID

	c.logger.Debug("fetching world metadata",
		"world_id", worldID,
		"url", reqURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var world worldResponse
	if err := json.UnmarshalRead(resp.Body, &world); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	imageURL := world.ImageURL
	if imageURL == "" {
		imageURL = world.ThumbnailImageURL
	}

	return &domain.WorldMetadata{
		Name:        world.Name,
		Description: world.Description,
		ImageURL:    imageURL,
	}, nil
}

// FetchByURL extracts the world identifier from a URL and fetches its
// metadata. Returns ErrNoWorldID when the URL carries no identifier.
func (c *Client) FetchByURL(ctx context.Context, rawURL string) (*domain.WorldMetadata, error) {
	worldID, err := ExtractWorldID(rawURL)
	if err != nil {
		return nil, err
	}
	return c.FetchWorld(ctx, worldID)
}
