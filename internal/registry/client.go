// Package registry looks up published crate versions against the crates.io
// HTTP API, with an on-disk cache so repeated runs stay cheap and offline
// friendly.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"dokita/internal/version"
)

// DefaultBaseURL is the crates.io version lookup endpoint.
const DefaultBaseURL = "https://crates.io/api/v1/crates"

const requestTimeout = 30 * time.Second

// Client answers "what is the newest published version of this crate".
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	cache   *DiskCache
	log     zerolog.Logger
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithBaseURL points the client at an alternate registry endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithCache attaches a disk cache. A nil cache disables caching.
func WithCache(cache *DiskCache) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient builds a registry client with retrying transport.
func NewClient(log zerolog.Logger, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = requestTimeout
	rc.Logger = nil

	c := &Client{
		http:    rc,
		baseURL: DefaultBaseURL,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type crateResponse struct {
	Crate struct {
		MaxVersion string `json:"max_version"`
	} `json:"crate"`
	Versions []struct {
		Num    string `json:"num"`
		Yanked bool   `json:"yanked"`
	} `json:"versions"`
}

// LatestVersion returns the newest published, non-yanked version of a crate.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	if v, ok := c.cache.Get(name); ok {
		c.log.Debug().Str("crate", name).Str("version", v).Msg("registry cache hit")
		return v, nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, name), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "dokita/"+version.Version)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("registry returned status %d for crate %q", resp.StatusCode, name)
	}

	var parsed crateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode registry response for crate %q: %w", name, err)
	}

	// max_version is the registry's own "latest stable" answer. Only when
	// it is missing or points at a yanked release do we fall back to the
	// newest listed version that is neither yanked nor a pre-release.
	latest := parsed.Crate.MaxVersion
	maxYanked := false
	for _, v := range parsed.Versions {
		if v.Num == latest {
			maxYanked = v.Yanked
			break
		}
	}
	if latest == "" || maxYanked {
		latest = ""
		for _, v := range parsed.Versions {
			if v.Yanked {
				continue
			}
			if sv, err := semver.NewVersion(v.Num); err == nil && sv.Prerelease() != "" {
				continue
			}
			latest = v.Num
			break
		}
	}
	if latest == "" {
		return "", fmt.Errorf("registry response for crate %q carries no version", name)
	}

	if err := c.cache.Put(name, latest); err != nil {
		c.log.Warn().Err(err).Str("crate", name).Msg("failed to cache registry lookup")
	}
	return latest, nil
}
