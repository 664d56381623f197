// Package fetch retrieves source documents over HTTP with disk-backed
// conditional caching (ETag / Last-Modified). A non-2xx response other than
// a 304 with a cached body is an error; scraper jobs treat that as fatal and
// leave the previous snapshot untouched.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// StatusError reports a non-2xx response from a source.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// cacheEntry holds HTTP cache metadata for a single URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Client fetches text documents with per-URL conditional caching.
type Client struct {
	http      *http.Client
	cacheDir  string
	userAgent string
	logger    *zap.Logger
}

// NewClient creates a fetch client. cacheDir is the base directory for
// per-URL cache subdirectories, e.g. "./var/fetch-cache".
func NewClient(cacheDir, userAgent string, logger *zap.Logger) *Client {
	if cacheDir == "" {
		cacheDir = "./var/fetch-cache"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		cacheDir:  cacheDir,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Text fetches url and returns the response body as a string.
//
// Cached ETag / Last-Modified values are sent as conditional headers; a 304
// answer reuses the cached body. Any other non-2xx status is a *StatusError.
// Network errors are returned as-is; there is no retry and no fallback to a
// stale cache, so a failed run never masquerades as fresh data.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", errors.New("fetch: url is empty")
	}

	cachePath := c.cachePathForURL(url)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return "", err
	}

	meta, _ := loadCacheMeta(cachePath)
	cachedBody, _ := os.ReadFile(filepath.Join(cachePath, "body"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Cache-Control", "no-store")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		if len(cachedBody) == 0 {
			return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
		}
		c.logger.Debug("fetch not modified, using cached body", zap.String("url", url))
		return string(cachedBody), nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("fetch %s: read body: %w", url, readErr)
		}
		c.saveCache(cachePath, cacheEntry{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}, body)
		c.logger.Debug("fetch ok", zap.String("url", url), zap.Int("status", resp.StatusCode), zap.Int("bytes", len(body)))
		return string(body), nil

	default:
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
}

func (c *Client) cachePathForURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.cacheDir, hex.EncodeToString(sum[:8]))
}

func loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

// saveCache is best effort: a failed cache write only costs the next run a
// full fetch.
func (c *Client) saveCache(cachePath string, meta cacheEntry, body []byte) {
	if err := os.WriteFile(filepath.Join(cachePath, "body"), body, 0o600); err != nil {
		c.logger.Warn("fetch cache body write failed", zap.String("url", meta.URL), zap.Error(err))
		return
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600); err != nil {
		c.logger.Warn("fetch cache meta write failed", zap.String("url", meta.URL), zap.Error(err))
	}
}
