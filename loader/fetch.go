package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/time/rate"
)

// Fetcher resolves a locator to byte content.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, locator string) (io.ReadCloser, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	return f(ctx, locator)
}

// scheme returns the lowercased URL scheme of locator, or "" for plain paths.
func scheme(locator string) string {
	before, _, ok := strings.Cut(locator, "://")
	if !ok {
		return ""
	}
	return strings.ToLower(before)
}

// locatorPath returns the path component of locator, used for extension
// detection.
func locatorPath(locator string) string {
	if scheme(locator) == "" {
		return locator
	}
	u, err := url.Parse(locator)
	if err != nil {
		return locator
	}
	return u.Path
}

// FileFetcher reads local files. Relative paths resolve against BaseDir.
type FileFetcher struct {
	BaseDir string
}

// Fetch implements Fetcher.
func (f *FileFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(locator, "file://")
	if !filepath.IsAbs(path) && f.BaseDir != "" {
		path = filepath.Join(f.BaseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return file, nil
}

// HTTPFetcher downloads documents over HTTP(S). Requests are paced by an
// optional rate limiter.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher creates an HTTP fetcher. A non-positive requestsPerSecond
// disables rate limiting.
func NewHTTPFetcher(timeout time.Duration, requestsPerSecond float64, burst int) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
	if requestsPerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
	return f
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch document: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// S3Config configures access to an S3-compatible object store.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// S3Fetcher reads documents addressed as s3://bucket/key.
type S3Fetcher struct {
	client *minio.Client
}

// NewS3Fetcher creates a fetcher for the configured endpoint. No request is
// made until the first Fetch.
func NewS3Fetcher(cfg S3Config) (*S3Fetcher, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &S3Fetcher{client: client}, nil
}

// Fetch implements Fetcher.
func (f *S3Fetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	bucket, key, err := parseS3Locator(locator)
	if err != nil {
		return nil, err
	}

	obj, err := f.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing object before parsing.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("stat object %s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

// parseS3Locator splits s3://bucket/key.
func parseS3Locator(locator string) (bucket, key string, err error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 locator: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("invalid s3 locator %q: scheme must be s3", locator)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 locator %q: want s3://bucket/key", locator)
	}
	return u.Host, key, nil
}
