package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gregjones/httpcache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ericfisherdev/gitmonitor/internal/domain/port/driven"
)

// DefaultAPIBaseURL is the public GitHub REST endpoint.
const DefaultAPIBaseURL = "https://api.github.com/"

// ErrInvalidInstallation is returned when an event carries no usable installation id.
var ErrInvalidInstallation = errors.New("invalid installation id")

// Compile-time interface satisfaction check.
var _ driven.GitHubClientFactory = (*AppClientFactory)(nil)

// AppClientFactory creates clients authenticated as GitHub App installations.
//
// Every client shares one transport stack:
//  1. otelhttp (client spans for outgoing API calls)
//  2. httpcache (ETag-based conditional request caching)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  4. ghinstallation (installation token minting and refresh, one per installation)
type AppClientFactory struct {
	baseURL string
	base    http.RoundTripper
	apps    *ghinstallation.AppsTransport

	// transports caches the installation transports so that tokens are
	// reused until they expire. Keyed by installation id.
	transports sync.Map
}

// FactoryOption configures an AppClientFactory.
type FactoryOption func(*AppClientFactory)

// WithAPIBaseURL points the factory at a GitHub Enterprise or test server.
func WithAPIBaseURL(baseURL string) FactoryOption {
	return func(f *AppClientFactory) {
		if baseURL != "" {
			f.baseURL = strings.TrimSuffix(baseURL, "/") + "/"
		}
	}
}

// WithBaseTransport replaces the network transport under the cache.
func WithBaseTransport(rt http.RoundTripper) FactoryOption {
	return func(f *AppClientFactory) {
		f.base = rt
	}
}

// NewAppClientFactory parses the App private key (PEM encoded) and builds the
// shared transport stack. A bad key fails here instead of on the first webhook.
func NewAppClientFactory(appID int64, privateKey []byte, opts ...FactoryOption) (*AppClientFactory, error) {
	f := &AppClientFactory{
		baseURL: DefaultAPIBaseURL,
		base:    http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(f)
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = otelhttp.NewTransport(f.base)
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	apps, err := ghinstallation.NewAppsTransport(rateLimitClient.Transport, appID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing github app private key: %w", err)
	}
	apps.BaseURL = strings.TrimSuffix(f.baseURL, "/")
	f.apps = apps

	return f, nil
}

// Create returns a client authenticated as the given installation.
func (f *AppClientFactory) Create(_ context.Context, installationID int64) (driven.GitHubClient, error) {
	if installationID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInstallation, installationID)
	}

	client, err := NewClientWithHTTPClient(&http.Client{Transport: f.transport(installationID)}, f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("creating client for installation %d: %w", installationID, err)
	}
	return client, nil
}

// transport returns the cached installation transport, creating it on first use.
func (f *AppClientFactory) transport(installationID int64) http.RoundTripper {
	if rt, ok := f.transports.Load(installationID); ok {
		return rt.(http.RoundTripper)
	}

	itr := ghinstallation.NewFromAppsTransport(f.apps, installationID)
	rt, _ := f.transports.LoadOrStore(installationID, itr)
	return rt.(http.RoundTripper)
}
