package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tsukumogami/mvm/internal/config"
	"github.com/tsukumogami/mvm/internal/errs"
	"github.com/tsukumogami/mvm/internal/flavor"
	"github.com/tsukumogami/mvm/internal/httputil"
	"github.com/tsukumogami/mvm/internal/log"
)

// Client dispatches resolution to the Resolver registered for a flavor.
type Client struct {
	httpClient        *http.Client
	vanillaManifest   string
	paperProject      string
	logger            log.Logger
	resolvers         map[flavor.Flavor]Resolver
	overrideResolvers []Resolver
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the hardened default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithVanillaManifestURL points the vanilla resolver at another manifest.
func WithVanillaManifestURL(u string) Option {
	return func(cl *Client) {
		cl.vanillaManifest = u
	}
}

// WithPaperAPIURL points the paper resolver at another project endpoint.
func WithPaperAPIURL(u string) Option {
	return func(cl *Client) {
		cl.paperProject = u
	}
}

// WithLogger sets the logger handed to each resolver.
func WithLogger(l log.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// WithResolver registers r for r.Flavor(), replacing the built-in one.
func WithResolver(r Resolver) Option {
	return func(cl *Client) {
		cl.overrideResolvers = append(cl.overrideResolvers, r)
	}
}

// NewHTTPClient returns the client catalog lookups use by default. The
// timeout follows MVM_API_TIMEOUT.
func NewHTTPClient() *http.Client {
	return httputil.NewClient(httputil.ClientOptions{
		Timeout:      config.GetAPITimeout(),
		DialTimeout:  10 * time.Second,
		MaxRedirects: 5,
	})
}

// New creates a Client. Endpoints default to the MVM_* environment
// overrides or the public Mojang and PaperMC services.
func New(opts ...Option) *Client {
	c := &Client{
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = NewHTTPClient()
	}
	if c.vanillaManifest == "" {
		c.vanillaManifest = config.GetVanillaManifestURL()
	}
	if c.paperProject == "" {
		c.paperProject = config.GetPaperAPIURL()
	}

	c.resolvers = map[flavor.Flavor]Resolver{
		flavor.Vanilla: NewVanillaResolver(c.httpClient, c.vanillaManifest, c.logger),
		flavor.Paper:   NewPaperResolver(c.httpClient, c.paperProject, c.logger),
	}
	for _, r := range c.overrideResolvers {
		c.resolvers[r.Flavor()] = r
	}
	return c
}

// Resolver returns the resolver for f.
func (c *Client) Resolver(f flavor.Flavor) (Resolver, error) {
	r, ok := c.resolvers[f]
	if !ok {
		return nil, errs.Newf(errs.KindValidation, "catalog", "no catalog for flavor %s", f)
	}
	return r, nil
}

// ResolveDownload resolves token for flavor f.
func (c *Client) ResolveDownload(ctx context.Context, f flavor.Flavor, token string) (*DownloadLink, error) {
	r, err := c.Resolver(f)
	if err != nil {
		return nil, err
	}
	link, err := r.ResolveDownload(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s version %s: %w", f, token, err)
	}
	return link, nil
}

// ListVersions lists published versions for flavor f, newest first.
func (c *Client) ListVersions(ctx context.Context, f flavor.Flavor) ([]string, error) {
	r, err := c.Resolver(f)
	if err != nil {
		return nil, err
	}
	versions, err := r.ListVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s versions from %s: %w", f, r.SourceDescription(), err)
	}
	return versions, nil
}
