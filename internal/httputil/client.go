// Package httputil builds the HTTP client mvm uses for catalog lookups and
// server.jar downloads, and maps HTTP responses onto mvm's error kinds.
package httputil

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tsukumogami/mvm/internal/buildinfo"
)

// ClientOptions configures the client.
type ClientOptions struct {
	// Timeout is the overall request timeout, body included. Default: 30s.
	Timeout time.Duration

	// DialTimeout is the TCP dial timeout. Default: 30s.
	DialTimeout time.Duration

	// TLSHandshakeTimeout is the TLS handshake timeout. Default: 10s.
	TLSHandshakeTimeout time.Duration

	// ResponseHeaderTimeout is the time to wait for response headers. Default: 15s.
	ResponseHeaderTimeout time.Duration

	// MaxRedirects is the maximum redirect depth. Default: 10.
	MaxRedirects int

	// UserAgent is sent on every request. Default: "mvm/<build version>".
	UserAgent string
}

// DefaultOptions returns the default client options.
func DefaultOptions() ClientOptions {
	return ClientOptions{
		Timeout:               30 * time.Second,
		DialTimeout:           30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		MaxRedirects:          10,
		UserAgent:             DefaultUserAgent(),
	}
}

// DefaultUserAgent identifies mvm to Mojang and PaperMC.
func DefaultUserAgent() string {
	return "mvm/" + buildinfo.Version()
}

// NewClient creates an HTTP client for catalog and artifact traffic.
//
// Redirects are followed only to HTTPS targets that do not resolve to
// private, loopback or link-local addresses. Compression is left off: the
// artifacts are already compressed jars and the catalogs are small.
func NewClient(opts ClientOptions) *http.Client {
	def := DefaultOptions()
	if opts.Timeout == 0 {
		opts.Timeout = def.Timeout
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = def.DialTimeout
	}
	if opts.TLSHandshakeTimeout == 0 {
		opts.TLSHandshakeTimeout = def.TLSHandshakeTimeout
	}
	if opts.ResponseHeaderTimeout == 0 {
		opts.ResponseHeaderTimeout = def.ResponseHeaderTimeout
	}
	if opts.MaxRedirects == 0 {
		opts.MaxRedirects = def.MaxRedirects
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}

	base := &http.Transport{
		Proxy:              http.ProxyFromEnvironment,
		DisableCompression: true,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.TLSHandshakeTimeout,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{
		Timeout:       opts.Timeout,
		Transport:     &userAgentTransport{base: base, agent: opts.UserAgent},
		CheckRedirect: redirectPolicy(opts.MaxRedirects),
	}
}

// userAgentTransport stamps the User-Agent header without mutating the
// caller's request.
type userAgentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.base.RoundTrip(req)
}

func redirectPolicy(maxRedirects int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if req.URL.Scheme != "https" {
			return fmt.Errorf("redirect to non-HTTPS URL is not allowed: %s", req.URL)
		}
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}

		host := req.URL.Hostname()
		if ip := net.ParseIP(host); ip != nil {
			return checkRedirectIP(ip, host)
		}

		// Resolve and check every address so a rebinding DNS answer cannot
		// smuggle a private target.
		ips, err := net.LookupIP(host)
		if err != nil {
			return fmt.Errorf("failed to resolve redirect host %s: %w", host, err)
		}
		for _, ip := range ips {
			if err := checkRedirectIP(ip, host); err != nil {
				return err
			}
		}
		return nil
	}
}

func checkRedirectIP(ip net.IP, host string) error {
	var reason string
	switch {
	case ip.IsPrivate():
		reason = "private"
	case ip.IsLoopback():
		reason = "loopback"
	case ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
		reason = "link-local"
	case ip.IsMulticast():
		reason = "multicast"
	case ip.IsUnspecified():
		reason = "unspecified"
	default:
		return nil
	}
	return fmt.Errorf("refusing redirect to %s address: %s (%s)", reason, host, ip)
}
