// Package http provides HTTP-backed implementations of keysheet.Source, one
// per upstream autosuggest provider. A shared Client carries the session
// configuration: request timeout, user-agent rotation, and per-request proxy
// selection.
package http

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkarczewski/keysheet"
)

// DefaultTimeout is the default bound on a single suggestion request.
const DefaultTimeout = 10 * time.Second

// userAgents is the pool rotated across requests to avoid trivial
// fingerprinting by upstream providers.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// Client is the shared HTTP session used by the suggestion sources.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	rotator   keysheet.ProxyRotator
	proxyType keysheet.ProxyType
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithProxies routes every request through the next endpoint from the
// rotator. SOCKS5 endpoints are dialed via the transport's socks5 scheme
// support; HTTPS endpoints are used as plain HTTP proxies.
func WithProxies(rotator keysheet.ProxyRotator, typ keysheet.ProxyType) Option {
	return func(c *Client) {
		c.rotator = rotator
		c.proxyType = typ
	}
}

// WithHTTPClient replaces the underlying client entirely, e.g. with one
// routed through Tor. Proxy rotation options are ignored in that case.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		transport := &http.Transport{Proxy: c.proxyURL}
		c.http = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
		}
	}
	return c
}

// proxyURL selects the proxy for one outgoing request, advancing the shared
// rotation cursor. A nil URL means a direct connection.
func (c *Client) proxyURL(*http.Request) (*url.URL, error) {
	if c.rotator == nil {
		return nil, nil
	}
	endpoint, ok := c.rotator.Next()
	if !ok {
		return nil, nil
	}
	scheme := "http"
	if c.proxyType == keysheet.ProxySOCKS5 {
		scheme = "socks5"
	}
	if strings.Contains(endpoint, "://") {
		return url.Parse(endpoint)
	}
	return &url.URL{Scheme: scheme, Host: endpoint}, nil
}

// getJSON performs a GET request and decodes the JSON response into v.
// Failures are classified per the source contract: EUNAVAILABLE for
// network/timeout errors, EUPSTREAM for non-200 statuses, EINTERNAL for
// unparsable payloads.
func (c *Client) getJSON(req *http.Request, v any) error {
	body, err := c.get(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return keysheet.Errorf(keysheet.EINTERNAL, "decoding %s response: %v", req.URL.Host, err)
	}
	return nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EUNAVAILABLE, "querying %s: %v", req.URL.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, keysheet.Errorf(keysheet.EUPSTREAM, "%s returned HTTP %d", req.URL.Host, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EUNAVAILABLE, "reading %s response: %v", req.URL.Host, err)
	}
	return body, nil
}

// filterSuggestions normalizes provider output: trims entries, drops empties
// and the query's own echo, and caps the result count.
func filterSuggestions(keyword keysheet.Keyword, items []string, limit int) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" || s == keyword.String() {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
