// Package tor routes suggestion traffic through a local Tor daemon. Client
// dials through the SOCKS port; Controller requests fresh circuits over the
// control port.
package tor

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"

	"github.com/mkarczewski/keysheet"
)

// DefaultSOCKSAddr is the standard Tor SOCKS port.
const DefaultSOCKSAddr = "127.0.0.1:9050"

// Client wraps a SOCKS5 dialer over a running Tor daemon. The daemon is
// assumed to be managed externally; NewClient does not verify it is up.
type Client struct {
	socksAddr string
	dialer    proxy.Dialer
	timeout   time.Duration
}

// NewClient creates a Client for the Tor SOCKS proxy at socksAddr
// ("host:port"). The timeout bounds requests made by HTTPClient.
func NewClient(socksAddr string, timeout time.Duration) (*Client, error) {
	if err := validateAddr(socksAddr); err != nil {
		return nil, err
	}
	// Tor's SOCKS port does not require auth.
	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "creating SOCKS5 dialer: %v", err)
	}
	return &Client{socksAddr: socksAddr, dialer: dialer, timeout: timeout}, nil
}

// SOCKSAddr returns the configured SOCKS proxy address.
func (c *Client) SOCKSAddr() string { return c.socksAddr }

// HTTPClient returns an HTTP client that routes every connection through the
// Tor SOCKS proxy.
func (c *Client) HTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return c.dialContext(ctx, network, addr)
		},
		// Each connection consumes a circuit, so keep the idle pool small.
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}
}

// dialContext adapts the context-free proxy.Dialer. On cancellation the
// in-flight dial is abandoned, not aborted.
func (c *Client) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := c.dialer.Dial(network, addr)
		ch <- result{conn, err}
	}()
	select {
	case r := <-ch:
		return r.conn, r.err
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.conn != nil {
				r.conn.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

// validateAddr checks for "host:port" with a port in range.
func validateAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return keysheet.Errorf(keysheet.EINVALID, "Invalid Tor address %q: expected host:port.", addr)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return keysheet.Errorf(keysheet.EINVALID, "Invalid Tor address %q: bad port.", addr)
	}
	return nil
}
