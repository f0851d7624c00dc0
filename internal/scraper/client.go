package scraper

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultIPEndpoint is the service used to look up the watcher's public IP.
const DefaultIPEndpoint = "https://api.ipify.org"

// NewHTTPClient creates the HTTP client used by scrape sources.
//
// When proxyAddress is non-empty, all connections are routed through the
// SOCKS5 proxy at that address. Operators scraping from flagged network
// ranges use this to route polling through an egress of their choosing.
func NewHTTPClient(proxyAddress string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		// Smaller pool than default: each source holds at most one
		// connection to its origin between polls.
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	if proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer for %s: %w", proxyAddress, err)
		}
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// PublicIP looks up the public IP the given client egresses from.
// The watcher logs it at startup so operators notice when their scraping
// traffic leaves through an unexpected address. Failure is informational
// only; callers should log and continue.
func PublicIP(ctx context.Context, client *http.Client, endpoint string) (string, error) {
	if endpoint == "" {
		endpoint = DefaultIPEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build IP lookup request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to look up public IP: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only response body

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("IP lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", fmt.Errorf("failed to read IP lookup response: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}
