// Package urlguard validates outbound crawl targets against private and
// reserved address ranges (SSRF prevention) and builds HTTP clients whose
// transport re-validates the connection target immediately before each
// dial, so a DNS answer that changes between validation and connection
// cannot redirect the crawler into an internal network.
package urlguard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrBlocked is wrapped by every rejection returned from Validate and by
// the guarded dialer. Callers treat it as "do not crawl this target".
var ErrBlocked = errors.New("url blocked")

// Pre-compiled CIDR networks for reserved IPv4/IPv6 ranges not covered by
// the net.IP helper methods. Parsed once at package initialization.
var reservedNets []*net.IPNet

func init() {
	for _, cidr := range []string{
		"0.0.0.0/8",      // "this host" addresses
		"100.64.0.0/10",  // carrier-grade NAT
		"224.0.0.0/4",    // IPv4 multicast
		"fc00::/7",       // IPv6 unique local
		"fe80::/10",      // IPv6 link-local
	} {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("urlguard: invalid reserved CIDR " + cidr + ": " + err.Error())
		}
		reservedNets = append(reservedNets, n)
	}
}

// IsPrivateIP reports whether ip falls in a private or reserved range.
// It handles IPv4, IPv6, and IPv4-mapped IPv6 addresses.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}

	if v4 := ip.To4(); v4 != nil {
		ip = v4
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return true
		}
	}

	for _, n := range reservedNets {
		if n.Contains(ip) {
			return true
		}
	}

	return false
}

// Validate checks a URL before it is crawled. The scheme must be http or
// https. A literal-IP host is checked directly against the private-range
// table; a domain host is resolved and every resolved address is checked.
// A non-nil return always wraps ErrBlocked.
func Validate(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: invalid url: %v", ErrBlocked, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q not allowed", ErrBlocked, parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("%w: empty host", ErrBlocked)
	}

	lowHost := strings.ToLower(host)
	if lowHost == "localhost" || strings.HasSuffix(lowHost, ".local") || strings.HasSuffix(lowHost, ".internal") {
		return fmt.Errorf("%w: local hostname %q", ErrBlocked, host)
	}

	if ip := net.ParseIP(host); ip != nil {
		if IsPrivateIP(ip) {
			return fmt.Errorf("%w: private address %s", ErrBlocked, ip)
		}
		return nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return fmt.Errorf("%w: dns lookup for %q: %v", ErrBlocked, host, err)
	}
	for _, addr := range addrs {
		if IsPrivateIP(addr.IP) {
			return fmt.Errorf("%w: %q resolves to private address %s", ErrBlocked, host, addr.IP)
		}
	}

	return nil
}

// DialContext resolves addr, validates every candidate IP, and dials only
// validated addresses. It is the transport-level half of the guard: the
// lookup happens at connect time, for every hop of a redirect chain.
func DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid address %q: %v", ErrBlocked, addr, err)
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("%w: dns lookup for %q: %v", ErrBlocked, host, err)
	}

	for _, addr := range ips {
		if IsPrivateIP(addr.IP) {
			return nil, fmt.Errorf("%w: connection to private address %s refused", ErrBlocked, addr.IP)
		}
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	var lastErr error
	for _, addr := range ips {
		conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(addr.IP.String(), port))
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, lastErr)
	}
	return nil, fmt.Errorf("%w: no routable address for %q", ErrBlocked, host)
}

// Client returns an HTTP client whose transport dials through DialContext
// and whose redirect policy re-validates each hop (max 5 redirects).
func Client(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext:           DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (%d)", len(via))
			}
			if err := Validate(req.Context(), req.URL.String()); err != nil {
				return fmt.Errorf("redirect blocked: %w", err)
			}
			return nil
		},
	}
}
