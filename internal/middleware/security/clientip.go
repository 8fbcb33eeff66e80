package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// defaultTrustedProxies are the loopback and private ranges.
var defaultTrustedProxies = []string{
	"127.0.0.0/8",
	"::1/128",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
}

// ClientIPResolver extracts the real client IP, honoring forwarding headers
// only when the direct peer is a trusted proxy.
type ClientIPResolver struct {
	trusted []*net.IPNet
}

// NewClientIPResolver trusts the private ranges plus extra, which may hold
// CIDRs or single addresses.
func NewClientIPResolver(extra ...string) (*ClientIPResolver, error) {
	r := &ClientIPResolver{}
	for _, cidr := range append(append([]string{}, defaultTrustedProxies...), extra...) {
		if err := r.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddTrustedProxy adds a trusted proxy network
func (d *ClientIPResolver) AddTrustedProxy(cidr string) error {
	if !strings.Contains(cidr, "/") {
		ip := net.ParseIP(cidr)
		if ip == nil {
			return fmt.Errorf("invalid trusted proxy %q", cidr)
		}
		if ip.To4() != nil {
			cidr += "/32"
		} else {
			cidr += "/128"
		}
	}
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	d.trusted = append(d.trusted, network)
	return nil
}

// ClientIP returns the client address of r.
func (d *ClientIPResolver) ClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil || !d.isTrusted(parsed) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return directIP
}

func (d *ClientIPResolver) isTrusted(ip net.IP) bool {
	for _, network := range d.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
