package muxhandlers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/vitalvas/swagdoc/mux"
)

// ErrInvalidProxy is returned when a trusted proxy entry is neither an IP
// address nor a CIDR range.
var ErrInvalidProxy = errors.New("proxy headers: invalid proxy entry")

// DefaultTrustedProxies are the loopback and private ranges trusted when
// ProxyHeadersConfig.TrustedProxies is empty.
var DefaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"::1/128",
	"fc00::/7",
}

// ProxyHeadersConfig configures ProxyHeadersMiddleware.
type ProxyHeadersConfig struct {
	// TrustedProxies lists addresses and CIDR ranges whose forwarding
	// headers are honored (default: DefaultTrustedProxies).
	TrustedProxies []string
}

// ProxyHeadersMiddleware rewrites the scheme, host and remote address of
// requests received from a trusted proxy, so that the documentation
// endpoints resolve basePath against the URL the client used.
//
//   - r.URL.Scheme from X-Forwarded-Proto, then X-Forwarded-Scheme
//   - r.Host from X-Forwarded-Host
//   - r.RemoteAddr from the leftmost X-Forwarded-For address
func ProxyHeadersMiddleware(cfg ProxyHeadersConfig) (mux.MiddlewareFunc, error) {
	entries := cfg.TrustedProxies
	if len(entries) == 0 {
		entries = DefaultTrustedProxies
	}

	trusted, err := parsePrefixes(entries)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !peerTrusted(r.RemoteAddr, trusted) {
				next.ServeHTTP(w, r)
				return
			}

			if scheme := forwardedScheme(r.Header); scheme != "" {
				u := *r.URL
				u.Scheme = scheme
				r.URL = &u
			}

			if host := firstValue(r.Header.Get("X-Forwarded-Host")); host != "" {
				r.Host = host
			}

			for part := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
				if addr, err := netip.ParseAddr(strings.TrimSpace(part)); err == nil {
					r.RemoteAddr = addr.String()
					break
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func parsePrefixes(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func peerTrusted(remoteAddr string, trusted []netip.Prefix) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// forwardedScheme returns "http" or "https" from the first forwarding
// header present, or "" when it carries anything else.
func forwardedScheme(h http.Header) string {
	for _, name := range []string{"X-Forwarded-Proto", "X-Forwarded-Scheme"} {
		value := h.Get(name)
		if value == "" {
			continue
		}
		switch scheme := strings.ToLower(firstValue(value)); scheme {
		case "http", "https":
			return scheme
		default:
			return ""
		}
	}
	return ""
}

func firstValue(value string) string {
	first, _, _ := strings.Cut(value, ",")
	return strings.TrimSpace(first)
}
