// Package guard decides which remote hosts the server is willing to fetch.
//
// The private-network check is a hostname pattern heuristic. Hostnames are
// never resolved, so a public name that points at a private address passes.
package guard

import (
	"net/url"
	"strings"
)

var DefaultDomains = []string{
	// Behance / Adobe
	"behance.net",
	"behance.com",
	"adobe.io",
	"adobe.com",
	// Dribbble
	"dribbble.com",
	"dribbbleusercontent.com",
	// YouTube
	"youtube.com",
	"youtu.be",
	"ytimg.com",
	"googlevideo.com",
	"ggpht.com",
	// Instagram
	"instagram.com",
	"cdninstagram.com",
	"fbcdn.net",
	// TikTok
	"tiktok.com",
	"tiktokcdn.com",
	"tiktokcdn-us.com",
	"tiktokv.com",
	// Video hosting
	"vimeo.com",
	"vimeocdn.com",
	"vumbnail.com",
	"akamaized.net",
}

type Guard struct {
	domains []string
}

// New returns a Guard accepting the default domains plus extra.
func New(extra ...string) *Guard {
	domains := make([]string, 0, len(DefaultDomains)+len(extra))
	domains = append(domains, DefaultDomains...)
	for _, d := range extra {
		d = strings.ToLower(strings.Trim(strings.TrimSpace(d), "."))
		if d != "" {
			domains = append(domains, d)
		}
	}
	return &Guard{domains: domains}
}

var Default = New()

func IsAllowed(raw string) bool {
	return Default.IsAllowed(raw)
}

// IsAllowed reports whether raw is an http(s) URL on a public host that is
// one of the allowed domains or a subdomain of one.
func (g *Guard) IsAllowed(raw string) bool {
	host, ok := publicHost(raw)
	if !ok {
		return false
	}
	for _, d := range g.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// IsPublicInput is the looser check for user supplied page URLs: any host is
// accepted as long as it is http(s) and does not look local or private.
func IsPublicInput(raw string) bool {
	_, ok := publicHost(raw)
	return ok
}

func publicHost(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" || IsLocalHost(host) {
		return "", false
	}
	return host, true
}

// IsLocalHost matches loopback and private network host patterns.
func IsLocalHost(host string) bool {
	host = strings.ToLower(strings.Trim(host, "[]"))
	switch host {
	case "localhost", "0.0.0.0", "::", "::1":
		return true
	}
	if strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return true
	}
	for _, prefix := range []string{"127.", "10.", "192.168.", "169.254."} {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	if strings.HasPrefix(host, "172.") {
		parts := strings.SplitN(host, ".", 3)
		if len(parts) >= 2 {
			switch parts[1] {
			case "16", "17", "18", "19", "20", "21", "22", "23",
				"24", "25", "26", "27", "28", "29", "30", "31":
				return true
			}
		}
	}
	if strings.HasPrefix(host, "fc") || strings.HasPrefix(host, "fd") || strings.HasPrefix(host, "fe80:") {
		return strings.Contains(host, ":")
	}
	return false
}
