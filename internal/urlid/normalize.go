// Package urlid turns arbitrary job posting URLs into stable identities.
//
// Two URLs that differ only by tracking parameters, query parameter order or
// letter case normalize to the same string and therefore hash to the same
// identity. Normalization never fails: input that is not an absolute URL
// degrades to its lowercased raw form.
package urlid

import (
	"net/url"
	"sort"
	"strings"
)

// Normalizer canonicalizes raw URLs into comparison keys.
type Normalizer struct {
	tracking map[string]struct{}
}

// NewNormalizer creates a Normalizer that strips the default tracking
// parameters plus any extra parameter names given.
func NewNormalizer(extraParams ...string) *Normalizer {
	n := &Normalizer{tracking: make(map[string]struct{})}
	for _, p := range DefaultTrackingParams() {
		n.tracking[p] = struct{}{}
	}
	for _, p := range extraParams {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			n.tracking[p] = struct{}{}
		}
	}
	return n
}

var defaultNormalizer = NewNormalizer()

// Normalize canonicalizes rawURL with the default tracking parameter list.
func Normalize(rawURL string) string {
	return defaultNormalizer.Normalize(rawURL)
}

// IsTracking reports whether a query parameter name is stripped.
func (n *Normalizer) IsTracking(name string) bool {
	_, ok := n.tracking[strings.ToLower(name)]
	return ok
}

type queryParam struct {
	name  string
	value string
}

// Normalize rebuilds rawURL as scheme://host/path[?query] with tracking
// parameters removed, the remaining parameters sorted, one trailing slash
// stripped from non-root paths, and the whole result lowercased.
func (n *Normalizer) Normalize(rawURL string) string {
	u, ok := parseAbsolute(rawURL)
	if !ok {
		return strings.ToLower(rawURL)
	}

	// Sort on the lowercased form so a second pass yields the same order.
	params := n.keptParams(u.RawQuery)
	sort.SliceStable(params, func(i, j int) bool {
		ni, nj := strings.ToLower(params[i].name), strings.ToLower(params[j].name)
		if ni != nj {
			return ni < nj
		}
		return strings.ToLower(params[i].value) < strings.ToLower(params[j].value)
	})

	path := strings.TrimSuffix(u.EscapedPath(), "/")
	if path == "" {
		path = "/"
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(hostname(u))
	b.WriteString(path)

	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}

	return strings.ToLower(b.String())
}

// keptParams splits a raw query into decoded name/value pairs, dropping
// tracking parameters. Malformed escapes are kept verbatim.
func (n *Normalizer) keptParams(rawQuery string) []queryParam {
	var params []queryParam
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name = unescapeOrRaw(name)
		if n.IsTracking(name) {
			continue
		}
		params = append(params, queryParam{name: name, value: unescapeOrRaw(value)})
	}
	return params
}

func unescapeOrRaw(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

// parseAbsolute parses rawURL and reports whether it has both a scheme and a host.
func parseAbsolute(rawURL string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

// hostname returns the host without port, keeping brackets around IPv6 literals.
func hostname(u *url.URL) string {
	h := u.Hostname()
	if strings.Contains(h, ":") {
		return "[" + h + "]"
	}
	return h
}

// Domain extracts the lowercased hostname from a URL string. It returns an
// empty string when rawURL is not an absolute URL.
func Domain(rawURL string) string {
	u, ok := parseAbsolute(rawURL)
	if !ok {
		return ""
	}
	return strings.ToLower(hostname(u))
}
