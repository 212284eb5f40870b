package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID"
	corsAllowMethods = "POST, OPTIONS, GET, PUT, DELETE, PATCH"
)

// wildcardOrigin matches exactly one extra DNS label in front of suffix,
// e.g. https://*.example.com matches https://app.example.com only.
type wildcardOrigin struct {
	scheme string // "https://"
	suffix string // ".example.com"
}

// parseWildcardOrigin returns nil unless pattern is scheme://*.domain.tld
func parseWildcardOrigin(pattern string) *wildcardOrigin {
	scheme, rest, found := strings.Cut(pattern, "://")
	if !found || scheme == "" {
		return nil
	}
	if !strings.HasPrefix(rest, "*.") || strings.Count(rest, "*") != 1 {
		return nil
	}
	suffix := rest[1:]
	// need at least domain + tld after the wildcard
	if strings.Count(suffix, ".") < 2 {
		return nil
	}
	return &wildcardOrigin{scheme: scheme + "://", suffix: suffix}
}

func (w *wildcardOrigin) matches(origin string) bool {
	if !strings.HasPrefix(origin, w.scheme) {
		return false
	}
	host := strings.TrimPrefix(origin, w.scheme)
	if !strings.HasSuffix(host, w.suffix) {
		return false
	}
	label := strings.TrimSuffix(host, w.suffix)
	return label != "" && !strings.ContainsAny(label, "./:")
}

type originPolicy struct {
	allowAll  bool
	exact     map[string]struct{}
	wildcards []*wildcardOrigin
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{exact: make(map[string]struct{})}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
			continue
		case o == "*":
			p.allowAll = true
		default:
			if w := parseWildcardOrigin(o); w != nil {
				p.wildcards = append(p.wildcards, w)
				continue
			}
			p.exact[o] = struct{}{}
		}
	}
	if len(p.exact) == 0 && len(p.wildcards) == 0 {
		p.allowAll = true
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, w := range p.wildcards {
		if w.matches(origin) {
			return true
		}
	}
	return false
}

// CORS handles cross-origin requests. An empty list allows every origin
// without credentials; otherwise only listed origins (exact or
// single-label wildcard) are echoed back.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		switch {
		case policy.allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && policy.allows(origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		case c.Request.Method == http.MethodOptions:
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
