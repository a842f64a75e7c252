package api

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/ratelimit"
	"github.com/partydeck/partydeck-server/internal/service"
)

// RateLimiter is the per-IP token bucket guarding the login route.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a new rate limiter.
// rate: number of requests allowed per interval
// interval: time period for rate (e.g., time.Minute)
// burst: maximum burst size
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	// 20 per minute = 20/60 = 0.333 rps
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// loginRateLimit is a huma operation middleware that refuses bursts of login
// requests from one address before they reach the database-backed lockout.
func (s *Server) loginRateLimit(ctx huma.Context, next func(huma.Context)) {
	if s.loginLimiter == nil {
		next(ctx)
		return
	}

	ip := getClientIPFromContext(ctx.Context())
	if !s.loginLimiter.Allow(ip) {
		s.logger.Warn("Login rate limit exceeded",
			"ip", ip,
			"path", ctx.URL().Path,
		)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, service.MsgTooManyAttempts,
			domainerrors.TooManyRequests(service.MsgTooManyAttempts))
		return
	}

	next(ctx)
}

// clientIP returns the address login limits are keyed on. It is the TCP
// peer unless that peer is a trusted proxy, in which case X-Forwarded-For
// is walked from the right past further trusted hops, then X-Real-IP.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := remoteHost(r.RemoteAddr)
	if !isTrusted(peer, trusted) {
		return peer
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !isTrusted(hop, trusted) || i == 0 {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return peer
}

func remoteHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
