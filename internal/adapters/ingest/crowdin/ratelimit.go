package crowdin

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// rateInfo is what crowdin reports about the request quota
type rateInfo struct {
	remaining  int // -1 when absent
	reset      time.Time
	retryAfter time.Duration
}

func parseRateHeaders(h http.Header) rateInfo {
	ri := rateInfo{remaining: -1}
	if v := strings.TrimSpace(h.Get("X-RateLimit-Remaining")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			ri.remaining = n
		}
	}
	if v := strings.TrimSpace(h.Get("X-RateLimit-Reset")); v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil && sec > 0 {
			ri.reset = time.Unix(sec, 0).UTC()
		}
	}
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			ri.retryAfter = time.Duration(sec) * time.Second
		} else if at, err := http.ParseTime(v); err == nil {
			ri.reset = at.UTC()
		}
	}
	return ri
}

// spent reports whether the quota is known to be exhausted
func (r rateInfo) spent() bool { return r.remaining == 0 }

// wait returns how long the headers ask us to hold off, zero when they say nothing
func (r rateInfo) wait(now time.Time) time.Duration {
	if r.retryAfter > 0 {
		return r.retryAfter
	}
	if !r.reset.IsZero() && r.reset.After(now) {
		return r.reset.Sub(now)
	}
	return 0
}
