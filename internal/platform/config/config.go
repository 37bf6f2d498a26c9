// Package config handles application configuration via environment variables
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"conflux/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g., "CORE_REWARD_")
// Use New() for global access, or Prefix("CORE_API_") for module scopes
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// raw returns the trimmed value for key, empty when unset
func (c Conf) raw(key string) string { return strings.TrimSpace(os.Getenv(c.key(key))) }

// Has reports whether key is set to a non blank value
func (c Conf) Has(key string) bool { return c.raw(key) != "" }

// must returns the value for key or panics when it is blank
func (c Conf) must(key string) string {
	v := c.raw(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// mustParse panics with hint when parse rejects the required value
func mustParse[T any](c Conf, key, hint string, parse func(string) (T, error)) T {
	s := c.must(key)
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg(hint)
	}
	return v
}

// mayParse returns def when key is blank, and warns then returns def when parse fails
func mayParse[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s := c.raw(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msg("invalid " + kind + "; using default")
		return def
	}
	return v
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string { return c.must(key) }

// MustInt panics if the given key is missing, empty, or not an int
func (c Conf) MustInt(key string) int { return mustParse(c, key, "invalid int value", strconv.Atoi) }

// MustInt64 panics if the given key is missing, empty, or not a 64 bit int
func (c Conf) MustInt64(key string) int64 { return mustParse(c, key, "invalid int64 value", parseInt64) }

// MustBool panics if the given key is missing, empty, or not a bool
func (c Conf) MustBool(key string) bool {
	return mustParse(c, key, "invalid bool value", strconv.ParseBool)
}

// MustDuration panics if the given key is missing, empty, or not a valid duration
func (c Conf) MustDuration(key string) time.Duration {
	return mustParse(c, key, "invalid duration (e.g., 250ms, 2s, 1h)", time.ParseDuration)
}

// MustURL panics if the given key is missing, empty, or not a valid absolute URL
func (c Conf) MustURL(key string) *url.URL {
	return mustParse(c, key, "invalid absolute URL", parseAbsURL)
}

// MustPort returns a net/http addr like ":4000" after validation 1..65535
func (c Conf) MustPort(key string) string {
	return mustParse(c, key, "invalid TCP port; expected 1..65535", parsePort)
}

// MustTime panics if the given key is missing, empty, or not RFC3339
func (c Conf) MustTime(key string) time.Time {
	return mustParse(c, key, "invalid RFC3339 timestamp", parseTime)
}

// Require ensures that all given keys are present (non-empty). Panics otherwise
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		_ = c.must(k)
	}
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.raw(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int { return mayParse(c, key, def, "int", strconv.Atoi) }

// MayInt64 returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt64(key string, def int64) int64 {
	return mayParse(c, key, def, "int64", parseInt64)
}

// MayFloat64 returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	return mayParse(c, key, def, "float64", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	return mayParse(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return mayParse(c, key, def, "duration", time.ParseDuration)
}

// MayDecimal returns an exact decimal or def if missing/empty; logs and returns def if invalid
// money rates go through here so 0.06 stays 0.06
func (c Conf) MayDecimal(key string, def decimal.Decimal) decimal.Decimal {
	return mayParse(c, key, def, "decimal", decimal.NewFromString)
}

// MayRune reads a code point written as U+4E00, 0x4E00 or 4E00
func (c Conf) MayRune(key string, def rune) rune {
	return mayParse(c, key, def, "code point", ParseRune)
}

// MayTimeStrict returns def when key is blank and panics when it is not RFC3339
// for bounds where falling back silently would change results
func (c Conf) MayTimeStrict(key string, def time.Time) time.Time {
	if c.raw(key) == "" {
		return def
	}
	return c.MustTime(key)
}

// MayCSV returns a slice of strings from a comma-separated env var; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.raw(key)
	if s == "" {
		return def
	}
	out := splitCSV(s)
	if len(out) == 0 {
		return def
	}
	return out
}

// MayInt64CSV returns ids from a comma-separated env var; def if missing/empty, panics on a bad id
func (c Conf) MayInt64CSV(key string, def []int64) []int64 {
	parts := c.MayCSV(key, nil)
	if parts == nil {
		return def
	}
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := parseInt64(p)
		if err != nil {
			logger.Get().Panic().Str("key", c.key(key)).Str("value", p).Msg("invalid int64 list item")
		}
		out = append(out, v)
	}
	return out
}

// MayEnum ensures value is one of allowed; returns def if empty; panics if invalid
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return "" // unreachable
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func parseAbsURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, strconv.ErrSyntax
	}
	return u, nil
}

func parsePort(s string) (string, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return "", err
	}
	if p < 1 || p > 65535 {
		return "", strconv.ErrRange
	}
	return ":" + s, nil
}

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339, s) }

// ParseRune reads a code point written as U+4E00, 0x4E00 or 4E00
func ParseRune(s string) (rune, error) {
	u := strings.ToUpper(s)
	u = strings.TrimPrefix(u, "U+")
	u = strings.TrimPrefix(u, "0X")
	v, err := strconv.ParseUint(u, 16, 32)
	if err != nil {
		return 0, err
	}
	if v > 0x10FFFF {
		return 0, strconv.ErrRange
	}
	return rune(v), nil
}
