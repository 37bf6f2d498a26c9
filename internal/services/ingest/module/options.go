package module

import (
	"time"

	"conflux/internal/adapters/ingest/crowdin"
	"conflux/internal/platform/config"
	"conflux/internal/services/ingest/guardrails"
	"conflux/internal/services/ingest/service"
)

// Options holds configuration for the ingest module
type Options struct {
	Crowdin crowdin.Options
	Service service.Config

	// StatementTimeout is set on every write tx; 0 leaves the server default
	StatementTimeout time.Duration

	// LeaseTTL lets a later run take over a lease left behind by a crashed one
	LeaseTTL time.Duration
}

// FromConfig reads CORE_CROWDIN_* and CORE_INGEST_*
func FromConfig(cfg config.Conf) Options {
	cr := cfg.Prefix("CORE_CROWDIN_")
	in := cfg.Prefix("CORE_INGEST_")
	return Options{
		Crowdin: crowdin.Options{
			BaseURL:          cr.MayString("BASE_URL", ""),
			Token:            cr.MustString("TOKEN"),
			Organization:     cr.MayString("ORGANIZATION", ""),
			UserAgent:        cr.MayString("USER_AGENT", "conflux-ingest"),
			Timeout:          cr.MayDuration("TIMEOUT", 30*time.Second),
			MaxRetries:       cr.MayInt("MAX_RETRIES", 5),
			RespectRateLimit: cr.MayBool("RESPECT_RATE_LIMIT", true),
		},
		Service: service.Config{
			ProjectID:       in.MustInt64("PROJECT_ID"),
			Languages:       in.MayCSV("LANGUAGES", []string{"zh-CN", "es-ES"}),
			PageLimit:       in.MayInt("PAGE_LIMIT", crowdin.MaxLimit),
			PageDelay:       in.MayDuration("PAGE_DELAY", 50*time.Millisecond),
			ExcludeLabelIDs: in.MayInt64CSV("EXCLUDE_LABEL_IDS", []int64{2}),
			Reset:           in.MayBool("RESET", true),
			SourceStrings:   in.MayBool("SOURCE_STRINGS", true),
			MaxRetries:      in.MayInt("RETRIES", 3),
			RetryBase:       in.MayDuration("RETRY_BASE", 250*time.Millisecond),
			EnableLeases:    in.MayBool("LEASES", true),
			Timeouts: guardrails.Timeouts{
				Run:   in.MayDuration("RUN_TIMEOUT", 0),
				Fetch: in.MayDuration("FETCH_TIMEOUT", 2*time.Minute),
				DB:    in.MayDuration("DB_TIMEOUT", time.Minute),
			},
		},
		StatementTimeout: in.MayDuration("STATEMENT_TIMEOUT", 30*time.Second),
		LeaseTTL:         in.MayDuration("LEASE_TTL", 6*time.Hour),
	}
}
