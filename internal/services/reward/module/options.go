package module

import (
	"strings"
	"time"

	"conflux/internal/core/reward"
	"conflux/internal/platform/config"
	perr "conflux/internal/platform/errors"
	"conflux/internal/platform/net/http/bind"
	"conflux/internal/services/reward/domain"
	"conflux/internal/services/reward/service"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

// DefaultWindowTo is the historical cutoff of the payout window
var DefaultWindowTo = time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC)

// openBound disables a window bound configured as a default
const openBound = "open"

// Options holds configuration for the reward module
type Options struct {
	Service service.Config

	// StatementTimeout bounds the snapshot reads; 0 leaves the server default
	StatementTimeout time.Duration
}

// PolicyFile is the optional yaml, json or toml policy document
// env values override the file
type PolicyFile struct {
	WindowFrom     string   `yaml:"window_from"     json:"window_from"     toml:"window_from"`
	WindowTo       string   `yaml:"window_to"       json:"window_to"       toml:"window_to"`
	RateTranslated string   `yaml:"rate_translated" json:"rate_translated" toml:"rate_translated"`
	RateApproved   string   `yaml:"rate_approved"   json:"rate_approved"   toml:"rate_approved"`
	Currency       string   `yaml:"currency"        json:"currency"        toml:"currency"`
	CJKLo          string   `yaml:"cjk_lo"          json:"cjk_lo"          toml:"cjk_lo"`
	CJKHi          string   `yaml:"cjk_hi"          json:"cjk_hi"          toml:"cjk_hi"`
	Languages      []string `yaml:"languages"       json:"languages"       toml:"languages"`
	Archive        bool     `yaml:"archive"         json:"archive"         toml:"archive"`
}

// ReadPolicyFile loads path with cleanenv; the format follows the extension
func ReadPolicyFile(path string) (PolicyFile, error) {
	var f PolicyFile
	if err := cleanenv.ReadConfig(path, &f); err != nil {
		return f, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "reward: read policy file %s", path)
	}
	return f, nil
}

// Apply layers the non empty file values over base
func (f PolicyFile) Apply(base reward.Config) (reward.Config, error) {
	var err error
	if base.Window.From, err = fileBound(f.WindowFrom, base.Window.From, "window_from"); err != nil {
		return base, err
	}
	if base.Window.To, err = fileBound(f.WindowTo, base.Window.To, "window_to"); err != nil {
		return base, err
	}
	if base.Policy.TranslatedRate, err = fileDecimal(f.RateTranslated, base.Policy.TranslatedRate, "rate_translated"); err != nil {
		return base, err
	}
	if base.Policy.ApprovedRate, err = fileDecimal(f.RateApproved, base.Policy.ApprovedRate, "rate_approved"); err != nil {
		return base, err
	}
	if c := strings.TrimSpace(f.Currency); c != "" {
		base.Policy.Currency = c
	}
	if base.Chars.Lo, err = fileRune(f.CJKLo, base.Chars.Lo, "cjk_lo"); err != nil {
		return base, err
	}
	if base.Chars.Hi, err = fileRune(f.CJKHi, base.Chars.Hi, "cjk_hi"); err != nil {
		return base, err
	}
	return base, nil
}

// FromConfig reads CORE_REWARD_*, layered over CORE_REWARD_POLICY_FILE when set
func FromConfig(cfg config.Conf) (Options, error) {
	rw := cfg.Prefix("CORE_REWARD_")

	engine := reward.DefaultConfig()
	engine.Window.To = DefaultWindowTo

	var file PolicyFile
	if path := rw.MayString("POLICY_FILE", ""); path != "" {
		var err error
		if file, err = ReadPolicyFile(path); err != nil {
			return Options{}, err
		}
		if engine, err = file.Apply(engine); err != nil {
			return Options{}, err
		}
	}

	engine.Window.From = envBound(rw, "WINDOW_FROM", engine.Window.From)
	engine.Window.To = envBound(rw, "WINDOW_TO", engine.Window.To)
	engine.Policy.TranslatedRate = rw.MayDecimal("RATE_TRANSLATED", engine.Policy.TranslatedRate)
	engine.Policy.ApprovedRate = rw.MayDecimal("RATE_APPROVED", engine.Policy.ApprovedRate)
	engine.Policy.Currency = rw.MayString("CURRENCY", engine.Policy.Currency)
	engine.Chars.Lo = rw.MayRune("CJK_LO", engine.Chars.Lo)
	engine.Chars.Hi = rw.MayRune("CJK_HI", engine.Chars.Hi)
	if err := engine.Validate(); err != nil {
		return Options{}, err
	}

	langs := rw.MayCSV("LANGUAGES", file.Languages)
	if err := bind.Validate(domain.ReportInput{Languages: langs}); err != nil {
		return Options{}, err
	}

	return Options{
		Service: service.Config{
			Engine:    engine,
			Languages: langs,
			Archive:   rw.MayBool("ARCHIVE", file.Archive),
		},
		StatementTimeout: rw.MayDuration("STATEMENT_TIMEOUT", time.Minute),
	}, nil
}

// envBound is MayTimeStrict that also accepts open to disable the bound
func envBound(c config.Conf, key string, def time.Time) time.Time {
	if strings.EqualFold(c.MayString(key, ""), openBound) {
		return time.Time{}
	}
	return c.MayTimeStrict(key, def).UTC()
}

func fileBound(s string, def time.Time, field string) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return def, nil
	case strings.EqualFold(s, openBound):
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return def, perr.WithField(perr.InvalidArgf("reward: %s %q is not RFC3339", field, s), field)
	}
	return t.UTC(), nil
}

func fileDecimal(s string, def decimal.Decimal, field string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return def, perr.WithField(perr.InvalidArgf("reward: %s %q is not a decimal", field, s), field)
	}
	return d, nil
}

func fileRune(s string, def rune, field string) (rune, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	r, err := config.ParseRune(s)
	if err != nil {
		return def, perr.WithField(perr.InvalidArgf("reward: %s %q is not a code point", field, s), field)
	}
	return r, nil
}
