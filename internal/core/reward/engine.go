package reward

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	perr "conflux/internal/platform/errors"
)

// Config is the engine policy surface
type Config struct {
	Window Window
	Policy Policy
	Chars  CharRange

	// Languages scopes attribution, never first ever status
	Languages Languages
}

// DefaultConfig has no window bounds, the default policy and char range
func DefaultConfig() Config {
	return Config{Policy: DefaultPolicy, Chars: DefaultCharRange}
}

// Validate checks window ordering, char range and rates
func (c Config) Validate() error {
	if !c.Window.Valid() {
		return perr.InvalidArgf("reward: window from %s is not before to %s", c.Window.From, c.Window.To)
	}
	if !c.Chars.Valid() {
		return perr.InvalidArgf("reward: char range %U..%U is empty", c.Chars.Lo, c.Chars.Hi)
	}
	return c.Policy.Validate()
}

// Line is one contributor's counters and payout
type Line struct {
	Contributor string          `json:"contributor"`
	Counters    Counters        `json:"counters"`
	Reward      decimal.Decimal `json:"reward"`
}

// Outcome is the result of a full run
type Outcome struct {
	Results   Results        `json:"-"`
	Lines     []Line         `json:"lines"`
	Totals    Line           `json:"totals"`
	Reconcile ReconcileStats `json:"reconcile"`
	Aggregate AggregateStats `json:"aggregate"`
}

// Run reconciles raw submissions, aggregates them with approvals and prices
// every contributor under cfg
func Run(raw []Submission, approvals []Approval, cfg Config, log zerolog.Logger) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, err
	}
	canon, rst, err := Reconcile(raw, log)
	if err != nil {
		return Outcome{Reconcile: rst}, err
	}
	res, ast := Aggregate(canon, approvals, cfg.Window, cfg.Chars, cfg.Languages, log)

	out := Outcome{
		Results:   res,
		Lines:     make([]Line, 0, len(res)),
		Totals:    Line{Contributor: "total", Reward: decimal.Zero},
		Reconcile: rst,
		Aggregate: ast,
	}
	for _, who := range res.Contributors() {
		c := *res[who]
		r := cfg.Policy.Reward(c)
		out.Lines = append(out.Lines, Line{Contributor: who, Counters: c, Reward: r})
		out.Totals.Counters = out.Totals.Counters.Add(c)
		out.Totals.Reward = out.Totals.Reward.Add(r)
	}
	return out, nil
}
