package reward

import (
	"github.com/shopspring/decimal"

	perr "conflux/internal/platform/errors"
)

// Policy is the linear payout formula applied to counters
type Policy struct {
	TranslatedRate decimal.Decimal `json:"translated_rate"`
	ApprovedRate   decimal.Decimal `json:"approved_rate"`
	Currency       string          `json:"currency"`
}

// DefaultPolicy pays 0.06 per translated char and 0.03 per approved char
var DefaultPolicy = Policy{
	TranslatedRate: decimal.RequireFromString("0.06"),
	ApprovedRate:   decimal.RequireFromString("0.03"),
	Currency:       "FC",
}

// Reward returns TranslatedChars*TranslatedRate + ApprovedChars*ApprovedRate
func (p Policy) Reward(c Counters) decimal.Decimal {
	t := decimal.NewFromInt(int64(c.TranslatedChars)).Mul(p.TranslatedRate)
	a := decimal.NewFromInt(int64(c.ApprovedChars)).Mul(p.ApprovedRate)
	return t.Add(a)
}

// Validate rejects negative rates
func (p Policy) Validate() error {
	if p.TranslatedRate.IsNegative() {
		return perr.InvalidArgf("reward: translated rate %s is negative", p.TranslatedRate)
	}
	if p.ApprovedRate.IsNegative() {
		return perr.InvalidArgf("reward: approved rate %s is negative", p.ApprovedRate)
	}
	return nil
}
