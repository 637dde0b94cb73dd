package vesting

import "math/big"

// Engine computes the unlocked part of an allocation at a month offset for
// the supported unlock curves. Amounts are strings of integer base units.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// DelayedUnlocked - nothing unlocked before end; at end all unlocked.
func (e *Engine) DelayedUnlocked(total string, month, end int) string {
	if month < end {
		return "0"
	}
	return total
}

// ContinuousUnlocked - linear unlock from start to end.
func (e *Engine) ContinuousUnlocked(total string, month, start, end int) string {
	if month <= start {
		return "0"
	}
	if month >= end {
		return total
	}
	return mulRatio(total, int64(month-start), int64(end-start))
}

// CliffUnlocked - linear vesting from start to end with nothing unlocked
// before the cliff. At the cliff the part vested so far unlocks at once.
func (e *Engine) CliffUnlocked(total string, month, start, cliff, end int) string {
	if month < cliff {
		return "0"
	}
	return e.ContinuousUnlocked(total, month, start, end)
}

// Split returns the part of total unlocked at genesis and the remainder.
// pct is clamped to [0, 100].
func (e *Engine) Split(total string, pct float64) (tge, rest string) {
	bp := int64(pct*100 + 0.5)
	bp = max(0, min(bp, 10000))
	tge = mulRatio(total, bp, 10000)
	return tge, sub(total, tge)
}

// Helpers
func parse(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

func add(a, b string) string { return new(big.Int).Add(parse(a), parse(b)).String() }

func sub(a, b string) string { return new(big.Int).Sub(parse(a), parse(b)).String() }

func mulRatio(total string, num, den int64) string {
	if den <= 0 {
		return "0"
	}
	// unlocked = T * num / den
	res := new(big.Int).Mul(parse(total), big.NewInt(num))
	res.Quo(res, big.NewInt(den))
	if res.Sign() < 0 {
		return "0"
	}
	return res.String()
}
