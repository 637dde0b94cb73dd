package schedule

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// BucketSnapshot is a bucket's row for one month as written to the output:
// token counts truncated to integers, percentages rounded to 2 decimals.
type BucketSnapshot struct {
	Tier             string
	BucketName       string
	AmountTokens     int64
	AmountPct        float64
	CumulativeTokens int64
	CumulativePct    float64
	Notes            string
}

// TierAggregate sums a tier's amounts for one month. CumulativeTokens is the
// largest cumulative among the tier's buckets that month.
type TierAggregate struct {
	AmountTokens     int64
	CumulativeTokens int64
	CumulativePct    float64
}

// Totals sums every tier present in a month.
type Totals struct {
	AmountTokens     int64
	CumulativeTokens int64
	CumulativePct    float64
}

type MonthEntry struct {
	Month   int
	Date    string
	Buckets []BucketSnapshot
	Tiers   map[string]TierAggregate
	Total   Totals
}

// Aggregation is the full monthly roll-up of a schedule together with the
// denominators used for its percentages.
type Aggregation struct {
	Months []MonthEntry
	// TierTotals holds each tier's allocation: the sum of its buckets' largest
	// cumulative values.
	TierTotals map[string]float64
	// TierOrder lists tiers in first-seen order.
	TierOrder  []string
	GrandTotal float64
}

// Aggregate folds rows into ascending month entries. It does not require the
// rows to be valid or sorted.
func Aggregate(rows []Row) *Aggregation {
	byMonth := map[int][]Row{}
	totals := NewBucketLedger()
	for _, r := range rows {
		byMonth[r.Month] = append(byMonth[r.Month], r)
		totals.Max(r, r.CumulativeTokens)
	}

	agg := &Aggregation{TierTotals: map[string]float64{}}
	for _, k := range totals.Keys() {
		tier := totals.Tier(k)
		if _, ok := agg.TierTotals[tier]; !ok {
			agg.TierOrder = append(agg.TierOrder, tier)
		}
		agg.TierTotals[tier] += totals.Get(k)
	}
	for _, tier := range agg.TierOrder {
		agg.GrandTotal += agg.TierTotals[tier]
	}

	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Ints(months)

	for _, m := range months {
		agg.Months = append(agg.Months, agg.month(m, byMonth[m]))
	}
	return agg
}

type tierSums struct {
	amount     float64
	cumulative float64
}

func (a *Aggregation) month(m int, rows []Row) MonthEntry {
	entry := MonthEntry{
		Month:   m,
		Date:    rows[0].Date,
		Buckets: make([]BucketSnapshot, 0, len(rows)),
		Tiers:   map[string]TierAggregate{},
	}

	sums := map[string]*tierSums{}
	var order []string
	for _, r := range rows {
		entry.Buckets = append(entry.Buckets, BucketSnapshot{
			Tier:             r.Tier,
			BucketName:       r.BucketName,
			AmountTokens:     Tokens(r.AmountTokens),
			AmountPct:        Round2(r.AmountPct),
			CumulativeTokens: Tokens(r.CumulativeTokens),
			CumulativePct:    Round2(r.CumulativePct),
			Notes:            r.Notes,
		})
		s, ok := sums[r.Tier]
		if !ok {
			s = &tierSums{}
			sums[r.Tier] = s
			order = append(order, r.Tier)
		}
		s.amount += r.AmountTokens
		if r.CumulativeTokens > s.cumulative {
			s.cumulative = r.CumulativeTokens
		}
	}

	var amount, cumulative float64
	for _, tier := range order {
		s := sums[tier]
		entry.Tiers[tier] = TierAggregate{
			AmountTokens:     Tokens(s.amount),
			CumulativeTokens: Tokens(s.cumulative),
			CumulativePct:    Round2(Percent(s.cumulative, a.TierTotals[tier])),
		}
		amount += s.amount
		cumulative += s.cumulative
	}
	entry.Total = Totals{
		AmountTokens:     Tokens(amount),
		CumulativeTokens: Tokens(cumulative),
		CumulativePct:    Round2(Percent(cumulative, a.GrandTotal)),
	}
	return entry
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// MaxTokens is the smallest token count the int64 fields of the output
// documents cannot hold.
const MaxTokens float64 = 1 << 63

// Tokens truncates v toward zero for an output token field. Values outside
// the int64 range saturate instead of wrapping.
func Tokens(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= MaxTokens:
		return math.MaxInt64
	case v <= -MaxTokens:
		return math.MinInt64
	}
	return decimal.NewFromFloat(v).Truncate(0).IntPart()
}

// Round2 rounds half to even at 2 decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}
