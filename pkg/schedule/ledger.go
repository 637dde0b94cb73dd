package schedule

import "github.com/lumera-labs/tokenomics-tracker/pkg/types"

// BucketLedger tracks one running number per bucket. A key that was never
// written reads as 0; the first write records the key's position so Keys
// iterates in first-seen order.
type BucketLedger struct {
	values map[types.BucketKey]float64
	tiers  map[types.BucketKey]string
	order  []types.BucketKey
}

func NewBucketLedger() *BucketLedger {
	return &BucketLedger{
		values: map[types.BucketKey]float64{},
		tiers:  map[types.BucketKey]string{},
	}
}

// Get returns the value for k, or 0 if k has not been written.
func (l *BucketLedger) Get(k types.BucketKey) float64 { return l.values[k] }

// Set records v for the row's bucket.
func (l *BucketLedger) Set(r Row, v float64) {
	k := l.touch(r)
	l.values[k] = v
}

// Max raises the row's bucket to v if v exceeds its current value.
func (l *BucketLedger) Max(r Row, v float64) {
	k := l.touch(r)
	if v > l.values[k] {
		l.values[k] = v
	}
}

func (l *BucketLedger) touch(r Row) types.BucketKey {
	k := r.Key()
	if _, ok := l.values[k]; !ok {
		l.values[k] = 0
		l.tiers[k] = r.Tier
		l.order = append(l.order, k)
	}
	return k
}

// Keys returns every written key in first-seen order.
func (l *BucketLedger) Keys() []types.BucketKey { return l.order }

// Tier returns the tier a key was written under.
func (l *BucketLedger) Tier(k types.BucketKey) string { return l.tiers[k] }
