package genesis

import (
	"sort"

	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

// Reference is a read-only lookup built from a genesis document. A Reference
// built from a nil document is empty and every lookup reports "unknown".
type Reference struct {
	buckets    map[string][]string
	mechanisms map[types.BucketKey]string
	tiers      map[string]TierTotals
}

// TierTotals is a tier's declared total and its buckets' declared shares.
type TierTotals struct {
	TotalPct float64
	Declared bool
	Buckets  []BucketPct
}

type BucketPct struct {
	Name string
	Pct  float64
}

func NewReference(d *Document) *Reference {
	r := &Reference{
		buckets:    map[string][]string{},
		mechanisms: map[types.BucketKey]string{},
		tiers:      map[string]TierTotals{},
	}
	if d == nil {
		return r
	}
	for name, tier := range d.AllocationTiers {
		tt := TierTotals{}
		if tier.TotalPct != nil {
			tt.TotalPct, tt.Declared = *tier.TotalPct, true
		}
		for _, b := range tier.Buckets {
			if b.Name == "" {
				continue
			}
			r.buckets[name] = append(r.buckets[name], b.Name)
			key := types.NewBucketKey(name, b.Name)
			if _, seen := r.mechanisms[key]; !seen && b.AllocationMechanism != "" {
				r.mechanisms[key] = b.AllocationMechanism
			}
			tt.Buckets = append(tt.Buckets, BucketPct{Name: b.Name, Pct: b.PctValue()})
		}
		r.tiers[name] = tt
	}
	return r
}

// Empty reports whether no bucket names are declared at all.
func (r *Reference) Empty() bool { return r == nil || len(r.buckets) == 0 }

// Buckets returns the declared bucket names of a tier in document order.
// ok is false when the tier declares no buckets.
func (r *Reference) Buckets(tier string) (names []string, ok bool) {
	if r == nil {
		return nil, false
	}
	names, ok = r.buckets[tier]
	return names, ok
}

// HasBucket reports whether bucket is declared under tier.
func (r *Reference) HasBucket(tier, bucket string) bool {
	names, _ := r.Buckets(tier)
	for _, n := range names {
		if n == bucket {
			return true
		}
	}
	return false
}

// Mechanism returns the declared allocation_mechanism of a bucket.
func (r *Reference) Mechanism(tier, bucket string) (string, bool) {
	if r == nil {
		return "", false
	}
	m, ok := r.mechanisms[types.NewBucketKey(tier, bucket)]
	return m, ok
}

func (r *Reference) Tier(tier string) (TierTotals, bool) {
	if r == nil {
		return TierTotals{}, false
	}
	t, ok := r.tiers[tier]
	return t, ok
}

// TierNames returns every declared tier, sorted.
func (r *Reference) TierNames() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.tiers))
	for name := range r.tiers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
