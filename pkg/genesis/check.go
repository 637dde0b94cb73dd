package genesis

import (
	"fmt"
	"math"
	"sort"

	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

// Check verifies the document's own arithmetic: declared tier totals against
// their buckets, the tier sum against total_genesis_allocation_pct, genesis
// plus mining against 100%, and per-bucket unlock terms. tol is the allowed
// absolute difference in percentage points.
func Check(d *Document, tol float64) types.Report {
	var r types.Report
	if d == nil {
		return r
	}

	names := make([]string, 0, len(d.AllocationTiers))
	for name := range d.AllocationTiers {
		names = append(names, name)
	}
	sort.Strings(names)

	tierSum := 0.0
	for _, name := range names {
		tier := d.AllocationTiers[name]
		if tier.TotalPct == nil {
			continue
		}
		declared := *tier.TotalPct
		tierSum += declared
		if tier.Buckets == nil {
			continue
		}
		bucketSum := 0.0
		for _, b := range tier.Buckets {
			bucketSum += b.PctValue()
		}
		if math.Abs(bucketSum-declared) > tol {
			r.Error(types.Finding{
				Code:    types.CodeTierSumMismatch,
				Message: fmt.Sprintf("Tier %s total mismatch: declared total %s%%, bucket sum %s%%", name, types.FormatNumber(declared), types.FormatNumber(bucketSum)),
				Hint:    fmt.Sprintf("Formula: allocation_tiers.%s.total_pct = sum(buckets[].pct)", name),
			})
		}
	}

	declaredTotal := d.TotalPct()
	if math.Abs(tierSum-declaredTotal) > tol {
		r.Error(types.Finding{
			Code:    types.CodeTotalMismatch,
			Message: fmt.Sprintf("Total allocation mismatch: declared %s%%, tier sum %s%%", types.FormatNumber(declaredTotal), types.FormatNumber(tierSum)),
			Hint:    "Formula: total_genesis_allocation_pct = sum(allocation_tiers[].total_pct)",
		})
	}

	mining := d.MiningPct()
	if withMining := declaredTotal + mining; math.Abs(withMining-100) > tol {
		r.Error(types.Finding{
			Code: types.CodeMiningTotal,
			Message: fmt.Sprintf("Total allocation + mining must equal 100%%: genesis %s%% + mining %s%% = %s%%",
				types.FormatNumber(declaredTotal), types.FormatNumber(mining), types.FormatNumber(withMining)),
			Hint: "Formula: total_genesis_allocation_pct + available_for_mining_genesis_pct = 100",
		})
	}

	for _, name := range names {
		for _, b := range d.AllocationTiers[name].Buckets {
			key := types.NewBucketKey(name, b.Name)
			if tge := b.TGEUnlock(); tge < 0 || tge > 100 {
				r.Error(types.Finding{
					Code:    types.CodeTGEUnlockRange,
					Bucket:  key,
					Message: fmt.Sprintf("Bucket '%s' has tge_unlock_pct outside 0-100%%: %s%%", b.Name, types.FormatNumber(tge)),
					Hint:    "tge_unlock_pct is the share of the bucket liquid at genesis, between 0 and 100",
				})
			}
			if b.VestingMonths != nil && *b.VestingMonths > 0 && b.CliffMonths > *b.VestingMonths {
				r.Warn(types.Finding{
					Code:    types.CodeCliffExceedsVest,
					Bucket:  key,
					Message: fmt.Sprintf("Bucket '%s': cliff (%dmo) exceeds vesting (%dmo)", b.Name, b.CliffMonths, *b.VestingMonths),
				})
			}
		}
	}
	return r
}
