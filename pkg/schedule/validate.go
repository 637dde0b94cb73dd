package schedule

import (
	"fmt"
	"strings"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

// DefaultCompletionTolerance bounds the final cumulative percentage of every
// active bucket to [100-tol, 100+tol].
const DefaultCompletionTolerance = 0.1

// Validate checks rows against themselves and against ref, which may be empty.
// It never stops early: every problem in the input is returned. Per row the
// checks run in a fixed order (negative amount, decreasing cumulative, unknown
// bucket, mechanism mismatch), followed by a completion check over the rows of
// the last month and a range check on the summed bucket totals.
func Validate(rows []Row, ref *genesis.Reference, kind types.ScheduleKind, tol float64) []types.Finding {
	var findings []types.Finding
	if len(rows) == 0 {
		return findings
	}

	last := NewBucketLedger()
	peak := NewBucketLedger()
	required := kind.RequiredMechanism()
	finalMonth := rows[0].Month

	for i, r := range rows {
		line := r.Line
		if line == 0 {
			line = i + 2
		}
		key := r.Key()
		if r.Month > finalMonth {
			finalMonth = r.Month
		}

		if r.AmountTokens < 0 {
			findings = append(findings, types.Finding{
				Line:    line,
				Code:    types.CodeNegativeAmount,
				Bucket:  key,
				Message: fmt.Sprintf("Negative %s (%s) for %s", kind.AmountColumn(), types.FormatNumber(r.AmountTokens), key),
				Hint:    fmt.Sprintf("Formula: %s = cumulative_tokens - previous cumulative_tokens (never below 0)", kind.AmountColumn()),
			})
		}

		if prev := last.Get(key); r.CumulativeTokens < prev {
			findings = append(findings, types.Finding{
				Line:    line,
				Code:    types.CodeCumulativeDecreased,
				Bucket:  key,
				Message: fmt.Sprintf("Cumulative decreased from %s to %s for %s", types.FormatNumber(prev), types.FormatNumber(r.CumulativeTokens), key),
				Hint:    fmt.Sprintf("Formula: cumulative_tokens = previous cumulative_tokens + %s", kind.AmountColumn()),
			})
		}
		last.Set(r, r.CumulativeTokens)
		peak.Max(r, r.CumulativeTokens)

		if valid, ok := ref.Buckets(r.Tier); ok && !ref.HasBucket(r.Tier, r.BucketName) {
			findings = append(findings, types.Finding{
				Line:    line,
				Code:    types.CodeUnknownBucket,
				Bucket:  key,
				Message: fmt.Sprintf("Bucket name '%s' not found in genesis.json tier '%s'. Valid names: %s", r.BucketName, r.Tier, strings.Join(valid, ", ")),
				Hint:    fmt.Sprintf("Use a name declared in allocation_tiers.%s.buckets[].name", r.Tier),
			})
		}

		if required != "" {
			if m, ok := ref.Mechanism(r.Tier, r.BucketName); ok && m != required {
				findings = append(findings, types.Finding{
					Line:    line,
					Code:    types.CodeMechanismMismatch,
					Bucket:  key,
					Message: fmt.Sprintf("Bucket '%s' in genesis.json should have allocation_mechanism='%s' for %s schedules", r.BucketName, required, kind),
					Hint:    fmt.Sprintf("Set allocation_mechanism to '%s' or move the bucket to a vesting schedule", required),
				})
			}
		}
	}

	lo, hi := 100-tol, 100+tol
	for _, r := range rows {
		if r.Month != finalMonth {
			continue
		}
		pct := r.CumulativePct
		if (pct < lo || pct > hi) && pct > 0 {
			findings = append(findings, types.Finding{
				Code:    types.CodeIncompleteBucket,
				Bucket:  r.Key(),
				Message: fmt.Sprintf("Final cumulative for %s is %s%%, expected 100%%", r.Key(), types.FormatNumber(pct)),
				Hint:    "Formula: cumulative_pct_of_bucket = cumulative_tokens / bucket total * 100, reaching 100 at the final month",
			})
		}
	}

	var grand float64
	for _, k := range peak.Keys() {
		grand += peak.Get(k)
	}
	if grand >= MaxTokens {
		findings = append(findings, types.Finding{
			Code:    types.CodeTokenRange,
			Message: fmt.Sprintf("Total of final cumulative_tokens (%s) exceeds the supported token range", types.FormatNumber(grand)),
			Hint:    "Express amounts in whole tokens rather than base units",
		})
	}
	return findings
}
