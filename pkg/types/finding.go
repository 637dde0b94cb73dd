package types

import (
	"fmt"
	"strconv"
)

// BucketKey identifies a bucket across a schedule as "tier::bucket_name".
type BucketKey string

func NewBucketKey(tier, bucket string) BucketKey {
	return BucketKey(tier + "::" + bucket)
}

// FindingCode classifies a finding so callers can count or filter them
// without parsing messages.
type FindingCode string

const (
	CodeNegativeAmount      FindingCode = "negative_amount"
	CodeCumulativeDecreased FindingCode = "cumulative_decreased"
	CodeUnknownBucket       FindingCode = "unknown_bucket"
	CodeMechanismMismatch   FindingCode = "mechanism_mismatch"
	CodeIncompleteBucket    FindingCode = "incomplete_bucket"
	CodeTokenRange          FindingCode = "token_range"

	CodeTierSumMismatch    FindingCode = "tier_sum_mismatch"
	CodeTotalMismatch      FindingCode = "total_mismatch"
	CodeMiningTotal        FindingCode = "mining_total_mismatch"
	CodeTGEUnlockRange     FindingCode = "tge_unlock_range"
	CodeCliffExceedsVest   FindingCode = "cliff_exceeds_vesting"
	CodeSchema             FindingCode = "schema"
	CodeProjectMismatch    FindingCode = "project_mismatch"
	CodeMissingGenesis     FindingCode = "missing_genesis"
	CodeSupplyMath         FindingCode = "supply_math"
	CodeEmissionMath       FindingCode = "emission_math"
	CodeDateFormat         FindingCode = "date_format"
	CodeStaleData          FindingCode = "stale_data"
	CodeURLFormat          FindingCode = "url_format"
	CodeMissingSource      FindingCode = "missing_source"
	CodeTemplateComment    FindingCode = "template_comment"
	CodeUnlimitedPctMined  FindingCode = "unlimited_pct_mined"
)

// Finding is a single domain validation problem or advisory warning.
type Finding struct {
	// Line is the 1-based line in the source file, 0 when the finding is not
	// tied to a row.
	Line    int
	Code    FindingCode
	Bucket  BucketKey
	Message string
	// Hint tells the author how to fix the problem, usually as a formula.
	Hint string
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("Row %d: %s", f.Line, f.Message)
	}
	return f.Message
}

// Report collects blocking errors and advisory warnings.
type Report struct {
	Errors   []Finding
	Warnings []Finding
}

func (r *Report) Error(f Finding) { r.Errors = append(r.Errors, f) }
func (r *Report) Warn(f Finding)  { r.Warnings = append(r.Warnings, f) }

// Merge appends another report's findings.
func (r *Report) Merge(o Report) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

func (r Report) OK() bool { return len(r.Errors) == 0 }

// CountCode returns how many errors carry the given code.
func (r Report) CountCode(c FindingCode) int {
	n := 0
	for _, f := range r.Errors {
		if f.Code == c {
			n++
		}
	}
	return n
}

// FormatNumber renders a float in its shortest exact decimal form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
