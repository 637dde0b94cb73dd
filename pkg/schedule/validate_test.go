package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

func row(line, month int, tier, bucket string, amount, cum, pct float64) Row {
	return Row{
		Line:             line,
		Month:            month,
		Date:             "2024-01-01",
		Tier:             tier,
		BucketName:       bucket,
		AmountTokens:     amount,
		CumulativeTokens: cum,
		CumulativePct:    pct,
	}
}

func reference(t *testing.T, doc string) *genesis.Reference {
	t.Helper()
	d, err := genesis.Parse([]byte(doc))
	require.NoError(t, err)
	return genesis.NewReference(d)
}

func codes(findings []types.Finding) []types.FindingCode {
	out := make([]types.FindingCode, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Code)
	}
	return out
}

func TestValidateCleanSchedule(t *testing.T) {
	rows := []Row{
		row(2, 0, "core", "team", 100, 100, 10),
		row(3, 6, "core", "team", 400, 500, 50),
		row(4, 12, "core", "team", 500, 1000, 100),
	}
	assert.Empty(t, Validate(rows, nil, types.Vesting, DefaultCompletionTolerance))
	assert.Empty(t, Validate(nil, nil, types.Vesting, DefaultCompletionTolerance))
}

func TestValidateCumulativeDecreased(t *testing.T) {
	rows := []Row{
		row(2, 0, "core", "team", 500, 500, 50),
		row(3, 1, "core", "team", 0, 400, 40),
		row(4, 2, "core", "team", 600, 1000, 100),
	}
	findings := Validate(rows, nil, types.Vesting, DefaultCompletionTolerance)
	require.Len(t, findings, 1)
	assert.Equal(t, types.CodeCumulativeDecreased, findings[0].Code)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, "Row 3: Cumulative decreased from 500 to 400 for core::team", findings[0].String())
	assert.NotEmpty(t, findings[0].Hint)
}

func TestValidateUnknownBucket(t *testing.T) {
	ref := reference(t, `{"allocation_tiers": {"core": {"total_pct": 20, "buckets": [{"name": "team", "pct": 20}]}}}`)
	rows := []Row{row(2, 0, "core", "advisors", 100, 100, 100)}

	findings := Validate(rows, ref, types.Vesting, DefaultCompletionTolerance)
	require.Len(t, findings, 1)
	assert.Equal(t, types.CodeUnknownBucket, findings[0].Code)
	assert.Equal(t, "Row 2: Bucket name 'advisors' not found in genesis.json tier 'core'. Valid names: team", findings[0].String())
}

func TestValidateUnknownTierIsNotChecked(t *testing.T) {
	ref := reference(t, `{"allocation_tiers": {"core": {"buckets": [{"name": "team", "pct": 20}]}}}`)
	rows := []Row{row(2, 0, "ecosystem", "grants", 100, 100, 100)}
	assert.Empty(t, Validate(rows, ref, types.Vesting, DefaultCompletionTolerance))
	assert.Empty(t, Validate(rows, nil, types.Vesting, DefaultCompletionTolerance))
}

func TestValidateNegativeAmountWithoutLine(t *testing.T) {
	rows := []Row{
		{Month: 0, Tier: "core", BucketName: "team"},
		{Month: 1, Tier: "core", BucketName: "team", AmountTokens: -5, CumulativeTokens: 10, CumulativePct: 100},
	}
	findings := Validate(rows, nil, types.Vesting, DefaultCompletionTolerance)
	require.Len(t, findings, 1)
	assert.Equal(t, "Row 3: Negative unlock_tokens (-5) for core::team", findings[0].String())
}

func TestValidateCompletionTolerance(t *testing.T) {
	tests := []struct {
		pct  float64
		want int
	}{
		{100, 0},
		{99.95, 0},
		{100.1, 0},
		{99.8, 1},
		{100.5, 1},
		{0, 0},
	}
	for _, tt := range tests {
		rows := []Row{
			row(2, 0, "core", "zero", 0, 0, 0),
			row(3, 12, "core", "team", 100, 100, tt.pct),
		}
		findings := Validate(rows, nil, types.Vesting, DefaultCompletionTolerance)
		assert.Len(t, findings, tt.want, "pct %v", tt.pct)
	}
}

func TestValidateIncompleteMessage(t *testing.T) {
	rows := []Row{row(2, 12, "core", "team", 50, 50, 50)}
	findings := Validate(rows, nil, types.Vesting, DefaultCompletionTolerance)
	require.Len(t, findings, 1)
	assert.Equal(t, 0, findings[0].Line)
	assert.Equal(t, "Final cumulative for core::team is 50%, expected 100%", findings[0].String())
}

func TestValidateMechanismOnlyForEmission(t *testing.T) {
	ref := reference(t, `{"allocation_tiers": {"community": {"buckets": [
		{"name": "treasury", "pct": 5, "allocation_mechanism": "vesting_contract"},
		{"name": "miners", "pct": 60, "allocation_mechanism": "block_reward_emission"},
		{"name": "unset", "pct": 5}
	]}}}`)
	rows := []Row{
		row(2, 0, "community", "treasury", 10, 10, 100),
		row(3, 0, "community", "miners", 10, 10, 100),
		row(4, 0, "community", "unset", 10, 10, 100),
	}
	assert.Empty(t, Validate(rows, ref, types.Vesting, DefaultCompletionTolerance))

	findings := Validate(rows, ref, types.Emission, DefaultCompletionTolerance)
	require.Len(t, findings, 1)
	assert.Equal(t, "Row 2: Bucket 'treasury' in genesis.json should have allocation_mechanism='block_reward_emission' for emission schedules", findings[0].String())
}

// One violation of every kind in a single schedule yields one finding each.
func TestValidateReportsEveryViolation(t *testing.T) {
	ref := reference(t, `{"allocation_tiers": {
		"core": {"buckets": [{"name": "neg"}, {"name": "dec"}, {"name": "half"}, {"name": "idle"}]},
		"community": {"buckets": [{"name": "treasury", "allocation_mechanism": "vesting_contract"}]}
	}}`)
	rows := []Row{
		row(2, 0, "core", "neg", -5, 0, 0),
		row(3, 0, "core", "dec", 500, 500, 50),
		row(4, 6, "core", "dec", 0, 400, 40),
		row(5, 12, "core", "neg", 100, 100, 100),
		row(6, 12, "core", "dec", 600, 1000, 100),
		row(7, 12, "core", "ghost", 10, 10, 100),
		row(8, 12, "community", "treasury", 10, 10, 100),
		row(9, 12, "core", "half", 50, 50, 50),
		row(10, 12, "core", "idle", 0, 0, 0),
	}

	findings := Validate(rows, ref, types.Emission, DefaultCompletionTolerance)
	assert.Equal(t, []types.FindingCode{
		types.CodeNegativeAmount,
		types.CodeCumulativeDecreased,
		types.CodeUnknownBucket,
		types.CodeMechanismMismatch,
		types.CodeIncompleteBucket,
	}, codes(findings))
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, 4, findings[1].Line)
	assert.Equal(t, 7, findings[2].Line)
	assert.Equal(t, 8, findings[3].Line)
	assert.Equal(t, types.BucketKey("core::half"), findings[4].Bucket)
}

func TestValidateSummedTokensOutOfRange(t *testing.T) {
	rows := []Row{
		row(2, 0, "core", "team", 5e18, 5e18, 100),
		row(3, 0, "core", "advisors", 5e18, 5e18, 100),
	}
	f := Validate(rows, nil, types.Vesting, DefaultCompletionTolerance)
	require.Len(t, f, 1)
	assert.Equal(t, types.CodeTokenRange, f[0].Code)
	assert.Contains(t, f[0].Message, "10000000000000000000")

	assert.Empty(t, Validate(rows[:1], nil, types.Vesting, DefaultCompletionTolerance))
}
