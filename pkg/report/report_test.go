package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

func TestTokens(t *testing.T) {
	assert.Equal(t, "1,000,000", Tokens(1000000))
	assert.Equal(t, "999", Tokens(999))
}

func TestFindings(t *testing.T) {
	var buf bytes.Buffer
	Findings(&buf, types.Report{
		Errors: []types.Finding{
			{Line: 3, Message: "Cumulative decreased from 500 to 400 for core::team", Hint: "Formula: x"},
			{Message: "Final cumulative for core::team is 50%, expected 100%"},
		},
		Warnings: []types.Finding{{Message: "No block_explorer provided in data_sources"}},
	})
	out := buf.String()
	assert.Contains(t, out, "Validation failed with 2 error(s)")
	assert.Contains(t, out, "  1. Row 3: Cumulative decreased from 500 to 400 for core::team\n     -> Formula: x\n")
	assert.Contains(t, out, "  2. Final cumulative for core::team is 50%, expected 100%\n")
	assert.Contains(t, out, "1 warning(s)")

	buf.Reset()
	Findings(&buf, types.Report{})
	assert.Empty(t, buf.String())
}

func TestSchedule(t *testing.T) {
	total := int64(1234567)
	doc := &types.ScheduleDocument{
		Project:             "examplecoin",
		TotalEmissionTokens: &total,
		MonthlySchedule: []types.MonthDocument{
			{Month: 0, Date: "2024-01-01"},
			{Month: 48, Date: "2028-01-01"},
		},
	}
	var buf bytes.Buffer
	Schedule(&buf, types.Emission, doc)
	out := buf.String()
	assert.Contains(t, out, "Project: examplecoin")
	assert.Contains(t, out, "Total emission: 1,234,567 tokens")
	assert.Contains(t, out, "Emission period: 48 months")
	assert.Contains(t, out, "Final emission: 2028-01-01")

	buf.Reset()
	Schedule(&buf, types.Vesting, doc)
	assert.Contains(t, buf.String(), "Total genesis allocation: 0 tokens")
}

func TestMatrix(t *testing.T) {
	pct := 20.0
	month := 36
	m := &types.ComparisonMatrix{Projects: []types.ComparisonEntry{
		{
			Name:                      "alpha",
			HasPremine:                true,
			AllocationType:            "vesting_based",
			TotalGenesisAllocationPct: &pct,
			Milestones: map[string]types.ComparisonMilestone{
				"tge":      {LiquidPct: 12.5},
				"month_12": {LiquidPct: 40},
			},
			UnlockMetrics: &types.UnlockMetrics{FullUnlockMonth: &month},
		},
		{Name: "beta", AllocationType: types.AllocationFairLaunch},
	}}
	var buf bytes.Buffer
	Matrix(&buf, m)
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Found 2 projects (1 with premines)"))
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "20.0%")
	assert.Contains(t, out, "12.5%")
	assert.Contains(t, out, "36 months")
	assert.Contains(t, out, "N/A (mining)")
}
