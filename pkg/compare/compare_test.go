package compare

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/schedule"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func scheduleRows(tier, bucket string, points ...[2]float64) []schedule.Row {
	var rows []schedule.Row
	var prev float64
	total := points[len(points)-1][1]
	for i, p := range points {
		month := int(p[0])
		rows = append(rows, schedule.Row{
			Line:             i + 2,
			Month:            month,
			Date:             time.Date(2024, time.Month(1+month), 1, 0, 0, 0, 0, time.UTC).Format(schedule.DateLayout),
			Tier:             tier,
			BucketName:       bucket,
			AmountTokens:     p[1] - prev,
			CumulativeTokens: p[1],
			CumulativePct:    p[1] / total * 100,
		})
		prev = p[1]
	}
	return rows
}

func writeProject(t *testing.T, root, name, genesisJSON string, kind types.ScheduleKind, rows []schedule.Row) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	var gen *genesis.Document
	if genesisJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "genesis.json"), []byte(genesisJSON), 0o644))
		var err error
		gen, err = genesis.Parse([]byte(genesisJSON))
		require.NoError(t, err)
	}
	if rows != nil {
		doc := schedule.Convert(kind, rows, gen, schedule.Options{})
		require.NoError(t, schedule.WriteFile(filepath.Join(dir, kind.FileStem()+".json"), doc))
	}
}

func TestBuildEmissionOnlyAndFairLaunch(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "beta", `{"project": "beta", "has_premine": false}`, 0, nil)
	writeProject(t, root, "alpha", `{"project": "alpha", "has_premine": false, "genesis_date": "2024-01-01", "available_for_mining_genesis_pct": 100}`,
		types.Emission, scheduleRows("community", "miners", [2]float64{0, 0}, [2]float64{12, 500}, [2]float64{24, 1000}))

	b := &Builder{Dir: root, Workers: 2, Logger: zaptest.NewLogger(t), Now: fixedNow}
	m, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", m.GeneratedDate)
	assert.Equal(t, Description, m.Description)
	assert.Equal(t, []string{"tge", "month_6", "month_12", "month_18", "month_24", "month_36", "month_48"}, m.MilestoneColumns)
	require.Len(t, m.Projects, 2)

	alpha := m.Projects[0]
	assert.Equal(t, "alpha", alpha.Name)
	assert.Equal(t, "emission_based", alpha.AllocationType)
	assert.False(t, alpha.HasPremine)
	assert.True(t, alpha.HasEmissionSchedule)
	assert.Equal(t, int64(1000), *alpha.TotalEmissionTokens)
	assert.Nil(t, alpha.TotalGenesisAllocationTokens)
	require.Contains(t, alpha.Milestones, "month_12")
	assert.Equal(t, 50.0, alpha.Milestones["month_12"].LiquidPct)
	assert.Equal(t, int64(500), alpha.Milestones["month_12"].LiquidTokens)
	assert.Equal(t, types.TierBreakdown{Pct: 50, Tokens: 500}, alpha.Milestones["month_12"].TierBreakdown["community"])
	assert.NotContains(t, alpha.Milestones, "month_6")
	require.NotNil(t, alpha.UnlockMetrics)
	assert.Equal(t, 4.17, alpha.UnlockMetrics.AvgMonthlyUnlockRateYear1Pct)
	assert.Equal(t, 4.17, alpha.UnlockMetrics.AvgMonthlyUnlockRateYear2Pct)
	assert.Equal(t, 24, *alpha.UnlockMetrics.FullUnlockMonth)

	beta := m.Projects[1]
	assert.Equal(t, types.ComparisonEntry{
		Name:           "beta",
		AllocationType: types.AllocationFairLaunch,
		Note:           FairLaunchNote,
	}, beta)

	b2, err := schedule.Encode(beta)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "beta", "has_premine": false, "allocation_type": "fair_launch_only", "note": "No genesis allocation - 100% mining/staking distribution"}`, string(b2))
}

func TestBuildPrefersVesting(t *testing.T) {
	root := t.TempDir()
	gen := `{"project": "gamma", "has_premine": true, "genesis_date": "2024-01-01", "total_genesis_allocation_pct": 25}`
	writeProject(t, root, "gamma", gen, types.Vesting,
		scheduleRows("core", "team", [2]float64{0, 100}, [2]float64{12, 400}, [2]float64{24, 1000}))
	writeProject(t, root, "gamma", gen, types.Emission,
		scheduleRows("community", "miners", [2]float64{0, 0}, [2]float64{48, 9000}))

	m, err := (&Builder{Dir: root, Now: fixedNow}).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Projects, 1)

	e := m.Projects[0]
	assert.Equal(t, "vesting_based", e.AllocationType)
	assert.True(t, e.HasPremine)
	assert.True(t, e.HasEmissionSchedule)
	assert.Equal(t, int64(1000), *e.TotalGenesisAllocationTokens)
	assert.Equal(t, 25.0, *e.TotalGenesisAllocationPct)
	assert.Equal(t, 10.0, e.Milestones["tge"].LiquidPct)
	assert.Equal(t, 2.5, e.UnlockMetrics.AvgMonthlyUnlockRateYear1Pct)
	assert.Equal(t, 5.0, e.UnlockMetrics.AvgMonthlyUnlockRateYear2Pct)
	assert.Equal(t, 100.0, *e.TierComposition["core"].PctOfGenesis)
}

func TestBuildIncompleteScheduleNote(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "delta", "", types.Vesting,
		scheduleRows("core", "team", [2]float64{0, 0}, [2]float64{12, 1000}))
	// Rewrite the final month so the schedule never completes.
	path := filepath.Join(root, "delta", "vesting-schedule.json")
	doc, err := schedule.ReadDocument(path)
	require.NoError(t, err)
	pct := 80.0
	doc.MonthlySchedule[1].Total.CumulativePctOfGenesis = &pct
	require.NoError(t, schedule.WriteFile(path, doc))

	m, err := (&Builder{Dir: root, Now: fixedNow}).Build(context.Background())
	require.NoError(t, err)
	um := m.Projects[0].UnlockMetrics
	assert.Equal(t, 12, *um.FullUnlockMonth)
	assert.Equal(t, "Not fully vested - only 80% unlocked", um.Note)
}

func TestBuildSkipsPremineWithoutSchedule(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "epsilon", `{"project": "epsilon", "has_premine": true}`, 0, nil)
	require.NoError(t, os.WriteFile(filepath.Join(root, "comparison-matrix.json"), []byte("{}"), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	m, err := (&Builder{Dir: root, Logger: zap.New(core), Now: fixedNow}).Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m.Projects)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "epsilon", logs.All()[0].ContextMap()["project"])
}

func TestBuildReportsEveryMalformedProject(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"one", "two"} {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "genesis.json"), []byte("{not json"), 0o644))
	}
	writeProject(t, root, "three", `{"project": "three"}`, 0, nil)

	_, err := (&Builder{Dir: root, Workers: 1}).Build(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "project one")
	assert.Contains(t, err.Error(), "project two")
}

func TestBuildMissingDirectory(t *testing.T) {
	_, err := (&Builder{Dir: filepath.Join(t.TempDir(), "nope")}).Build(context.Background())
	require.Error(t, err)
}

func TestBuildCancelled(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "zeta", `{"project": "zeta"}`, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Builder{Dir: root}).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildIsDeterministic(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d"} {
		writeProject(t, root, name, "", types.Vesting,
			scheduleRows("core", "team", [2]float64{0, 10}, [2]float64{6, 50}, [2]float64{12, 100}))
	}
	var outputs []string
	for i := 0; i < 3; i++ {
		m, err := (&Builder{Dir: root, Workers: 4, Now: fixedNow}).Build(context.Background())
		require.NoError(t, err)
		b, err := schedule.Encode(m)
		require.NoError(t, err)
		outputs = append(outputs, string(b))
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[1], outputs[2])
}

func TestUnlockRate(t *testing.T) {
	months := []schedule.MonthEntry{
		{Month: 0, Total: schedule.Totals{CumulativePct: 10}},
		{Month: 12, Total: schedule.Totals{CumulativePct: 50}},
	}
	assert.Equal(t, 3.33, UnlockRate(months, 0, 12))
	assert.Zero(t, UnlockRate(months, 12, 24))
	assert.Zero(t, UnlockRate(months, 12, 12))
	assert.Zero(t, UnlockRate(nil, 0, 12))
}
