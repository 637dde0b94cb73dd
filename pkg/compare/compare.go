// Package compare builds the cross-project comparison matrix from the
// per-project schedule documents under the allocations directory.
package compare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/schedule"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

const (
	Description    = "Cross-project comparison of genesis allocations and vesting schedules"
	FairLaunchNote = "No genesis allocation - 100% mining/staking distribution"
)

// Builder scans Dir, one subdirectory per project.
type Builder struct {
	Dir       string
	Offsets   []int
	Threshold float64
	// Workers bounds how many projects are loaded at once.
	Workers int
	Logger  *zap.Logger
	Now     func() time.Time
}

// Build loads every project and assembles the matrix in directory order.
// Malformed project files fail the build; all of them are reported together.
func (b *Builder) Build(ctx context.Context) (*types.ComparisonMatrix, error) {
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	offsets := b.Offsets
	if len(offsets) == 0 {
		offsets = schedule.DefaultMilestoneMonths
	}
	threshold := b.Threshold
	if threshold == 0 {
		threshold = schedule.DefaultCompletionThreshold
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}

	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		return nil, fmt.Errorf("scan projects directory %s: %w", b.Dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}

	results := make([]*types.ComparisonEntry, len(names))
	errs := make([]error, len(names))

	grp, grpCtx := errgroup.WithContext(ctx)
	if b.Workers > 0 {
		grp.SetLimit(b.Workers)
	}
	for i, name := range names {
		grp.Go(func() error {
			if err := grpCtx.Err(); err != nil {
				return err
			}
			p := project{
				name:      name,
				dir:       filepath.Join(b.Dir, name),
				offsets:   offsets,
				threshold: threshold,
				log:       log.With(zap.String("project", name)),
			}
			results[i], errs[i] = p.load()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}

	m := &types.ComparisonMatrix{
		GeneratedDate:    now().Format(schedule.DateLayout),
		Description:      Description,
		MilestoneColumns: make([]string, 0, len(offsets)),
		Projects:         []types.ComparisonEntry{},
	}
	for _, off := range offsets {
		m.MilestoneColumns = append(m.MilestoneColumns, ColumnLabel(off))
	}
	for _, r := range results {
		if r != nil {
			m.Projects = append(m.Projects, *r)
		}
	}
	return m, nil
}

// ColumnLabel names a milestone column of the matrix.
func ColumnLabel(month int) string {
	if month == 0 {
		return "tge"
	}
	return fmt.Sprintf("month_%d", month)
}

// UnlockRate is the average monthly change of the overall cumulative pct over
// [m1, m2], rounded to 2 decimals. It is 0 when either month is missing or
// the interval is empty.
func UnlockRate(months []schedule.MonthEntry, m1, m2 int) float64 {
	if m1 == m2 {
		return 0
	}
	byMonth := schedule.Lookup(months)
	start, ok1 := byMonth[m1]
	end, ok2 := byMonth[m2]
	if !ok1 || !ok2 {
		return 0
	}
	return schedule.Round2((end.Total.CumulativePct - start.Total.CumulativePct) / float64(m2-m1))
}

type project struct {
	name      string
	dir       string
	offsets   []int
	threshold float64
	log       *zap.Logger
}

func (p project) load() (*types.ComparisonEntry, error) {
	gen, err := genesis.LoadOptional(filepath.Join(p.dir, "genesis.json"))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.name, err)
	}
	vesting, err := p.document(types.Vesting)
	if err != nil {
		return nil, err
	}
	emission, err := p.document(types.Emission)
	if err != nil {
		return nil, err
	}

	var (
		kind types.ScheduleKind
		doc  *types.ScheduleDocument
	)
	switch {
	case vesting != nil:
		kind, doc = types.Vesting, vesting
	case emission != nil:
		kind, doc = types.Emission, emission
	case gen == nil || !gen.HasPremine:
		p.log.Debug("no schedules, recording fair launch")
		return &types.ComparisonEntry{
			Name:           p.name,
			AllocationType: types.AllocationFairLaunch,
			Note:           FairLaunchNote,
		}, nil
	default:
		p.log.Warn("project declares a premine but has no schedule, skipping")
		return nil, nil
	}
	p.log.Debug("loaded schedule", zap.Stringer("kind", kind), zap.Int("months", len(doc.MonthlySchedule)))

	months := schedule.FromDocument(kind, doc)
	e := &types.ComparisonEntry{
		Name:                p.name,
		HasPremine:          kind == types.Vesting,
		AllocationType:      kind.AllocationType(),
		GenesisDate:         doc.GenesisDate,
		HasEmissionSchedule: emission != nil,
		TierComposition:     doc.TierTotals,
		Milestones:          p.milestones(months),
		UnlockMetrics:       p.unlockMetrics(kind, months),
	}
	if gen != nil {
		e.HasPremine = gen.HasPremine
	}
	pct := gen.TotalPct()
	e.TotalGenesisAllocationPct = &pct
	types.Assign(kind, &e.TotalGenesisAllocationTokens, &e.TotalEmissionTokens, kind.TotalTokens(doc))
	return e, nil
}

// document reads <stem>.json of the given kind, nil when absent.
func (p project) document(kind types.ScheduleKind) (*types.ScheduleDocument, error) {
	doc, err := schedule.ReadDocument(filepath.Join(p.dir, kind.FileStem()+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.name, err)
	}
	return doc, nil
}

func (p project) milestones(months []schedule.MonthEntry) map[string]types.ComparisonMilestone {
	byMonth := schedule.Lookup(months)
	out := map[string]types.ComparisonMilestone{}
	for _, off := range p.offsets {
		e, ok := byMonth[off]
		if !ok {
			continue
		}
		ms := types.ComparisonMilestone{
			LiquidPct:     e.Total.CumulativePct,
			LiquidTokens:  e.Total.CumulativeTokens,
			Date:          e.Date,
			TierBreakdown: make(map[string]types.TierBreakdown, len(e.Tiers)),
		}
		for tier, agg := range e.Tiers {
			ms.TierBreakdown[tier] = types.TierBreakdown{Pct: agg.CumulativePct, Tokens: agg.CumulativeTokens}
		}
		out[ColumnLabel(off)] = ms
	}
	return out
}

func (p project) unlockMetrics(kind types.ScheduleKind, months []schedule.MonthEntry) *types.UnlockMetrics {
	um := &types.UnlockMetrics{
		AvgMonthlyUnlockRateYear1Pct: UnlockRate(months, 0, 12),
		AvgMonthlyUnlockRateYear2Pct: UnlockRate(months, 12, 24),
	}
	e, reached, ok := schedule.Completion(months, p.threshold)
	if !ok {
		return um
	}
	month, date := e.Month, e.Date
	um.FullUnlockMonth, um.FullUnlockDate = &month, &date
	if !reached {
		um.Note = kind.IncompleteNote(e.Total.CumulativePct)
	}
	return um
}
