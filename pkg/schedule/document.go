package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

// UnknownProject names a schedule converted without a genesis declaration.
const UnknownProject = "unknown"

// Options tunes milestone extraction for Convert.
type Options struct {
	MilestoneMonths     []int
	CompletionThreshold float64
}

func (o Options) withDefaults() Options {
	if len(o.MilestoneMonths) == 0 {
		o.MilestoneMonths = DefaultMilestoneMonths
	}
	if o.CompletionThreshold == 0 {
		o.CompletionThreshold = DefaultCompletionThreshold
	}
	return o
}

// Convert aggregates rows and projects the result onto the JSON document of
// the given kind. gen may be nil.
func Convert(kind types.ScheduleKind, rows []Row, gen *genesis.Document, opts Options) *types.ScheduleDocument {
	opts = opts.withDefaults()
	agg := Aggregate(rows)

	doc := &types.ScheduleDocument{
		Project:          UnknownProject,
		GenesisDate:      UnknownProject,
		AllocationType:   kind.AllocationType(),
		TierTotals:       make(map[string]types.TierTotal, len(agg.TierOrder)),
		MonthlySchedule:  make([]types.MonthDocument, 0, len(agg.Months)),
		MilestoneSummary: map[string]types.MilestoneDocument{},
	}
	if len(rows) > 0 {
		doc.GenesisDate = rows[0].Date
	}
	if gen != nil {
		if gen.Project != "" {
			doc.Project = gen.Project
		}
		if gen.GenesisDate != "" {
			doc.GenesisDate = gen.GenesisDate
		}
	}

	grand := Tokens(agg.GrandTotal)
	declared := gen.TotalPct()
	if kind == types.Emission {
		declared = gen.MiningPct()
	}
	types.Assign(kind, &doc.TotalGenesisAllocationTokens, &doc.TotalEmissionTokens, grand)
	types.Assign(kind, &doc.TotalGenesisAllocationPct, &doc.TotalEmissionPct, declared)

	for _, tier := range agg.TierOrder {
		total := agg.TierTotals[tier]
		tt := types.TierTotal{Tokens: Tokens(total)}
		types.Assign(kind, &tt.PctOfGenesis, &tt.PctOfTotalEmission, Round2(Percent(total, agg.GrandTotal)))
		doc.TierTotals[tier] = tt
	}

	for _, e := range agg.Months {
		doc.MonthlySchedule = append(doc.MonthlySchedule, monthDocument(kind, e))
	}

	for label, m := range ExtractMilestones(kind, agg.Months, opts.MilestoneMonths, opts.CompletionThreshold) {
		md := types.MilestoneDocument{Month: m.Month, Date: m.Date, Note: m.Note}
		types.Assign(kind, &md.LiquidPctOfGenesis, &md.EmittedPctOfTotal, m.CumulativePct)
		types.Assign(kind, &md.LiquidTokens, &md.EmittedTokens, m.CumulativeTokens)
		doc.MilestoneSummary[label] = md
	}
	return doc
}

func monthDocument(kind types.ScheduleKind, e MonthEntry) types.MonthDocument {
	md := types.MonthDocument{
		Month:          e.Month,
		Date:           e.Date,
		Buckets:        make([]types.BucketDocument, 0, len(e.Buckets)),
		TierAggregates: make(map[string]types.TierAggregateDocument, len(e.Tiers)),
		Total:          types.MonthTotals{CumulativeTokens: e.Total.CumulativeTokens},
	}
	for _, b := range e.Buckets {
		bd := types.BucketDocument{
			Tier:                  b.Tier,
			BucketName:            b.BucketName,
			CumulativeTokens:      b.CumulativeTokens,
			CumulativePctOfBucket: b.CumulativePct,
			Notes:                 b.Notes,
		}
		types.Assign(kind, &bd.UnlockTokens, &bd.EmissionTokens, b.AmountTokens)
		types.Assign(kind, &bd.UnlockPctOfBucket, &bd.EmissionPctOfBucket, b.AmountPct)
		md.Buckets = append(md.Buckets, bd)
	}
	for tier, ta := range e.Tiers {
		td := types.TierAggregateDocument{
			CumulativeTokens:    ta.CumulativeTokens,
			CumulativePctOfTier: ta.CumulativePct,
		}
		types.Assign(kind, &td.UnlockTokens, &td.EmissionTokens, ta.AmountTokens)
		md.TierAggregates[tier] = td
	}
	types.Assign(kind, &md.Total.UnlockTokens, &md.Total.EmissionTokens, e.Total.AmountTokens)
	types.Assign(kind, &md.Total.CumulativePctOfGenesis, &md.Total.CumulativePctOfTotal, e.Total.CumulativePct)
	return md
}

// FromDocument reads the month entries back out of a schedule document. Bucket
// detail is not restored; the result serves milestone and rate lookups.
func FromDocument(kind types.ScheduleKind, doc *types.ScheduleDocument) []MonthEntry {
	if doc == nil {
		return nil
	}
	out := make([]MonthEntry, 0, len(doc.MonthlySchedule))
	for _, md := range doc.MonthlySchedule {
		e := MonthEntry{
			Month: md.Month,
			Date:  md.Date,
			Tiers: make(map[string]TierAggregate, len(md.TierAggregates)),
			Total: Totals{
				AmountTokens:     kind.Amount(md.Total),
				CumulativeTokens: md.Total.CumulativeTokens,
				CumulativePct:    kind.CumulativePct(md.Total),
			},
		}
		for tier, td := range md.TierAggregates {
			e.Tiers[tier] = TierAggregate{
				CumulativeTokens: td.CumulativeTokens,
				CumulativePct:    td.CumulativePctOfTier,
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Encode renders v as indented JSON with a trailing newline. Map keys are
// sorted by encoding/json, so equal values always encode to equal bytes.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes v and writes it to path.
func WriteFile(path string, v any) error {
	b, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadDocument decodes a schedule document written by WriteFile.
func ReadDocument(path string) (*types.ScheduleDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc types.ScheduleDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}
