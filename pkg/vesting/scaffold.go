// Package vesting generates template vesting schedules from the unlock terms
// declared in a genesis document.
package vesting

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"time"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/schedule"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

var ErrNoGenesisDate = errors.New("genesis_date is required to date the schedule")

// Bucket is one allocation with its unlock terms resolved to integer tokens.
type Bucket struct {
	Tier  string
	Name  string
	Total string
	TGE   string
	Cliff int
	// Vesting is the month by which the whole bucket is unlocked, counted
	// from genesis. 0 means the remainder unlocks at once at the cliff.
	Vesting int
}

// Horizon is the last month at which the bucket still unlocks tokens.
func (b Bucket) Horizon() int { return max(b.Cliff, b.Vesting) }

// Unlocked returns the cumulative tokens of b unlocked at month.
func (e *Engine) Unlocked(b Bucket, month int) string {
	rest := sub(b.Total, b.TGE)
	var vested string
	if b.Vesting <= 0 {
		vested = e.DelayedUnlocked(rest, month, b.Cliff)
	} else {
		vested = e.CliffUnlocked(rest, month, 0, b.Cliff, b.Vesting)
	}
	return add(b.TGE, vested)
}

// Buckets resolves the non-emission buckets of d, tiers sorted by name and
// buckets in document order. A bucket is sized by absolute_tokens when
// declared, else by pct of totalSupply.
func Buckets(d *genesis.Document, totalSupply int64) []Bucket {
	e := NewEngine()
	tiers := make([]string, 0, len(d.AllocationTiers))
	for name := range d.AllocationTiers {
		tiers = append(tiers, name)
	}
	sort.Strings(tiers)

	var out []Bucket
	for _, tier := range tiers {
		for _, gb := range d.AllocationTiers[tier].Buckets {
			if gb.AllocationMechanism == types.MechanismBlockReward || gb.Name == "" {
				continue
			}
			b := Bucket{Tier: tier, Name: gb.Name, Cliff: max(gb.CliffMonths, 0)}
			if gb.VestingMonths != nil {
				b.Vesting = max(*gb.VestingMonths, 0)
			}
			if gb.AbsoluteTokens != nil {
				b.Total = new(big.Float).SetFloat64(*gb.AbsoluteTokens).Text('f', 0)
			} else {
				b.Total = mulRatio(strconv.FormatInt(totalSupply, 10), int64(gb.PctValue()*1e6+0.5), 100*1e6)
			}
			b.TGE, _ = e.Split(b.Total, gb.TGEUnlock())
			out = append(out, b)
		}
	}
	return out
}

// Scaffold builds a month-by-month vesting schedule for every non-emission
// bucket of d, from genesis to the latest bucket horizon.
func Scaffold(d *genesis.Document, totalSupply int64) ([]schedule.Row, error) {
	start, err := time.Parse(schedule.DateLayout, d.GenesisDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoGenesisDate, d.GenesisDate)
	}
	if totalSupply <= 0 {
		return nil, fmt.Errorf("total supply must be positive, got %d", totalSupply)
	}

	buckets := Buckets(d, totalSupply)
	horizon := 0
	for _, b := range buckets {
		horizon = max(horizon, b.Horizon())
	}

	e := NewEngine()
	var rows []schedule.Row
	line := 2
	for month := 0; month <= horizon; month++ {
		date := start.AddDate(0, month, 0).Format(schedule.DateLayout)
		for _, b := range buckets {
			cum := e.Unlocked(b, month)
			prev := "0"
			if month > 0 {
				prev = e.Unlocked(b, month-1)
			}
			total := number(b.Total)
			amount := number(sub(cum, prev))
			cumulative := number(cum)
			rows = append(rows, schedule.Row{
				Line:             line,
				Month:            month,
				Date:             date,
				Tier:             b.Tier,
				BucketName:       b.Name,
				AmountTokens:     amount,
				AmountPct:        schedule.Round2(schedule.Percent(amount, total)),
				CumulativeTokens: cumulative,
				CumulativePct:    schedule.Round2(schedule.Percent(cumulative, total)),
				Notes:            note(b, month),
			})
			line++
		}
	}
	return rows, nil
}

func note(b Bucket, month int) string {
	switch {
	case month == 0:
		return "TGE"
	case month == b.Cliff:
		return "cliff end"
	case month == b.Vesting:
		return "fully vested"
	}
	return ""
}

func number(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
