package types

import "fmt"

// ScheduleKind tells vesting schedules apart from emission schedules. Every
// name that differs between the two (CSV columns, JSON keys, milestone labels)
// is derived from the kind rather than looked up ad hoc.
type ScheduleKind int

const (
	Vesting ScheduleKind = iota
	Emission
)

// MechanismBlockReward is the genesis allocation_mechanism required for
// buckets referenced by an emission schedule.
const MechanismBlockReward = "block_reward_emission"

func ParseScheduleKind(s string) (ScheduleKind, error) {
	switch s {
	case "vesting":
		return Vesting, nil
	case "emission":
		return Emission, nil
	}
	return 0, fmt.Errorf("unknown schedule kind %q", s)
}

func (k ScheduleKind) String() string {
	if k == Emission {
		return "emission"
	}
	return "vesting"
}

// AmountField is the prefix of the per-row amount columns.
func (k ScheduleKind) AmountField() string {
	if k == Emission {
		return "emission"
	}
	return "unlock"
}

func (k ScheduleKind) AmountColumn() string    { return k.AmountField() + "_tokens" }
func (k ScheduleKind) AmountPctColumn() string { return k.AmountField() + "_pct_of_bucket" }

func (k ScheduleKind) AllocationType() string {
	if k == Emission {
		return "emission_based"
	}
	return "vesting_based"
}

// FileStem is the base name shared by the CSV input and the JSON output.
func (k ScheduleKind) FileStem() string { return k.String() + "-schedule" }

// GenesisLabel is the milestone label for month 0.
func (k ScheduleKind) GenesisLabel() string {
	if k == Emission {
		return "at_genesis"
	}
	return "at_tge"
}

func (k ScheduleKind) CompletionLabel() string {
	if k == Emission {
		return "at_completion"
	}
	return "at_full_unlock"
}

// MilestoneLabel returns the canonical label for a month offset.
func (k ScheduleKind) MilestoneLabel(month int) string {
	if month == 0 {
		return k.GenesisLabel()
	}
	return fmt.Sprintf("at_month_%d", month)
}

// RequiredMechanism is the allocation_mechanism every referenced genesis
// bucket must declare (when it declares one at all). Empty means unconstrained.
func (k ScheduleKind) RequiredMechanism() string {
	if k == Emission {
		return MechanismBlockReward
	}
	return ""
}

// IncompleteNote describes a schedule whose last month stays below completion.
func (k ScheduleKind) IncompleteNote(pct float64) string {
	if k == Emission {
		return fmt.Sprintf("Not fully emitted - only %s%% emitted", FormatNumber(pct))
	}
	return fmt.Sprintf("Not fully vested - only %s%% unlocked", FormatNumber(pct))
}

// CumulativePct reads the month's overall cumulative percentage from the key
// belonging to k. Emission totals fall back to the vesting key when
// cumulative_pct_of_total is absent.
func (k ScheduleKind) CumulativePct(t MonthTotals) float64 {
	return deref(pick(k, t.CumulativePctOfGenesis, t.CumulativePctOfTotal))
}

// Amount reads the month's summed amount from the key belonging to k.
func (k ScheduleKind) Amount(t MonthTotals) int64 {
	return deref(pick(k, t.UnlockTokens, t.EmissionTokens))
}

// TierPct reads a tier's share of the schedule total.
func (k ScheduleKind) TierPct(t TierTotal) float64 {
	return deref(pick(k, t.PctOfGenesis, t.PctOfTotalEmission))
}

// TotalTokens reads the schedule's grand total.
func (k ScheduleKind) TotalTokens(d *ScheduleDocument) int64 {
	return deref(pick(k, d.TotalGenesisAllocationTokens, d.TotalEmissionTokens))
}

// pick returns the emission value for emission schedules unless it is
// missing, in which case the vesting value is used.
func pick[T any](k ScheduleKind, vesting, emission *T) *T {
	if k == Emission && emission != nil {
		return emission
	}
	return vesting
}

// Assign stores v in the slot belonging to k and clears the other one.
func Assign[T any](k ScheduleKind, vesting, emission **T, v T) {
	if k == Emission {
		*emission, *vesting = &v, nil
		return
	}
	*vesting, *emission = &v, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
