package schedule

import "github.com/lumera-labs/tokenomics-tracker/pkg/types"

// DefaultMilestoneMonths are the month offsets reported for every schedule.
var DefaultMilestoneMonths = []int{0, 6, 12, 18, 24, 36, 48}

// DefaultCompletionThreshold is the overall cumulative percentage at which a
// schedule counts as complete.
const DefaultCompletionThreshold = 99.9

// Milestone is a snapshot of overall cumulative progress at one month.
type Milestone struct {
	Month            int
	Date             string
	CumulativePct    float64
	CumulativeTokens int64
	// Note is set on a completion milestone that never reached the threshold.
	Note string
}

func milestoneOf(e MonthEntry) Milestone {
	return Milestone{
		Month:            e.Month,
		Date:             e.Date,
		CumulativePct:    e.Total.CumulativePct,
		CumulativeTokens: e.Total.CumulativeTokens,
	}
}

// Lookup indexes month entries by month.
func Lookup(months []MonthEntry) map[int]MonthEntry {
	out := make(map[int]MonthEntry, len(months))
	for _, e := range months {
		out[e.Month] = e
	}
	return out
}

// Completion scans from the latest month backwards and returns the first
// month whose overall cumulative percentage reaches threshold. If none does,
// it returns the last month and reached=false. ok is false for an empty
// schedule.
func Completion(months []MonthEntry, threshold float64) (entry MonthEntry, reached, ok bool) {
	if len(months) == 0 {
		return MonthEntry{}, false, false
	}
	for i := len(months) - 1; i >= 0; i-- {
		if months[i].Total.CumulativePct >= threshold {
			return months[i], true, true
		}
	}
	return months[len(months)-1], false, true
}

// ExtractMilestones returns the milestones of an aggregated schedule keyed by
// canonical label: one per requested offset present as a month, plus the
// completion milestone. A completion milestone that reached threshold
// reports 100 percent; its token count is the month's actual cumulative.
func ExtractMilestones(kind types.ScheduleKind, months []MonthEntry, offsets []int, threshold float64) map[string]Milestone {
	out := map[string]Milestone{}
	byMonth := Lookup(months)
	for _, m := range offsets {
		if e, ok := byMonth[m]; ok {
			out[kind.MilestoneLabel(m)] = milestoneOf(e)
		}
	}

	e, reached, ok := Completion(months, threshold)
	if !ok {
		return out
	}
	ms := milestoneOf(e)
	if reached {
		ms.CumulativePct = 100
	} else {
		ms.Note = kind.IncompleteNote(e.Total.CumulativePct)
	}
	out[kind.CompletionLabel()] = ms
	return out
}
