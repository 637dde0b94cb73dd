package types

// ScheduleDocument is the JSON artifact written next to a schedule CSV.
// Kind-specific keys are pointers so that only the keys of the document's own
// schedule kind are emitted; see ScheduleKind for the naming rules.
type ScheduleDocument struct {
	Project        string `json:"project"`
	GenesisDate    string `json:"genesis_date"`
	AllocationType string `json:"allocation_type"`

	TotalGenesisAllocationTokens *int64   `json:"total_genesis_allocation_tokens,omitempty"`
	TotalGenesisAllocationPct    *float64 `json:"total_genesis_allocation_pct,omitempty"`
	TotalEmissionTokens          *int64   `json:"total_emission_tokens,omitempty"`
	TotalEmissionPct             *float64 `json:"total_emission_pct,omitempty"`

	TierTotals       map[string]TierTotal         `json:"tier_totals"`
	MonthlySchedule  []MonthDocument              `json:"monthly_schedule"`
	MilestoneSummary map[string]MilestoneDocument `json:"milestone_summary"`
}

// TierTotal is a tier's total allocation and its share of the whole schedule.
type TierTotal struct {
	Tokens             int64    `json:"tokens"`
	PctOfGenesis       *float64 `json:"pct_of_genesis,omitempty"`
	PctOfTotalEmission *float64 `json:"pct_of_total_emission,omitempty"`
}

type MonthDocument struct {
	Month          int                              `json:"month"`
	Date           string                           `json:"date"`
	Buckets        []BucketDocument                 `json:"buckets"`
	TierAggregates map[string]TierAggregateDocument `json:"tier_aggregates"`
	Total          MonthTotals                      `json:"total"`
}

type BucketDocument struct {
	Tier                  string   `json:"tier"`
	BucketName            string   `json:"bucket_name"`
	UnlockTokens          *int64   `json:"unlock_tokens,omitempty"`
	UnlockPctOfBucket     *float64 `json:"unlock_pct_of_bucket,omitempty"`
	EmissionTokens        *int64   `json:"emission_tokens,omitempty"`
	EmissionPctOfBucket   *float64 `json:"emission_pct_of_bucket,omitempty"`
	CumulativeTokens      int64    `json:"cumulative_tokens"`
	CumulativePctOfBucket float64  `json:"cumulative_pct_of_bucket"`
	Notes                 string   `json:"notes"`
}

type TierAggregateDocument struct {
	UnlockTokens        *int64  `json:"unlock_tokens,omitempty"`
	EmissionTokens      *int64  `json:"emission_tokens,omitempty"`
	CumulativeTokens    int64   `json:"cumulative_tokens"`
	CumulativePctOfTier float64 `json:"cumulative_pct_of_tier"`
}

// MonthTotals sums every tier present in a month.
type MonthTotals struct {
	UnlockTokens           *int64   `json:"unlock_tokens,omitempty"`
	EmissionTokens         *int64   `json:"emission_tokens,omitempty"`
	CumulativeTokens       int64    `json:"cumulative_tokens"`
	CumulativePctOfGenesis *float64 `json:"cumulative_pct_of_genesis,omitempty"`
	CumulativePctOfTotal   *float64 `json:"cumulative_pct_of_total,omitempty"`
}

type MilestoneDocument struct {
	Month              int      `json:"month"`
	Date               string   `json:"date"`
	LiquidPctOfGenesis *float64 `json:"liquid_pct_of_genesis,omitempty"`
	LiquidTokens       *int64   `json:"liquid_tokens,omitempty"`
	EmittedPctOfTotal  *float64 `json:"emitted_pct_of_total,omitempty"`
	EmittedTokens      *int64   `json:"emitted_tokens,omitempty"`
	Note               string   `json:"note,omitempty"`
}

// ComparisonMatrix is the cross-project document written by the compare command.
type ComparisonMatrix struct {
	GeneratedDate    string            `json:"generated_date"`
	Description      string            `json:"description"`
	MilestoneColumns []string          `json:"milestone_columns"`
	Projects         []ComparisonEntry `json:"projects"`
}

// ComparisonEntry summarises one project. Fair-launch entries carry only
// Name, HasPremine, AllocationType and Note.
type ComparisonEntry struct {
	Name                string `json:"name"`
	HasPremine          bool   `json:"has_premine"`
	AllocationType      string `json:"allocation_type"`
	GenesisDate         string `json:"genesis_date,omitempty"`
	HasEmissionSchedule bool   `json:"has_emission_schedule,omitempty"`

	TotalGenesisAllocationTokens *int64   `json:"total_genesis_allocation_tokens,omitempty"`
	TotalEmissionTokens          *int64   `json:"total_emission_tokens,omitempty"`
	TotalGenesisAllocationPct    *float64 `json:"total_genesis_allocation_pct,omitempty"`

	TierComposition map[string]TierTotal           `json:"tier_composition,omitempty"`
	Milestones      map[string]ComparisonMilestone `json:"milestones,omitempty"`
	UnlockMetrics   *UnlockMetrics                 `json:"unlock_metrics,omitempty"`
	Note            string                         `json:"note,omitempty"`
}

type ComparisonMilestone struct {
	LiquidPct     float64                  `json:"liquid_pct"`
	LiquidTokens  int64                    `json:"liquid_tokens"`
	Date          string                   `json:"date"`
	TierBreakdown map[string]TierBreakdown `json:"tier_breakdown"`
}

type TierBreakdown struct {
	Pct    float64 `json:"pct"`
	Tokens int64   `json:"tokens"`
}

type UnlockMetrics struct {
	AvgMonthlyUnlockRateYear1Pct float64 `json:"avg_monthly_unlock_rate_year_1_pct"`
	AvgMonthlyUnlockRateYear2Pct float64 `json:"avg_monthly_unlock_rate_year_2_pct"`
	FullUnlockMonth              *int    `json:"full_unlock_month"`
	FullUnlockDate               *string `json:"full_unlock_date"`
	Note                         string  `json:"note,omitempty"`
}

// Allocation types that are not tied to a schedule kind.
const (
	AllocationFairLaunch = "fair_launch_only"
)
