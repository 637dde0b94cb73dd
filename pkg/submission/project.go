// Package submission checks a project's data/projects/<name>.json and, for
// premined projects, its allocations/<name>/genesis.json before they are
// accepted into the tracker.
package submission

import "encoding/json"

// Project is the part of a project document the arithmetic checks read.
// Numbers are pointers so an absent field is told apart from zero.
type Project struct {
	Project     string  `json:"project"`
	Ticker      string  `json:"ticker"`
	Consensus   string  `json:"consensus"`
	LaunchDate  *string `json:"launch_date"`
	LastUpdated *string `json:"last_updated"`
	HasPremine  bool    `json:"has_premine"`

	Supply      Supply                     `json:"supply"`
	Emission    Emission                   `json:"emission"`
	DataSources map[string]json.RawMessage `json:"data_sources"`
}

type Supply struct {
	MaxSupply         *float64 `json:"max_supply"`
	CurrentSupply     *float64 `json:"current_supply"`
	PctMined          *float64 `json:"pct_mined"`
	EmissionRemaining *float64 `json:"emission_remaining"`
}

type Emission struct {
	CurrentBlockReward *float64 `json:"current_block_reward"`
	BlockTimeSeconds   *float64 `json:"block_time_seconds"`
	DailyEmission      *float64 `json:"daily_emission"`
	AnnualInflationPct *float64 `json:"annual_inflation_pct"`
}

// URLFields are the data_sources keys that must hold lists of http(s) URLs.
var URLFields = []string{"official_docs", "block_explorer", "market_data", "mining_data"}

// set reports whether every value is present and non-zero.
func set(vs ...*float64) bool {
	for _, v := range vs {
		if v == nil || *v == 0 {
			return false
		}
	}
	return true
}
