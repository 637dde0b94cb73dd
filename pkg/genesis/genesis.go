package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Document is a project's genesis allocation declaration (genesis.json).
// Only tiers and buckets present in the document are known to a Reference;
// anything the document does not declare is left unchecked.
type Document struct {
	Project     string `json:"project"`
	HasPremine  bool   `json:"has_premine"`
	HasDevTax   bool   `json:"has_dev_tax"`
	GenesisDate string `json:"genesis_date"`

	TotalGenesisAllocationPct    *float64 `json:"total_genesis_allocation_pct"`
	AvailableForMiningGenesisPct *float64 `json:"available_for_mining_genesis_pct"`

	AllocationTiers map[string]Tier `json:"allocation_tiers"`

	raw []byte
}

type Tier struct {
	TotalPct         *float64 `json:"total_pct"`
	PctOfTotalSupply *float64 `json:"pct_of_total_supply"`
	// Buckets is nil when the tier has no buckets key at all.
	Buckets []Bucket `json:"buckets"`
}

type Bucket struct {
	Name                string   `json:"name"`
	Pct                 *float64 `json:"pct"`
	AllocationMechanism string   `json:"allocation_mechanism,omitempty"`
	TGEUnlockPct        *float64 `json:"tge_unlock_pct"`
	CliffMonths         int      `json:"cliff_months"`
	VestingMonths       *int     `json:"vesting_months"`
	AbsoluteTokens      *float64 `json:"absolute_tokens"`
}

// Load reads and decodes a genesis document.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// LoadOptional is Load for callers that treat a missing file as "no genesis
// declaration". It returns (nil, nil) when path does not exist.
func LoadOptional(path string) (*Document, error) {
	d, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return d, err
}

// Parse decodes a genesis document from raw JSON.
func Parse(b []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse genesis document: %w", err)
	}
	d.raw = b
	return &d, nil
}

// Raw returns the bytes the document was decoded from.
func (d *Document) Raw() []byte {
	if d == nil {
		return nil
	}
	return d.raw
}

// TotalPct is total_genesis_allocation_pct, 0 when undeclared.
func (d *Document) TotalPct() float64 {
	if d == nil || d.TotalGenesisAllocationPct == nil {
		return 0
	}
	return *d.TotalGenesisAllocationPct
}

// MiningPct is available_for_mining_genesis_pct, 0 when undeclared.
func (d *Document) MiningPct() float64 {
	if d == nil || d.AvailableForMiningGenesisPct == nil {
		return 0
	}
	return *d.AvailableForMiningGenesisPct
}

func (b Bucket) PctValue() float64 {
	if b.Pct == nil {
		return 0
	}
	return *b.Pct
}

func (b Bucket) TGEUnlock() float64 {
	if b.TGEUnlockPct == nil {
		return 0
	}
	return *b.TGEUnlockPct
}
