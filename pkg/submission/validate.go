package submission

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/schedule"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
	"github.com/lumera-labs/tokenomics-tracker/schema"
)

const (
	pctTolerance   = 0.1
	tokenTolerance = 1.0
	secondsPerDay  = 86400
	commentPrefix  = "_comment"
)

// Validator checks one submitted project at a time.
type Validator struct {
	// DataDir holds <name>.json project documents.
	DataDir string
	// AllocationsDir holds <name>/genesis.json declarations.
	AllocationsDir string
	StaleAfterDays int
	SumTolerance   float64
	Now            func() time.Time
	Logger         *zap.Logger
}

// ProjectPath is where the project document of name is expected.
func (v *Validator) ProjectPath(name string) string {
	return filepath.Join(v.DataDir, name+".json")
}

func (v *Validator) GenesisPath(name string) string {
	return filepath.Join(v.AllocationsDir, name, "genesis.json")
}

// Validate runs every check against the named project. A missing or
// unparsable project document is returned as an error; everything else is
// reported in the returned Report.
func (v *Validator) Validate(name string) (types.Report, error) {
	var r types.Report
	log := v.Logger
	if log == nil {
		log = zap.NewNop()
	}

	path := v.ProjectPath(name)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, fmt.Errorf("project file not found: %s", path)
	}
	if err != nil {
		return r, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return r, fmt.Errorf("invalid JSON in project file %s: %w", path, err)
	}
	log.Debug("loaded project file", zap.String("path", path))

	findings, err := schema.Validate(schema.Project, raw)
	if err != nil {
		return r, err
	}
	for _, f := range findings {
		r.Error(f)
	}

	var p Project
	if err := json.Unmarshal(raw, &p); err != nil {
		if len(findings) == 0 {
			r.Error(types.Finding{Code: types.CodeSchema, Message: fmt.Sprintf("Project file does not decode: %v", err)})
		}
	} else {
		checkSources(&r, p)
		checkSupply(&r, p.Supply)
		checkEmission(&r, p)
		v.checkDates(&r, p)
		checkURLs(&r, p)
	}

	var genesisTree any
	if premined(tree) {
		genesisTree = v.checkGenesis(&r, name, log)
	}

	checkComments(&r, tree, "project")
	if genesisTree != nil {
		checkComments(&r, genesisTree, "genesis")
	}
	return r, nil
}

func premined(tree any) bool {
	m, _ := tree.(map[string]any)
	b, _ := m["has_premine"].(bool)
	return b
}

func checkSources(r *types.Report, p Project) {
	if p.DataSources == nil {
		return
	}
	for _, key := range []string{"official_docs", "block_explorer"} {
		if empty(p.DataSources[key]) {
			r.Warn(types.Finding{
				Code:    types.CodeMissingSource,
				Message: fmt.Sprintf("No %s provided in data_sources", key),
			})
		}
	}
}

func empty(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "[]", `""`, "false", "0", "{}":
		return true
	}
	return false
}

func checkSupply(r *types.Report, s Supply) {
	if s.MaxSupply == nil {
		if s.PctMined != nil {
			r.Warn(types.Finding{
				Code:    types.CodeUnlimitedPctMined,
				Message: "pct_mined should be null if max_supply is null (unlimited supply)",
			})
		}
		return
	}
	if set(s.CurrentSupply, s.MaxSupply, s.PctMined) {
		want := *s.CurrentSupply / *s.MaxSupply * 100
		if math.Abs(want-*s.PctMined) > pctTolerance {
			r.Error(types.Finding{
				Code:    types.CodeSupplyMath,
				Message: fmt.Sprintf("pct_mined incorrect: %s%% (should be %.2f%%)", types.FormatNumber(*s.PctMined), want),
				Hint:    "Formula: (current_supply / max_supply) * 100",
			})
		}
	}
	if set(s.MaxSupply, s.CurrentSupply, s.EmissionRemaining) {
		want := *s.MaxSupply - *s.CurrentSupply
		if math.Abs(want-*s.EmissionRemaining) > tokenTolerance {
			r.Error(types.Finding{
				Code:    types.CodeSupplyMath,
				Message: fmt.Sprintf("emission_remaining incorrect: %s (should be %.0f)", types.FormatNumber(*s.EmissionRemaining), want),
				Hint:    "Formula: max_supply - current_supply",
			})
		}
	}
}

func checkEmission(r *types.Report, p Project) {
	e := p.Emission
	if set(e.CurrentBlockReward, e.BlockTimeSeconds, e.DailyEmission) {
		want := secondsPerDay / *e.BlockTimeSeconds * *e.CurrentBlockReward
		if math.Abs(want-*e.DailyEmission) > tokenTolerance {
			r.Error(types.Finding{
				Code:    types.CodeEmissionMath,
				Message: fmt.Sprintf("daily_emission incorrect: %s (should be ~%.0f)", types.FormatNumber(*e.DailyEmission), want),
				Hint:    "Formula: (86400 / block_time_seconds) * current_block_reward",
			})
		}
	}
	if set(e.DailyEmission, p.Supply.CurrentSupply, e.AnnualInflationPct) {
		want := *e.DailyEmission * 365 / *p.Supply.CurrentSupply * 100
		if math.Abs(want-*e.AnnualInflationPct) > pctTolerance {
			r.Error(types.Finding{
				Code:    types.CodeEmissionMath,
				Message: fmt.Sprintf("annual_inflation_pct incorrect: %s%% (should be ~%.2f%%)", types.FormatNumber(*e.AnnualInflationPct), want),
				Hint:    "Formula: (daily_emission * 365 / current_supply) * 100",
			})
		}
	}
}

func (v *Validator) checkDates(r *types.Report, p Project) {
	checkDate(r, "launch_date", p.LaunchDate)
	if !checkDate(r, "last_updated", p.LastUpdated) || p.LastUpdated == nil {
		return
	}
	updated, _ := time.Parse(schedule.DateLayout, *p.LastUpdated)
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	days := int(now().Sub(updated).Hours() / 24)
	if days > v.StaleAfterDays {
		r.Warn(types.Finding{
			Code:    types.CodeStaleData,
			Message: fmt.Sprintf("Data is %d days old (last_updated: %s)", days, *p.LastUpdated),
			Hint:    "Consider refreshing with current data",
		})
	}
}

// checkDate reports a malformed date and returns whether the value is usable.
func checkDate(r *types.Report, field string, value *string) bool {
	if value == nil {
		return true
	}
	if _, err := time.Parse(schedule.DateLayout, *value); err != nil {
		r.Error(types.Finding{
			Code:    types.CodeDateFormat,
			Message: fmt.Sprintf("Invalid date format for %s: %s", field, *value),
			Hint:    "Must be YYYY-MM-DD format (e.g., 2023-01-15)",
		})
		return false
	}
	return true
}

func checkURLs(r *types.Report, p Project) {
	for _, field := range URLFields {
		raw, ok := p.DataSources[field]
		if !ok {
			continue
		}
		var urls []any
		if err := json.Unmarshal(raw, &urls); err != nil || urls == nil {
			r.Error(types.Finding{
				Code:    types.CodeURLFormat,
				Message: fmt.Sprintf("data_sources.%s must be a list", field),
			})
			continue
		}
		for _, u := range urls {
			s, _ := u.(string)
			if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
				r.Error(types.Finding{
					Code:    types.CodeURLFormat,
					Message: fmt.Sprintf("Invalid URL in data_sources.%s: %v", field, u),
					Hint:    "URLs must start with http:// or https://",
				})
			}
		}
	}
}

// checkGenesis validates the genesis declaration of a premined project and
// returns its decoded tree for the comment scan, nil when unavailable.
func (v *Validator) checkGenesis(r *types.Report, name string, log *zap.Logger) any {
	path := v.GenesisPath(name)
	raw, err := os.ReadFile(path)
	if err != nil {
		r.Error(types.Finding{
			Code:    types.CodeMissingGenesis,
			Message: fmt.Sprintf("Genesis file missing: %s (project has has_premine=true)", path),
			Hint:    fmt.Sprintf("Create %s", path),
		})
		return nil
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		r.Error(types.Finding{
			Code:    types.CodeMissingGenesis,
			Message: fmt.Sprintf("Invalid JSON in genesis file: %v", err),
		})
		return nil
	}
	log.Debug("loaded genesis file", zap.String("path", path))

	findings, err := schema.Validate(schema.Genesis, raw)
	if err != nil {
		r.Error(types.Finding{Code: types.CodeSchema, Message: err.Error()})
		return tree
	}
	for _, f := range findings {
		r.Error(f)
	}

	doc, err := genesis.Parse(raw)
	if err != nil {
		if len(findings) == 0 {
			r.Error(types.Finding{Code: types.CodeSchema, Message: err.Error()})
		}
		return tree
	}
	if doc.Project != name {
		r.Error(types.Finding{
			Code:    types.CodeProjectMismatch,
			Message: fmt.Sprintf("Project name mismatch: main file %q, genesis file %q", name, doc.Project),
		})
	}
	if doc.GenesisDate != "" {
		checkDate(r, "genesis_date", &doc.GenesisDate)
	}
	r.Merge(genesis.Check(doc, v.SumTolerance))
	return tree
}

// checkComments reports every key starting with _comment left in a document.
func checkComments(r *types.Report, node any, path string) {
	switch n := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := path + "." + k
			if strings.HasPrefix(k, commentPrefix) {
				r.Error(types.Finding{
					Code:    types.CodeTemplateComment,
					Message: fmt.Sprintf("Template comment field still present: %s", child),
					Hint:    "Delete all keys starting with '_comment' before submitting",
				})
			}
			checkComments(r, n[k], child)
		}
	case []any:
		for i, item := range n {
			checkComments(r, item, fmt.Sprintf("%s[%d]", path, i))
		}
	}
}
