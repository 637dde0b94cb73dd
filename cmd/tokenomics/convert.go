package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/report"
	"github.com/lumera-labs/tokenomics-tracker/pkg/schedule"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

const genesisFile = "genesis.json"

var errEmptySchedule = errors.New("schedule is empty")

func newConvertCmd(a *app, kind types.ScheduleKind) *cobra.Command {
	return &cobra.Command{
		Use:   kind.String() + " <schedule.csv> [genesis.json]",
		Short: fmt.Sprintf("Validate a %s schedule CSV and convert it to JSON", kind),
		Long: fmt.Sprintf(`Reads a monthly %[1]s schedule, checks it against itself and the genesis
declaration, and writes the aggregated document next to the CSV.

The genesis file defaults to %[2]s in the same directory as the CSV. Nothing
is written when any row fails validation.`, kind, genesisFile),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd, kind, args)
		},
	}
}

func (a *app) convert(cmd *cobra.Command, kind types.ScheduleKind, args []string) error {
	out := cmd.OutOrStdout()
	csvPath := args[0]
	if _, err := os.Stat(csvPath); err != nil {
		return fmt.Errorf("schedule file not found: %s", csvPath)
	}

	gen, err := a.loadGenesis(csvPath, args[1:])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Reading %s schedule from %s\n", kind, csvPath)
	rows, err := schedule.ReadFile(csvPath, kind)
	if err != nil {
		return fmt.Errorf("read %s: %w", csvPath, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s: %w", csvPath, errEmptySchedule)
	}
	a.log.Debug("schedule loaded", zap.String("path", csvPath), zap.Int("rows", len(rows)))

	ref := genesis.NewReference(gen)
	if findings := schedule.Validate(rows, ref, kind, a.cfg.Tolerance.CompletionPct); len(findings) > 0 {
		report.Findings(out, types.Report{Errors: findings})
		return fmt.Errorf("%s: %d validation error(s), no output written", csvPath, len(findings))
	}

	doc := schedule.Convert(kind, rows, gen, schedule.Options{
		MilestoneMonths:     a.cfg.MilestoneMonths,
		CompletionThreshold: a.cfg.Tolerance.CompletionThreshold,
	})
	jsonPath := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".json"
	if err := schedule.WriteFile(jsonPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "Validation passed, wrote %s\n", jsonPath)
	report.Schedule(out, kind, doc)
	return nil
}

// loadGenesis reads the explicit genesis argument, which must exist, or the
// sibling genesis.json of csvPath, which may be absent.
func (a *app) loadGenesis(csvPath string, explicit []string) (*genesis.Document, error) {
	if len(explicit) > 0 {
		gen, err := genesis.Load(explicit[0])
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("genesis file not found: %s", explicit[0])
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit[0], err)
		}
		return gen, nil
	}

	path := filepath.Join(filepath.Dir(csvPath), genesisFile)
	gen, err := genesis.LoadOptional(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if gen == nil {
		a.log.Warn("no genesis file next to schedule, bucket names are not checked", zap.String("path", path))
	}
	return gen, nil
}
