package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumera-labs/tokenomics-tracker/pkg/genesis"
	"github.com/lumera-labs/tokenomics-tracker/pkg/schedule"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
	"github.com/lumera-labs/tokenomics-tracker/pkg/vesting"
)

func newScaffoldCmd(a *app) *cobra.Command {
	var (
		totalSupply int64
		output      string
		force       bool
	)
	cmd := &cobra.Command{
		Use:   "scaffold <genesis.json>",
		Short: "Generate a vesting schedule CSV from genesis unlock terms",
		Long: `Writes a month-by-month vesting schedule for every non-emission bucket
of the genesis declaration, using its tge_unlock_pct, cliff_months and
vesting_months. The result is a starting point to edit by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = filepath.Join(filepath.Dir(args[0]), types.Vesting.FileStem()+".csv")
			}
			return a.scaffold(cmd, args[0], output, totalSupply, force)
		},
	}
	cmd.Flags().Int64Var(&totalSupply, "total-supply", 0, "total token supply used to size pct-based buckets")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default vesting-schedule.csv next to the genesis file)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")
	_ = cmd.MarkFlagRequired("total-supply")
	return cmd
}

func (a *app) scaffold(cmd *cobra.Command, genesisPath, output string, totalSupply int64, force bool) error {
	gen, err := genesis.Load(genesisPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("genesis file not found: %s", genesisPath)
	}
	if err != nil {
		return err
	}
	rows, err := vesting.Scaffold(gen, totalSupply)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s declares no vesting buckets", genesisPath)
	}
	if _, err := os.Stat(output); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", output)
	}
	if err := schedule.WriteCSVFile(output, types.Vesting, rows); err != nil {
		return err
	}
	a.log.Debug("scaffold written", zap.String("path", output), zap.Int("rows", len(rows)))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rows), output)
	return nil
}
