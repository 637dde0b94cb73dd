package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lumera-labs/tokenomics-tracker/pkg/compare"
	"github.com/lumera-labs/tokenomics-tracker/pkg/report"
	"github.com/lumera-labs/tokenomics-tracker/pkg/schedule"
)

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Build the cross-project comparison matrix",
		Long: `Scans every project directory under the configured projects_dir and
writes the comparison matrix to comparison_output.`,
		Args: cobra.NoArgs,
		RunE: a.compare,
	}
}

func (a *app) compare(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	b := &compare.Builder{
		Dir:       a.cfg.ProjectsDir,
		Offsets:   a.cfg.MilestoneMonths,
		Threshold: a.cfg.Tolerance.CompletionThreshold,
		Workers:   a.cfg.Workers,
		Logger:    a.log,
	}
	m, err := b.Build(cmd.Context())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(a.cfg.ComparisonOutput), 0o755); err != nil {
		return err
	}
	if err := schedule.WriteFile(a.cfg.ComparisonOutput, m); err != nil {
		return err
	}
	report.Matrix(out, m)
	fmt.Fprintf(out, "\nWrote %s\n", a.cfg.ComparisonOutput)
	return nil
}
