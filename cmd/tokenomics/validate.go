package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumera-labs/tokenomics-tracker/pkg/report"
	"github.com/lumera-labs/tokenomics-tracker/pkg/submission"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project>",
		Short: "Check a project submission before it is merged",
		Long: `Validates the project document under projects_data_dir and, for premined
projects, its genesis declaration under projects_dir. Warnings never fail the
command.`,
		Args: cobra.ExactArgs(1),
		RunE: a.validate,
	}
}

func (a *app) validate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	v := &submission.Validator{
		DataDir:        a.cfg.ProjectsDataDir,
		AllocationsDir: a.cfg.ProjectsDir,
		StaleAfterDays: a.cfg.StaleAfterDays,
		SumTolerance:   a.cfg.Tolerance.SumPct,
		Logger:         a.log,
	}
	fmt.Fprintf(out, "Validating %s\n", args[0])
	r, err := v.Validate(args[0])
	if err != nil {
		return err
	}
	report.Findings(out, r)
	if !r.OK() {
		return fmt.Errorf("%s: %d validation error(s)", args[0], len(r.Errors))
	}
	fmt.Fprintln(out, "\nValidation passed")
	return nil
}
