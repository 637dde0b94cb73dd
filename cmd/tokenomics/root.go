package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lumera-labs/tokenomics-tracker/pkg/config"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

// app carries what every subcommand needs once the root command has run
// its pre-run hook.
type app struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "tokenomics",
		Short:         "Validate, convert and compare token distribution schedules",
		Version:       fmt.Sprintf("%s (%s)", GitTag, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a TOML config file (default "+config.DefaultFile+" if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newConvertCmd(a, types.Vesting),
		newConvertCmd(a, types.Emission),
		newCompareCmd(a),
		newValidateCmd(a),
		newScaffoldCmd(a),
	)
	return root
}

func (a *app) init() error {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log = log

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log.Debug("configuration loaded",
		zap.String("projects_dir", cfg.ProjectsDir),
		zap.Ints("milestone_months", cfg.MilestoneMonths),
		zap.Int("workers", cfg.Workers))
	return nil
}
