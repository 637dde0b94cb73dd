// Package config loads tokenomics.toml and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "tokenomics.toml"

const (
	DefaultProjectsDir      = "allocations"
	DefaultProjectsDataDir  = "data/projects"
	DefaultComparisonOutput = "allocations/comparison-matrix.json"
	DefaultStaleAfterDays   = 30
	DefaultWorkers          = 4
)

type Config struct {
	ProjectsDir      string    `toml:"projects_dir"`
	ProjectsDataDir  string    `toml:"projects_data_dir"`
	ComparisonOutput string    `toml:"comparison_output"`
	MilestoneMonths  []int     `toml:"milestone_months"`
	StaleAfterDays   int       `toml:"stale_after_days"`
	Workers          int       `toml:"workers"`
	Tolerance        Tolerance `toml:"tolerance"`
}

type Tolerance struct {
	// CompletionPct bounds each bucket's final cumulative pct around 100.
	CompletionPct float64 `toml:"completion_pct"`
	// CompletionThreshold is the overall pct a schedule must reach to count
	// as complete.
	CompletionThreshold float64 `toml:"completion_threshold"`
	// SumPct bounds genesis percentage sums.
	SumPct float64 `toml:"sum_pct"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ProjectsDir:      DefaultProjectsDir,
		ProjectsDataDir:  DefaultProjectsDataDir,
		ComparisonOutput: DefaultComparisonOutput,
		MilestoneMonths:  []int{0, 6, 12, 18, 24, 36, 48},
		StaleAfterDays:   DefaultStaleAfterDays,
		Workers:          DefaultWorkers,
		Tolerance: Tolerance{
			CompletionPct:       0.1,
			CompletionThreshold: 99.9,
			SumPct:              0.1,
		},
	}
}

// Load layers defaults, the TOML file at path and TOKENOMICS_* environment
// variables, then validates the result. An empty path reads DefaultFile if
// it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.ProjectsDir = getEnv("TOKENOMICS_PROJECTS_DIR", cfg.ProjectsDir)
	cfg.ProjectsDataDir = getEnv("TOKENOMICS_PROJECTS_DATA_DIR", cfg.ProjectsDataDir)
	cfg.ComparisonOutput = getEnv("TOKENOMICS_COMPARISON_OUTPUT", cfg.ComparisonOutput)

	ints := []struct {
		key string
		dst *int
	}{
		{"TOKENOMICS_STALE_AFTER_DAYS", &cfg.StaleAfterDays},
		{"TOKENOMICS_WORKERS", &cfg.Workers},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("TOKENOMICS_MILESTONE_MONTHS"); v != "" {
		months, err := ParseMonths(v)
		if err != nil {
			return fmt.Errorf("TOKENOMICS_MILESTONE_MONTHS: %w", err)
		}
		cfg.MilestoneMonths = months
	}
	return nil
}

// ParseMonths parses a comma separated list such as "0,6,12".
func ParseMonths(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.ProjectsDir == "" {
		errs = append(errs, errors.New("projects_dir must not be empty"))
	}
	if len(c.MilestoneMonths) == 0 {
		errs = append(errs, errors.New("milestone_months must not be empty"))
	}
	for _, m := range c.MilestoneMonths {
		if m < 0 {
			errs = append(errs, fmt.Errorf("milestone month %d is negative", m))
		}
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.StaleAfterDays < 0 {
		errs = append(errs, fmt.Errorf("stale_after_days must not be negative, got %d", c.StaleAfterDays))
	}
	t := c.Tolerance
	if t.CompletionPct < 0 || t.SumPct < 0 {
		errs = append(errs, errors.New("tolerances must not be negative"))
	}
	if t.CompletionThreshold <= 0 || t.CompletionThreshold > 100 {
		errs = append(errs, fmt.Errorf("completion_threshold must be in (0, 100], got %v", t.CompletionThreshold))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
