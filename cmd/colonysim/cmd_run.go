package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/colonysim/internal/params"
	"github.com/talgya/colonysim/internal/persistence"
	"github.com/talgya/colonysim/internal/report"
	"github.com/talgya/colonysim/internal/runner"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Project one colony trajectory",
		Long: `Project one colony trajectory month by month.

Parameters start from the built-in defaults, then a --params YAML file, then
each --set name=value in order. Pass --seed to make the run reproducible; the
seed used is always reported.`,
		Example: `  colonysim run --set initialColonySize=30 --set monthlySterilizationRate=4
  colonysim run --params colony.yaml --seed 42 --chart colony.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return project(cmd, false)
		},
	}
	addProjectionFlags(cmd)
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "montecarlo",
		Aliases: []string{"mc"},
		Short:   "Run a Monte Carlo batch with percentile bands",
		Example: `  colonysim montecarlo --trials 500 --cv 0.15 --set monthlySterilizationRate=6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return project(cmd, true)
		},
	}
	addProjectionFlags(cmd)
	cmd.Flags().Int("trials", 0, "Number of trials (overrides numberOfSimulations)")
	cmd.Flags().Float64("cv", -1, "Per-trial variation coefficient (overrides variationCoefficient)")
	cmd.Flags().Int("workers", 0, "Concurrent trials (0 = config or GOMAXPROCS)")
	cmd.Flags().Duration("timeout", 0, "Batch timeout (0 = config)")
	return cmd
}

func addProjectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("params", "", "YAML file of parameter overrides")
	cmd.Flags().StringArray("set", nil, "Override one parameter as name=value (repeatable)")
	cmd.Flags().Int64("seed", 0, "Random seed (0 = random)")
	cmd.Flags().String("chart", "", "Write a PNG population chart to this path")
	cmd.Flags().Bool("save", false, "Store the run in the run database")
}

func project(cmd *cobra.Command, monteCarlo bool) error {
	p, err := buildParams(cmd)
	if err != nil {
		return err
	}

	opts := runner.Options{
		MonteCarlo: monteCarlo,
		Workers:    cfg.MonteCarlo.Workers,
		Timeout:    cfg.MonteCarlo.Timeout,
	}
	opts.Seed, _ = cmd.Flags().GetInt64("seed")
	if monteCarlo {
		if w, _ := cmd.Flags().GetInt("workers"); w > 0 {
			opts.Workers = w
		}
		if d, _ := cmd.Flags().GetDuration("timeout"); d > 0 {
			opts.Timeout = d
		}
	}

	resp, err := runner.Run(cmd.Context(), p, opts)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveRun(storePath(cmd), p, resp); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("chart"); path != "" {
		if err := writeChartFile(path, resp); err != nil {
			return err
		}
		slog.Info("chart written", "path", path)
	}

	if wantJSON(cmd) {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	return report.WriteTable(cmd.OutOrStdout(), resp)
}

// buildParams layers defaults, the --params file, --set pairs and the Monte
// Carlo shorthand flags, then validates once.
func buildParams(cmd *cobra.Command) (params.Set, error) {
	base := params.Defaults()
	if path, _ := cmd.Flags().GetString("params"); path != "" {
		loaded, err := params.Load(path)
		if err != nil {
			return params.Set{}, err
		}
		base = loaded
	}

	overrides := make(map[string]any)
	for k, v := range base.Map() {
		overrides[k] = v
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	parsed, err := parseSets(sets)
	if err != nil {
		return params.Set{}, err
	}
	for k, v := range parsed {
		overrides[k] = v
	}

	if f := cmd.Flags().Lookup("trials"); f != nil && f.Changed {
		n, _ := cmd.Flags().GetInt("trials")
		overrides["numberOfSimulations"] = n
	}
	if f := cmd.Flags().Lookup("cv"); f != nil && f.Changed {
		cv, _ := cmd.Flags().GetFloat64("cv")
		overrides["variationCoefficient"] = cv
	}

	return params.New(overrides)
}

// parseSets turns name=value pairs into canonical overrides. Later pairs
// win over earlier ones for the same parameter.
func parseSets(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--set %q: want name=value", pair)
		}
		canonical, known := params.Canonical(name)
		if !known {
			return nil, &params.ValidationError{Field: name, Value: raw, Reason: "unknown parameter"}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &params.ValidationError{Field: canonical, Value: raw, Reason: "must be numeric"}
		}
		out[canonical] = v
	}
	return out, nil
}

func saveRun(path string, p params.Set, resp *report.Response) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := persistence.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.SaveRun(p, resp)
	return err
}

func writeChartFile(path string, resp *report.Response) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := report.WriteChart(f, resp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
