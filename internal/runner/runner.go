// Package runner executes a projection in single or Monte Carlo mode and
// returns the formatted response. The CLI and the HTTP API share it.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/colonysim/internal/engine"
	"github.com/talgya/colonysim/internal/montecarlo"
	"github.com/talgya/colonysim/internal/params"
	"github.com/talgya/colonysim/internal/report"
)

// Options selects the mode and execution limits.
type Options struct {
	MonteCarlo bool
	Seed       int64         // 0 = random
	Workers    int           // Monte Carlo only; 0 = GOMAXPROCS
	Timeout    time.Duration // Monte Carlo only; 0 = no limit
}

// Run projects p and formats the result.
func Run(ctx context.Context, p params.Set, opts Options) (*report.Response, error) {
	start := time.Now()

	if !opts.MonteCarlo {
		res, err := engine.RunSingle(p, engine.Options{Seed: opts.Seed})
		if err != nil {
			return nil, err
		}
		slog.Info("projection complete",
			"mode", report.ModeSingle,
			"seed", res.Seed,
			"months", len(res.Records),
			"final_population", res.Summary.FinalPopulation,
			"elapsed", time.Since(start).Round(time.Microsecond),
		)
		return report.FromSingle(res), nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	res, err := montecarlo.Run(ctx, p, montecarlo.Options{Seed: opts.Seed, Workers: opts.Workers})
	if err != nil {
		return nil, fmt.Errorf("monte carlo: %w", err)
	}
	return report.FromMonteCarlo(res, p), nil
}
