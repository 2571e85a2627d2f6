package container

import (
	"fmt"

	"statlab/adapters/battery"
	"statlab/adapters/csvdata"
	"statlab/adapters/rng"
	"statlab/internal"
	"statlab/internal/config"
	"statlab/internal/errors"
	"statlab/internal/profiling"
	"statlab/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	RNG    ports.RNGPort
	Reader *csvdata.Reader

	// Descriptive statistics
	Profiler *profiling.DataProfiler
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Simulation.MaxTrials > battery.MaxShuffles {
		return nil, errors.ConfigInvalid(fmt.Sprintf("STATLAB_MAX_TRIALS must be at most %d, got %d",
			battery.MaxShuffles, cfg.Simulation.MaxTrials))
	}

	logger := cfg.Logger()
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		RNG:      rng.NewAdapter(),
		Reader:   csvdata.NewReader(logger),
		Profiler: profiling.NewDataProfiler(),
	}

	logger.Debug("container ready: trials=%d max=%d seed=%d alpha=%v",
		cfg.Simulation.Trials, cfg.Simulation.MaxTrials, cfg.Simulation.Seed, cfg.Simulation.Alpha)
	return c, nil
}

// Referee builds a battery for one command invocation. trials is checked
// against the configured cap, which New holds to battery.MaxShuffles, so
// SetNumShuffles never clamps it.
func (c *Container) Referee(trials int, seed int64, alpha float64) (*battery.PermutationReferee, error) {
	maxTrials := c.Config.Simulation.MaxTrials
	if trials < 1 || trials > maxTrials {
		return nil, errors.InvalidInput(fmt.Sprintf("--trials must be in [1, %d], got %d", maxTrials, trials))
	}

	referee := battery.NewPermutationReferee(c.RNG, c.Logger)
	referee.SetNumShuffles(trials)
	referee.SetSeed(seed)
	if err := referee.SetAlpha(alpha); err != nil {
		return nil, errors.FromDomain(err)
	}
	return referee, nil
}
