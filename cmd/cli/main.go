package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"statlab/adapters/battery"
	"statlab/internal"
	"statlab/internal/config"
	"statlab/internal/container"
	"statlab/internal/display"
	"statlab/internal/errors"
	"statlab/internal/report"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}

	c, err := container.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := newRootCmd(c, os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.FromDomain(err))
		os.Exit(errors.ExitCode(err))
	}
}

// app carries configuration and the persistent flags shared by every
// subcommand.
type app struct {
	deps   *container.Container
	logger *internal.Logger
	out    io.Writer

	trials   int
	seed     int64
	alpha    float64
	format   string
	digits   int
	rounding string
	percent  bool
}

func newRootCmd(deps *container.Container, out io.Writer) *cobra.Command {
	cfg := deps.Config
	a := &app{deps: deps, logger: deps.Logger, out: out}

	rootCmd := &cobra.Command{
		Use:   "statlab",
		Short: "Simulation-based inference for introductory statistics",
		Long: `statlab answers "could this have happened by chance?" by shuffling,
dealing and resampling data thousands of times and comparing the observed
statistic with the simulated distribution.

Defaults come from STATLAB_* environment variables (or a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&a.trials, "trials", cfg.Simulation.Trials, "Number of simulated trials")
	flags.Int64Var(&a.seed, "seed", cfg.Simulation.Seed, "Random seed (0 = unseeded)")
	flags.Float64Var(&a.alpha, "alpha", cfg.Simulation.Alpha, "Significance level for the verdict")
	flags.StringVar(&a.format, "format", "text", "Output format: text|markdown|html")
	flags.IntVar(&a.digits, "digits", cfg.Display.Digits, "Digits to display")
	flags.StringVar(&a.rounding, "rounding", string(cfg.Display.Rounding), "Rounding: fixed|sig")
	flags.BoolVar(&a.percent, "percent", cfg.Display.Proportions == display.ShowPercent, "Show proportions as percentages")

	rootCmd.AddCommand(
		newCorrelationCmd(a),
		newSlopeCmd(a),
		newShuffleCmd(a),
		newProportionCmd(a),
		newStreakCmd(a),
		newBootstrapCmd(a),
		newPoissonCmd(a),
		newCountCmd(a),
		newDescribeCmd(a),
	)
	rootCmd.SetOut(out)
	return rootCmd
}

// referee builds a battery configured from flags
func (a *app) referee() (*battery.PermutationReferee, error) {
	return a.deps.Referee(a.trials, a.seed, a.alpha)
}

func (a *app) builder() (*report.Builder, error) {
	rounding, err := display.ParseRoundingMode(a.rounding)
	if err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	prefs := display.Preferences{Rounding: rounding, Digits: a.digits, Proportions: display.ShowProportion}
	if a.percent {
		prefs.Proportions = display.ShowPercent
	}
	return report.NewBuilder(display.NewFormatter(prefs)), nil
}

// emit builds sections with the configured formatter and writes them in
// the chosen format.
func (a *app) emit(build func(b *report.Builder) []report.Section) error {
	format, err := report.ParseFormat(a.format)
	if err != nil {
		return errors.InvalidInput(err.Error())
	}
	builder, err := a.builder()
	if err != nil {
		return err
	}
	for i, s := range build(builder) {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		rendered, err := builder.Render(s, format)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, rendered)
	}
	return nil
}
