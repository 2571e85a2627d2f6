package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"statlab/adapters/battery"
	"statlab/domain/run"
	"statlab/domain/sample"
	"statlab/domain/simulation"
	"statlab/domain/stats"
	"statlab/internal/errors"
	"statlab/internal/report"
	"statlab/ports"
)

// pairedFlags selects two numeric columns either from a CSV file or from
// inline comma-separated lists.
type pairedFlags struct {
	csv  string
	xCol string
	yCol string
	x    string
	y    string
}

func (p *pairedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.csv, "csv", "", "CSV file with a header row")
	cmd.Flags().StringVar(&p.xCol, "x-col", "x", "Explanatory column in --csv")
	cmd.Flags().StringVar(&p.yCol, "y-col", "y", "Response column in --csv")
	cmd.Flags().StringVar(&p.x, "x", "", "Inline explanatory values, e.g. 1,2,3")
	cmd.Flags().StringVar(&p.y, "y", "", "Inline response values")
}

func (p *pairedFlags) load(a *app) (sample.Paired, error) {
	if p.csv != "" {
		return a.deps.Reader.ReadPaired(p.csv, p.xCol, p.yCol)
	}
	if p.x == "" || p.y == "" {
		return sample.Paired{}, errors.InvalidInput("need --csv or both --x and --y")
	}
	x, err := parseList(p.x)
	if err != nil {
		return sample.Paired{}, err
	}
	y, err := parseList(p.y)
	if err != nil {
		return sample.Paired{}, err
	}
	paired, err := sample.NewPaired(x, y)
	if err != nil {
		return sample.Paired{}, errors.FromDomain(err)
	}
	return paired, nil
}

func parseList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("%q is not a number", f))
		}
		values = append(values, v)
	}
	return values, nil
}

// runBatches repeats test and merges the batches into one distribution, the
// way an applet's "add more trials" button does. Seeded runs offset the seed
// per batch so batches differ but the whole run still replays.
func (a *app) runBatches(referee *battery.PermutationReferee, batches, sampleSize int, tail simulation.Tail, test func() (*ports.TestResult, error)) (*ports.TestResult, error) {
	if batches < 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("--batches must be positive, got %d", batches))
	}
	if batches == 1 {
		return test()
	}

	acc := run.NewAccumulator()
	var last *ports.TestResult
	for i := 0; i < batches; i++ {
		if a.seed != 0 {
			referee.SetSeed(a.seed + int64(i))
		}
		res, err := test()
		if err != nil {
			return nil, err
		}
		if err := acc.Add(res.Simulation); err != nil {
			return nil, err
		}
		last = res
	}
	referee.SetSeed(a.seed)
	a.logger.Debug("accumulated %d batches into run %s (%d trials)", acc.Batches(), acc.RunID(), acc.Total())

	merged := simulation.Result{
		Kind:         acc.Kind(),
		Strategy:     last.Simulation.Strategy,
		Trials:       acc.Total(),
		Observed:     acc.Observed(),
		Distribution: acc.Distribution(),
		Dataset:      last.Simulation.Dataset,
		OffCentre:    last.Simulation.OffCentre,
	}
	res := referee.Judge(acc.RunID(), last.TestUsed, merged, tail, sampleSize)
	res.Reference = last.Reference
	return res, nil
}

func (a *app) emitTest(res *ports.TestResult, batches int) error {
	return a.emit(func(b *report.Builder) []report.Section {
		section := b.TestSection(res)
		if batches > 1 {
			section.Rows = append(section.Rows, [2]string{"Batches", strconv.Itoa(batches)})
		}
		return []report.Section{section}
	})
}

func parseTail(s string) (simulation.Tail, error) {
	tail, err := simulation.ParseTail(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return "", errors.FromDomain(err)
	}
	return tail, nil
}

// pairedCommand builds correlation, slope and shuffle, which differ only in
// the statistic they hand the battery.
func pairedCommand(a *app, use, short, long string, pick func(cmd *cobra.Command) (func(ctx context.Context, referee *battery.PermutationReferee, data sample.Paired, tail simulation.Tail) (*ports.TestResult, error), error)) *cobra.Command {
	var data pairedFlags
	var tailName string
	var batches int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			test, err := pick(cmd)
			if err != nil {
				return err
			}
			tail, err := parseTail(tailName)
			if err != nil {
				return err
			}
			paired, err := data.load(a)
			if err != nil {
				return err
			}
			referee, err := a.referee()
			if err != nil {
				return err
			}
			res, err := a.runBatches(referee, batches, paired.Len(), tail, func() (*ports.TestResult, error) {
				return test(cmd.Context(), referee, paired, tail)
			})
			if err != nil {
				return err
			}
			return a.emitTest(res, batches)
		},
	}

	data.register(cmd)
	cmd.Flags().StringVar(&tailName, "tail", "two-sided", "Tail: upper|lower|two-sided")
	cmd.Flags().IntVar(&batches, "batches", 1, "Repeat the simulation and accumulate the batches")
	return cmd
}

func newCorrelationCmd(a *app) *cobra.Command {
	return pairedCommand(a, "correlation", "Permutation test for Pearson's r",
		`Shuffle x against y and compare the observed correlation with the shuffled ones.

Example: statlab correlation --csv study.csv --x-col hours --y-col score --tail upper --seed 7`,
		func(*cobra.Command) (func(context.Context, *battery.PermutationReferee, sample.Paired, simulation.Tail) (*ports.TestResult, error), error) {
			return func(ctx context.Context, referee *battery.PermutationReferee, data sample.Paired, tail simulation.Tail) (*ports.TestResult, error) {
				return referee.CorrelationTest(ctx, data, tail)
			}, nil
		})
}

func newSlopeCmd(a *app) *cobra.Command {
	return pairedCommand(a, "slope", "Permutation test for the least-squares slope",
		`Shuffle x against y and compare the observed LSRL slope with the shuffled ones.

Example: statlab slope --x 1,2,3,4,5 --y 2.1,3.9,6.2,7.8,10.1`,
		func(*cobra.Command) (func(context.Context, *battery.PermutationReferee, sample.Paired, simulation.Tail) (*ports.TestResult, error), error) {
			return func(ctx context.Context, referee *battery.PermutationReferee, data sample.Paired, tail simulation.Tail) (*ports.TestResult, error) {
				return referee.SlopeTest(ctx, data, tail)
			}, nil
		})
}

func newShuffleCmd(a *app) *cobra.Command {
	var statName string
	cmd := pairedCommand(a, "shuffle", "Permutation test for any paired statistic",
		`Shuffle x against y and compare a chosen statistic (correlation, slope,
intercept, residual-sd) with its shuffled distribution.

Example: statlab shuffle --stat residual-sd --csv fit.csv`,
		func(*cobra.Command) (func(context.Context, *battery.PermutationReferee, sample.Paired, simulation.Tail) (*ports.TestResult, error), error) {
			kind, err := stats.ParseKind(statName)
			if err != nil {
				return nil, errors.FromDomain(err)
			}
			stat, err := stats.FromKind(kind, 0)
			if err != nil {
				return nil, errors.FromDomain(err)
			}
			return func(ctx context.Context, referee *battery.PermutationReferee, data sample.Paired, tail simulation.Tail) (*ports.TestResult, error) {
				return referee.PairedTest(ctx, data, stat, tail)
			}, nil
		})
	cmd.Flags().StringVar(&statName, "stat", "correlation", "Statistic: correlation|slope|intercept|residual-sd")
	return cmd
}

func newProportionCmd(a *app) *cobra.Command {
	var tailName string
	var batches int

	cmd := &cobra.Command{
		Use:   "proportion [x1] [n1] [x2] [n2]",
		Short: "Two-proportion test by dealing success/failure cards",
		Long: `Pool x1+x2 successes among n1+n2 cards, deal them back into groups of n1
and n2, and compare the observed difference p1 - p2 with the dealt ones.

Example: statlab proportion 18 25 9 25 --tail upper`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts := make([]int, len(args))
			for i, arg := range args {
				v, err := strconv.Atoi(arg)
				if err != nil {
					return errors.InvalidInput(fmt.Sprintf("%q is not a whole number", arg))
				}
				counts[i] = v
			}
			tail, err := parseTail(tailName)
			if err != nil {
				return err
			}
			referee, err := a.referee()
			if err != nil {
				return err
			}
			res, err := a.runBatches(referee, batches, counts[1]+counts[3], tail, func() (*ports.TestResult, error) {
				return referee.ProportionTest(cmd.Context(), counts[0], counts[1], counts[2], counts[3], tail)
			})
			if err != nil {
				return err
			}
			return a.emitTest(res, batches)
		},
	}

	cmd.Flags().StringVar(&tailName, "tail", "upper", "Tail: upper|lower|two-sided")
	cmd.Flags().IntVar(&batches, "batches", 1, "Repeat the simulation and accumulate the batches")
	return cmd
}

func newStreakCmd(a *app) *cobra.Command {
	var atLeast int
	var batches int

	cmd := &cobra.Command{
		Use:   "streak [sequence]",
		Short: "Is the longest streak (or the number of streaks) unusually large?",
		Long: `Permute a symbol sequence and compare its longest streak, or with
--at-least L the number of streaks of length L or more, with the permuted ones.

Example: statlab streak HHHHHTTHTTTTTTHH --at-least 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := sample.NewSequence(args[0])
			if err != nil {
				return errors.FromDomain(err)
			}
			var stat stats.Statistic = stats.LongestStreakStat{}
			if atLeast > 0 {
				stat = stats.StreaksAtLeastStat{Length: atLeast}
			}
			referee, err := a.referee()
			if err != nil {
				return err
			}
			res, err := a.runBatches(referee, batches, seq.Len(), simulation.TailUpper, func() (*ports.TestResult, error) {
				return referee.StreakTest(cmd.Context(), seq, stat)
			})
			if err != nil {
				return err
			}
			return a.emitTest(res, batches)
		},
	}

	cmd.Flags().IntVar(&atLeast, "at-least", 0, "Count streaks of at least this length instead of the longest streak")
	cmd.Flags().IntVar(&batches, "batches", 1, "Repeat the simulation and accumulate the batches")
	return cmd
}

func newBootstrapCmd(a *app) *cobra.Command {
	var data pairedFlags
	var statName string
	var column string
	var values string
	var level float64

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Percentile bootstrap confidence interval for a mean or correlation",
		Long: `Resample with replacement and report the middle --level of the
resampled statistics.

Examples:
  statlab bootstrap --stat mean --values 12,15,9,20,11,14
  statlab bootstrap --stat correlation --csv study.csv --x-col hours --y-col score --level 0.9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := stats.ParseKind(statName)
			if err != nil {
				return errors.FromDomain(err)
			}
			referee, err := a.referee()
			if err != nil {
				return err
			}

			var res *ports.IntervalResult
			switch kind {
			case stats.KindMean:
				obs, err := loadObservations(a, data.csv, column, values)
				if err != nil {
					return err
				}
				res, err = referee.BootstrapMean(cmd.Context(), obs, level)
				if err != nil {
					return err
				}
			case stats.KindCorrelation:
				paired, err := data.load(a)
				if err != nil {
					return err
				}
				res, err = referee.BootstrapCorrelation(cmd.Context(), paired, level)
				if err != nil {
					return err
				}
			default:
				return errors.InvalidInput(fmt.Sprintf("bootstrap supports mean and correlation, not %s", kind))
			}

			return a.emit(func(b *report.Builder) []report.Section {
				return []report.Section{b.IntervalSection(res)}
			})
		},
	}

	data.register(cmd)
	cmd.Flags().StringVar(&statName, "stat", "mean", "Statistic: mean|correlation")
	cmd.Flags().StringVar(&column, "col", "x", "Column in --csv for --stat mean")
	cmd.Flags().StringVar(&values, "values", "", "Inline values for --stat mean")
	cmd.Flags().Float64Var(&level, "level", 0.95, "Confidence level in (0, 1)")
	return cmd
}

func loadObservations(a *app, csvPath, column, values string) (sample.Observations, error) {
	if csvPath != "" {
		return a.deps.Reader.ReadColumn(csvPath, column)
	}
	if values == "" {
		return nil, errors.InvalidInput("need --csv or --values")
	}
	parsed, err := parseList(values)
	if err != nil {
		return nil, err
	}
	obs, err := sample.NewObservations(parsed)
	if err != nil {
		return nil, errors.FromDomain(err)
	}
	return obs, nil
}

func newPoissonCmd(a *app) *cobra.Command {
	var lambda float64
	var k int
	var hi int

	cmd := &cobra.Command{
		Use:   "poisson",
		Short: "Poisson probabilities P(X = k), P(X <= k) and P(k <= X <= hi)",
		Long: `Closed-form Poisson calculator.

Example: statlab poisson --lambda 3.2 --k 2 --hi 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pmf, err := stats.PoissonPMF(k, lambda)
			if err != nil {
				return errors.FromDomain(err)
			}
			cdf, err := stats.PoissonCDF(k, lambda)
			if err != nil {
				return errors.FromDomain(err)
			}
			rows := [][2]string{
				{"lambda", strconv.FormatFloat(lambda, 'g', -1, 64)},
				{fmt.Sprintf("P(X = %d)", k), ""},
				{fmt.Sprintf("P(X <= %d)", k), ""},
			}
			probs := []float64{pmf, cdf}
			if cmd.Flags().Changed("hi") {
				between, err := stats.PoissonRange(k, hi, lambda)
				if err != nil {
					return errors.FromDomain(err)
				}
				rows = append(rows, [2]string{fmt.Sprintf("P(%d <= X <= %d)", k, hi), ""})
				probs = append(probs, between)
			}

			return a.emit(func(b *report.Builder) []report.Section {
				for i, p := range probs {
					rows[i+1][1] = b.Formatter().Proportion(p)
				}
				return []report.Section{report.KeyValueSection("Poisson", rows)}
			})
		},
	}

	cmd.Flags().Float64Var(&lambda, "lambda", 1, "Mean number of events")
	cmd.Flags().IntVar(&k, "k", 0, "Number of events")
	cmd.Flags().IntVar(&hi, "hi", 0, "Upper bound for a range probability")
	return cmd
}

func newCountCmd(a *app) *cobra.Command {
	var n, k int

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Combinations C(n, k) and permutations P(n, k)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			combinations, err := stats.Combinations(n, k)
			if err != nil {
				return errors.FromDomain(err)
			}
			permutations, err := stats.Permutations(n, k)
			if err != nil {
				return errors.FromDomain(err)
			}
			return a.emit(func(*report.Builder) []report.Section {
				return []report.Section{report.KeyValueSection("Counting", [][2]string{
					{fmt.Sprintf("C(%d, %d)", n, k), strconv.Itoa(combinations)},
					{fmt.Sprintf("P(%d, %d)", n, k), strconv.Itoa(permutations)},
				})}
			})
		},
	}

	cmd.Flags().IntVar(&n, "n", 0, "Number of items")
	cmd.Flags().IntVar(&k, "k", 0, "Number chosen")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	var csvPath string
	var columns string
	var values string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Descriptive summary: mean, SD, five-number summary, outliers",
		Long: `Summarise one or more numeric columns before simulating.

Examples:
  statlab describe --values 12,15,9,20,11,14
  statlab describe --csv study.csv --cols hours,score`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset := make(map[string][]float64)
			switch {
			case csvPath != "":
				table, err := a.deps.Reader.ReadTable(csvPath)
				if err != nil {
					return err
				}
				names := table.Headers
				if columns != "" {
					names = strings.Split(columns, ",")
				}
				for _, name := range names {
					obs, err := table.Column(name)
					if err != nil {
						return err
					}
					dataset[strings.TrimSpace(name)] = obs
				}
			case values != "":
				parsed, err := parseList(values)
				if err != nil {
					return err
				}
				dataset["values"] = parsed
			default:
				return errors.InvalidInput("need --csv or --values")
			}

			profiles := a.deps.Profiler.ProfileDataset(dataset)
			return a.emit(func(b *report.Builder) []report.Section {
				f := b.Formatter()
				sections := make([]report.Section, 0, len(profiles))
				for _, p := range profiles {
					sections = append(sections, report.KeyValueSection(p.Name, [][2]string{
						{"n", strconv.Itoa(p.N)},
						{"mean", f.Number(p.Mean)},
						{"sd", f.Number(p.StdDev)},
						{"min", f.Number(p.Min)},
						{"Q1", f.Number(p.Q1)},
						{"median", f.Number(p.Median)},
						{"Q3", f.Number(p.Q3)},
						{"max", f.Number(p.Max)},
						{"IQR", f.Number(p.IQR)},
						{"outliers (1.5 IQR)", strconv.Itoa(p.Outliers)},
						{"skewness", f.Number(p.Skewness)},
					}))
				}
				return sections
			})
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file with a header row")
	cmd.Flags().StringVar(&columns, "cols", "", "Comma-separated columns to describe (default: all)")
	cmd.Flags().StringVar(&values, "values", "", "Inline values")
	return cmd
}
