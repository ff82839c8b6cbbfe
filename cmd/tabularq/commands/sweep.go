package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/tabularq/experiment"
	"github.com/samuelfneumann/tabularq/experiment/tracker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Sweep command flags
var (
	sweepRuns     int
	sweepSeed     uint64
	sweepParallel int
	sweepDataDir  string
	sweepChart    string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep CONFIG",
	Short: "Run every configuration of a hyperparameter sweep",
	Long: `Run every agent configuration of an experiment configuration file.

The file holds a JSON encoded experiment configuration, whose AgentConf
lists the values of each hyperparameter to sweep over. Every
combination of values is run for a number of independent runs, and the
mean episodic return of each combination is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadExperimentConfig(args[0])
		if err != nil {
			return err
		}

		results, err := runSweep(conf)
		if err != nil {
			return err
		}

		best := 0
		for i, r := range results {
			mean := stat.Mean(r.returns, nil)
			if mean > stat.Mean(results[best].returns, nil) {
				best = i
			}
			fmt.Printf("config %3d: %.3f\n", i, mean)
		}
		fmt.Printf("%v config %d: %+v\n", aurora.Bold("best:"),
			aurora.Green(best), conf.AgentConf.At(best))

		if sweepChart != "" {
			curves := make([]series, len(results))
			for i, r := range results {
				curves[i] = series{fmt.Sprintf("config %d", i), r.curve}
			}
			if err := plot(sweepChart, "Sweep", curves...); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	f := sweepCmd.Flags()
	f.IntVar(&sweepRuns, "runs", 5, "independent runs per configuration")
	f.Uint64Var(&sweepSeed, "seed", 0, "seed of the first run")
	f.IntVar(&sweepParallel, "parallel", 1, "runs executed concurrently")
	f.StringVar(&sweepDataDir, "data-dir", "",
		"directory to save the returns of each run in")
	f.StringVar(&sweepChart, "chart", "",
		"write an HTML chart of the mean return per episode to this file")
}

// loadExperimentConfig decodes the experiment configuration at filename
func loadExperimentConfig(filename string) (experiment.Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return experiment.Config{}, errors.Wrap(err,
			"could not read experiment config")
	}

	var conf experiment.Config
	if err := json.Unmarshal(data, &conf); err != nil {
		return experiment.Config{}, errors.Wrapf(err,
			"could not decode experiment config %v", filename)
	}
	if conf.AgentConf.ConfigList == nil {
		return experiment.Config{}, fmt.Errorf("experiment config %v has "+
			"no agent configurations", filename)
	}
	return conf, nil
}

// sweepResult holds the results of all runs of one configuration
type sweepResult struct {
	returns []float64 // mean episodic return of each run
	curve   []float64 // episodic return averaged over runs
}

// runSweep runs every configuration of conf sweepRuns times
func runSweep(conf experiment.Config) ([]sweepResult, error) {
	if sweepRuns < 1 || sweepParallel < 1 {
		return nil, fmt.Errorf("runs and parallel must be positive")
	}
	if sweepDataDir != "" {
		if err := os.MkdirAll(sweepDataDir, 0o755); err != nil {
			return nil, errors.Wrap(err, "could not create data directory")
		}
	}

	n := conf.AgentConf.Len()
	results := make([]sweepResult, n)
	curves := make([][][]float64, n)
	for i := range results {
		results[i].returns = make([]float64, sweepRuns)
		curves[i] = make([][]float64, sweepRuns)
	}

	var mu sync.Mutex
	sem := make(chan struct{}, sweepParallel)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		for run := 0; run < sweepRuns; run++ {
			i, run := i, run
			sem <- struct{}{}
			g.Go(func() error {
				defer func() { <-sem }()

				returns, err := runOnce(conf, i, run)
				if err != nil {
					return errors.Wrapf(err, "config %d run %d", i, run)
				}

				mu.Lock()
				defer mu.Unlock()
				curves[i][run] = returns
				if len(returns) > 0 {
					results[i].returns[run] = stat.Mean(returns, nil)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		results[i].curve = meanCurve(curves[i])
	}
	return results, nil
}

// runOnce runs configuration i with the seed of the given run and
// returns its episodic returns
func runOnce(conf experiment.Config, i, run int) ([]float64, error) {
	seed := sweepSeed + uint64(run)

	filename, lengthsFilename := "", ""
	if sweepDataDir != "" {
		base := filepath.Join(sweepDataDir, fmt.Sprintf("config%d_run%d", i, run))
		filename, lengthsFilename = base+".bin", base+"_lengths.bin"
	}
	returns := tracker.NewReturn(filename)
	lengths := tracker.NewEpisodeLength(lengthsFilename)

	exp, _, err := conf.CreateExp(i, seed,
		[]tracker.Tracker{returns, lengths})
	if err != nil {
		return nil, err
	}
	if err := exp.Run(); err != nil {
		return nil, err
	}
	if err := exp.Save(); err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"config":   i,
		"run":      run,
		"seed":     seed,
		"episodes": len(returns.Data()),
	}
	if l := lengths.Data(); len(l) > 0 {
		fields["mean_length"] = stat.Mean(l, nil)
	}
	log.WithFields(fields).Info("finished run")
	return returns.Data(), nil
}

// meanCurve averages curves element-wise, truncating to the shortest
func meanCurve(curves [][]float64) []float64 {
	if len(curves) == 0 {
		return nil
	}
	length := len(curves[0])
	for _, c := range curves {
		if len(c) < length {
			length = len(c)
		}
	}

	mean := make([]float64, length)
	column := make([]float64, len(curves))
	for e := range mean {
		for r, c := range curves {
			column[r] = c[e]
		}
		mean[e] = stat.Mean(column, nil)
	}
	return mean
}
