package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/tabularq/agent/tabular"
	"github.com/samuelfneumann/tabularq/environment"
	"github.com/samuelfneumann/tabularq/environment/chain"
	"github.com/samuelfneumann/tabularq/environment/envconfig"
	"github.com/samuelfneumann/tabularq/experiment"
	"github.com/samuelfneumann/tabularq/experiment/checkpointer"
	"github.com/samuelfneumann/tabularq/experiment/tracker"
	"github.com/samuelfneumann/tabularq/policy"
	"github.com/samuelfneumann/tabularq/table"
	"github.com/samuelfneumann/tabularq/trace"
	"github.com/samuelfneumann/tabularq/utils/progressbar"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// Chain command flags
var (
	chainStates          int
	chainActions         int
	chainEpochs          int
	chainSeed            uint64
	chainAlgorithm       string
	chainTrace           string
	chainStorage         string
	chainPolicy          string
	chainStepSize        string
	chainAlpha           float64
	chainGamma           float64
	chainLambda          float64
	chainTemperature     float64
	chainWorkers         int
	chainChart           string
	chainCheckpointDir   string
	chainCheckpointEvery int
	chainCheckpointSteps int
	chainProgress        bool
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Learn the rewarding action of every state in a chain",
	Long: `Run the chain experiment.

Every epoch walks the chain once from state 0 to the last state. Each
state has one rewarding action, drawn at random from its first two
actions. Exploration is annealed linearly from ε = 1 in the first epoch
towards ε = 0 in the last, and the mean reward per state is printed
after every epoch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := tabular.DefaultConfig()
		c.Algorithm = tabular.Algorithm(chainAlgorithm)
		c.Trace = trace.Type(chainTrace)
		c.Storage = trace.Storage(chainStorage)
		c.Policy = policy.Type(chainPolicy)
		c.StepSize = tabular.StepSize(chainStepSize)
		c.Alpha = chainAlpha
		c.Gamma = chainGamma
		c.Lambda = chainLambda
		c.Temperature = chainTemperature
		c.Workers = chainWorkers

		rewards, err := runChain(c)
		if err != nil {
			return err
		}

		if chainChart != "" {
			curve := series{name: string(c.Algorithm), values: rewards}
			if err := plot(chainChart, "Chain", curve); err != nil {
				return err
			}
			log.WithField("file", chainChart).Info("saved learning curve")
		}
		return nil
	},
}

func init() {
	f := chainCmd.Flags()
	f.IntVar(&chainStates, "states", chain.States, "number of states")
	f.IntVar(&chainActions, "actions", chain.Actions, "actions per state")
	f.IntVar(&chainEpochs, "epochs", 100, "number of epochs")
	f.Uint64Var(&chainSeed, "seed", uint64(time.Now().UnixNano()),
		"random seed")

	f.StringVar(&chainAlgorithm, "algorithm", string(tabular.Sarsa),
		"learning algorithm (QLearning, Sarsa)")
	f.StringVar(&chainTrace, "trace", string(trace.None),
		"eligibility traces (None, Replacing, Accumulating)")
	f.StringVar(&chainStorage, "storage", string(trace.SparseStorage),
		"trace storage (Dense, Sparse)")
	f.StringVar(&chainPolicy, "policy", string(policy.EGreedy),
		"behaviour policy (EGreedy, Softmax)")
	f.StringVar(&chainStepSize, "step-size", string(tabular.FixedStepSize),
		"step size (Fixed, Adaptive)")

	f.Float64Var(&chainAlpha, "alpha", 0.5, "step size")
	f.Float64Var(&chainGamma, "gamma", 0.99, "discount factor")
	f.Float64Var(&chainLambda, "lambda", 0.5, "trace decay")
	f.Float64Var(&chainTemperature, "temperature", 0.1, "softmax temperature")
	f.IntVar(&chainWorkers, "workers", 0,
		"concurrent tasks propagating dense traces")

	f.StringVar(&chainChart, "chart", "",
		"write an HTML learning curve to this file")
	f.StringVar(&chainCheckpointDir, "checkpoint-dir", "",
		"directory to checkpoint the value table in")
	f.IntVar(&chainCheckpointEvery, "checkpoint-every", 10,
		"epochs between checkpoints")
	f.IntVar(&chainCheckpointSteps, "checkpoint-steps", 0,
		"also checkpoint every this many steps to timestamped files")
	f.BoolVar(&chainProgress, "progress", false, "display a progress bar")
}

// runChain runs the chain experiment with the learner configured by c
// and returns the mean reward per state of each epoch
func runChain(c tabular.Config) ([]float64, error) {
	start := time.Now()
	runLog := log.WithFields(logrus.Fields{
		"seed":      chainSeed,
		"algorithm": c.Algorithm,
		"trace":     c.Trace,
	})

	env, _, err := envconfig.CreateChain(chainStates, chainActions,
		chainSeed)
	if err != nil {
		return nil, err
	}
	values := environment.NewTable(env)

	q, err := tabular.New(values, c, rand.NewSource(chainSeed))
	if err != nil {
		return nil, err
	}
	q.SetLogger(runLog)

	checkpointers, err := chainCheckpointers(values)
	if err != nil {
		return nil, err
	}

	returns := tracker.NewReturn("")
	steps := uint(chainEpochs * (env.StateCount() - 1))
	exp := experiment.NewOnline(env, q, steps,
		[]tracker.Tracker{returns}, checkpointers)

	var bar *progressbar.ManualProgressBar
	if chainProgress {
		bar = progressbar.NewManualProgressBar(os.Stderr, 40, chainEpochs)
		defer bar.Close()
	}

	rewards := make([]float64, 0, chainEpochs)
	for epoch := 0; epoch < chainEpochs; epoch++ {
		q.Epsilon = 1 - float64(epoch)/float64(chainEpochs)

		if _, err := exp.RunEpisode(); err != nil {
			return nil, errors.Wrapf(err, "epoch %d", epoch)
		}

		data := returns.Data()
		reward := data[len(data)-1] / float64(env.StateCount())
		rewards = append(rewards, reward)

		if bar != nil {
			bar.Increment()
			bar.Display()
		} else {
			fmt.Printf("%.3f\n", reward)
		}
		runLog.WithFields(logrus.Fields{
			"epoch":   epoch,
			"epsilon": q.Epsilon,
			"reward":  reward,
		}).Debug("finished epoch")
	}

	summarize(rewards, time.Since(start))
	return rewards, nil
}

// chainCheckpointers returns the checkpointers requested by the flags
func chainCheckpointers(values *table.Table) ([]checkpointer.Checkpointer,
	error) {
	if chainCheckpointDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(chainCheckpointDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "could not create checkpoint directory")
	}

	filename := checkpointer.FilenameEnumerator(0,
		filepath.Join(chainCheckpointDir, "table"), ".bin")
	c, err := checkpointer.NewNEpisode(chainCheckpointEvery, values, filename)
	if err != nil {
		return nil, err
	}
	checkpointers := []checkpointer.Checkpointer{c}

	if chainCheckpointSteps > 0 {
		timed := checkpointer.FileTimer(
			filepath.Join(chainCheckpointDir, "step"), ".bin")
		c, err := checkpointer.NewNStep(chainCheckpointSteps, values, timed)
		if err != nil {
			return nil, err
		}
		checkpointers = append(checkpointers, c)
	}
	return checkpointers, nil
}

// summarize prints a coloured summary of the learning curve
func summarize(rewards []float64, elapsed time.Duration) {
	if len(rewards) == 0 {
		return
	}

	last := rewards
	if len(last) > 10 {
		last = last[len(last)-10:]
	}
	mean, std := stat.MeanStdDev(last, nil)
	if len(last) < 2 {
		std = 0
	}

	fmt.Printf("%v %.3f ± %.3f over the last %d epochs\n",
		aurora.Bold("mean reward:"), aurora.Green(mean), std, len(last))
	fmt.Printf("%v %v\n", aurora.Bold("elapsed:"),
		aurora.Cyan(elapsed.Truncate(time.Millisecond)))
}
