package commands

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/tabularq/experiment/tracker"
	"github.com/samuelfneumann/tabularq/table"
	"github.com/samuelfneumann/tabularq/utils/floatutils"
	"github.com/samuelfneumann/tabularq/utils/matutils"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

// Inspect command flags
var (
	inspectReturns bool
	inspectValues  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print a checkpointed value table or saved returns",
	Long: `Print a value table saved by a checkpoint, marking the greedy
action of every state, or summarize the returns saved by a sweep with
--returns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectReturns {
			return inspectReturnData(args[0])
		}
		return inspectTable(args[0])
	},
}

func init() {
	f := inspectCmd.Flags()
	f.BoolVar(&inspectReturns, "returns", false,
		"the file holds saved returns rather than a value table")
	f.BoolVar(&inspectValues, "values", false,
		"print the full value table")
}

// inspectTable prints the greedy action and value of every state
func inspectTable(filename string) error {
	t, err := table.Load(filename)
	if err != nil {
		return err
	}

	fmt.Printf("%v %d states, %d pairs\n", aurora.Bold("table:"),
		t.StateCount(), t.Size())
	if inspectValues {
		fmt.Println(t)
	}

	for s := 0; s < t.StateCount(); s++ {
		max, greedy := floatutils.MaxSlice(t.Row(s))

		fmt.Printf("%5d ", s)
		for a := range t.Row(s) {
			cell := fmt.Sprintf("%8.3f", t.At(s, a))
			if a == greedy[0] {
				fmt.Print(aurora.Green(cell), " ")
			} else {
				fmt.Print(aurora.Blue(cell), " ")
			}
		}
		fmt.Printf("| max %.3f\n", max)
	}

	if m := t.Matrix(); m != nil {
		fmt.Printf("%v\n%v\n", aurora.Bold("mean value per state:"),
			matutils.Format(matutils.RowMean(m).T()))
		fmt.Printf("%v\n%v\n", aurora.Bold("state values:"),
			matutils.Format(matutils.RowMax(m).T()))
	}
	return nil
}

// inspectReturnData summarizes returns saved by a Return tracker
func inspectReturnData(filename string) error {
	data, err := tracker.LoadData(filename)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		fmt.Println(aurora.Yellow("no finished episodes"))
		return nil
	}

	mean, std := stat.MeanStdDev(data, nil)
	fmt.Printf("%v %d\n", aurora.Bold("episodes:"), len(data))
	fmt.Printf("%v %.3f ± %.3f\n", aurora.Bold("return:"),
		aurora.Green(mean), std)
	fmt.Printf("%v %.3f\n", aurora.Bold("last:"), data[len(data)-1])
	return nil
}
