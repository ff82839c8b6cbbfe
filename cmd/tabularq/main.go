// Command tabularq runs tabular Sarsa(λ) and Q(λ) experiments
package main

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/tabularq/cmd/tabularq/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
