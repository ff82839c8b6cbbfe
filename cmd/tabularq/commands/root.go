// Package commands provides the tabularq CLI commands.
package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	jsonLogs bool

	// log is tagged with the id of the current run once flags are parsed
	log logrus.FieldLogger = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:   "tabularq",
	Short: "Tabular Sarsa(λ) and Q(λ) experiments",
	Long: `tabularq runs tabular temporal-difference control experiments.

Available commands:
  - chain: learn the rewarding action of every state in a chain
  - sweep: run every configuration of a hyperparameter sweep
  - inspect: print a checkpointed value table or saved returns`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false,
		"log in JSON format")

	rootCmd.AddCommand(chainCmd, sweepCmd, inspectCmd)
}

// Root returns the root command
func Root() *cobra.Command {
	return rootCmd
}

// setupLogging configures the standard logger from the persistent flags
func setupLogging() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %v", err)
	}
	logrus.SetLevel(level)

	if jsonLogs {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log = logrus.WithField("run", uuid.New().String())
	return nil
}
