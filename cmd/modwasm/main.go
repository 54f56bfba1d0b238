package main

import (
	"fmt"
	"os"

	"github.com/modwasm/modwasm/internal/observability"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbosity int

func main() {
	root := &cobra.Command{
		Use:   "modwasm",
		Short: "Decode and statically inspect WebAssembly binary modules",
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")

	root.AddCommand(newInspectCmd(), newVerifyCmd(), newStatsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	return observability.NewLogger(verbosity)
}
