// Package main contains the cli implementation of the tool. It uses cobra
// package for cli tool implementation.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	a := newApp(os.Stdout, os.Stderr)
	rootCmd := newRootCmd(a)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gmc",
		Short:         "Game mechanics creator – schema generation and live tables for MySQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")
	flags.StringVarP(&a.format, "format", "f", "human", "Output format: human, json or sql")
	flags.DurationVar(&a.timeout, "timeout", 0, "Timeout for database operations (overrides the configuration)")
	flags.StringVar(&a.dsn, "dsn", "", "MySQL DSN (overrides the configuration)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		typesCmd(a),
		templateCmd(a),
		generateCmd(a),
		executeCmd(a),
		listCmd(a),
		describeCmd(a),
		dropCmd(a),
		statusCmd(a),
	)
	return rootCmd
}
