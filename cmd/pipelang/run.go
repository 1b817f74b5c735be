package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/internal/metrics"
)

var (
	runQuery string
	runInput string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a file of values with a query and print the results",
	Example: `  pipelang run -c config.yml --query '@sensor | gt10 | pairs' --input values.yml
  echo '[1, 2, 3]' | pipelang run -c config.yml --query '@sensor | pairs' --input -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interp, cfg, err := newInterpreter()
		if err != nil {
			return err
		}

		data, err := readInput(runInput)
		if err != nil {
			return err
		}

		datums, err := pipelang.DecodeDatums(data)
		if err != nil {
			return err
		}

		source, err := interp.CompileAndRegister(runQuery)
		if err != nil {
			return err
		}

		err = interp.Push(source, datums...)
		if err != nil {
			return err
		}

		out, err := interp.Process(source)
		if err != nil {
			return err
		}

		b, err := pipelang.EncodeDatums(out)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(b); err != nil {
			return err
		}

		if cfg.Metrics.Enabled {
			return metrics.WriteText(cmd.ErrOrStderr(), interp.Gatherer())
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runQuery, "query", "q", "", "query to run, e.g. '@sensor | batch'")
	runCmd.Flags().StringVarP(&runInput, "input", "i", "-", "YAML list of values to push, - reads stdin")
	_ = runCmd.MarkFlagRequired("query")
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return data, nil
}
