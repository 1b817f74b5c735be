package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/badtuple/pipelang/config"
	"github.com/badtuple/pipelang/internal/logger"
	"github.com/badtuple/pipelang/interpreter"
)

var (
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "pipelang",
	Short:         "Run pipelang queries over buffered data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML file declaring filters and queries")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load before reading PIPELANG_* variables")

	rootCmd.AddCommand(runCmd, shellCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newInterpreter builds an interpreter with every filter and query
// declared on the configuration already registered
func newInterpreter() (*interpreter.Interpreter, config.Config, error) {
	opts := []config.LoaderOption{}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, config.Config{}, err
	}

	interp := interpreter.New(
		interpreter.WithLogger(logger.New(cfg.Log)),
		interpreter.WithMetricsNamespace(cfg.Metrics.Namespace),
	)

	err = interp.Load(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}

	return interp, cfg, nil
}
