// Package main is the lpr command: the decision-maker lookup API server and
// one-shot wizard steps for the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tadeyemo32/lpr-backend/config"
	"github.com/tadeyemo32/lpr-backend/services"
	"go.uber.org/zap"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "lpr",
	Short:         "Company lookup, decision-maker search and sales profiles via an LLM",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")
}

func main() {
	err := rootCmd.Execute()
	_ = zap.L().Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, installs the global logger and builds the
// completer every command shares.
func setup() (*config.Config, services.Completer, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)

	llm, err := services.NewCompleter(cfg.LLM())
	if err != nil {
		return nil, nil, err
	}
	return cfg, llm, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
