package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Star2578/bap-test/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "bap",
		Short:         "Evaluate a model's bias, accuracy, and politeness",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newRunCmd(st))
	root.AddCommand(newCorpusCmd(st))
	root.AddCommand(newHistoryCmd(st))
	return root
}

// loadConfig reads the config file, falling back to environment-only
// defaults when the default path does not exist. An explicitly named
// config file must exist.
func loadConfig(st *cliState) error {
	cfg, err := config.Load(st.configPath)
	if err == nil {
		st.cfg = cfg
		return nil
	}
	if errors.Is(err, os.ErrNotExist) && st.configPath == config.DefaultPath {
		st.cfg = config.Default()
		return nil
	}
	return err
}
