package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Star2578/bap-test/corpus"
	"github.com/Star2578/bap-test/internal/app"
)

func newCorpusCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect evaluation corpora",
	}
	cmd.AddCommand(newCorpusListCmd(st))
	cmd.AddCommand(newCorpusValidateCmd())
	return cmd
}

func newCorpusListCmd(st *cliState) *cobra.Command {
	var corpusPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the prompts of the default (or a supplied) corpus",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			crp, err := app.LoadCorpus(st.cfg, corpusPath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Corpus %s: %d prompts\n\n", crp.Version(), crp.Len())
			for _, m := range corpus.Metrics {
				part := crp.Partition(m)
				fmt.Fprintf(w, "%s (%d):\n", m, len(part))
				for _, p := range part {
					fmt.Fprintf(w, "  %-28s %s\n", p.ID, truncate(p.Text, 72))
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "path to a caller-supplied corpus YAML")
	return cmd
}

func newCorpusValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a caller-supplied corpus YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crp, err := corpus.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d prompts (version %q)\n", crp.Len(), crp.Version())
			return nil
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
