package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Star2578/bap-test/internal/store"
)

func newHistoryCmd(st *cliState) *cobra.Command {
	var provider string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved evaluation runs",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(st.cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context(), store.Filter{
				Provider: provider,
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(w, "no saved runs")
				return nil
			}

			fmt.Fprintf(w, "%-36s  %-19s  %-8s  %6s  %6s  %6s  %6s\n",
				"RUN", "CREATED", "PROVIDER", "BIAS", "ACC", "POLITE", "PEI")
			for _, r := range runs {
				fmt.Fprintf(w, "%-36s  %-19s  %-8s  %6.3f  %6.3f  %6.3f  %6.3f\n",
					r.ID,
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.Provider,
					r.Result.Bias,
					r.Result.Accuracy,
					r.Result.Politeness,
					r.Result.PEI,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "filter by provider")
	cmd.Flags().IntVar(&limit, "limit", 0, "max runs to list")
	return cmd
}
