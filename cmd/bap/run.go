package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	baptest "github.com/Star2578/bap-test"
	"github.com/Star2578/bap-test/internal/app"
	"github.com/Star2578/bap-test/internal/store"
	"github.com/Star2578/bap-test/model"
	"github.com/Star2578/bap-test/runner"
)

type runOptions struct {
	provider   string
	corpusPath string
	output     string
	verbose    bool
	save       bool
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a BAP evaluation against a configured provider",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluation(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "provider to evaluate (default from config)")
	cmd.Flags().StringVar(&opts.corpusPath, "corpus", "", "path to a caller-supplied corpus YAML")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "print progress while evaluating")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the result to run history")

	return cmd
}

func runEvaluation(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("run: nil options")
	}

	output := strings.ToLower(strings.TrimSpace(opts.output))
	switch output {
	case "", "table":
		output = "table"
	case "json":
	default:
		return fmt.Errorf("run: unknown output format %q", opts.output)
	}

	m, err := app.ResolveModel(st.cfg, opts.provider)
	if err != nil {
		return err
	}

	crp, err := app.LoadCorpus(st.cfg, opts.corpusPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r, err := runner.New(m, crp, runner.Config{
		MaxRetries: st.cfg.Evaluation.MaxRetries,
		Timeout:    st.cfg.Evaluation.Timeout,
		Weights:    app.WeightsFromConfig(st.cfg),
		Progress:   progressPrinter(opts.verbose),
	})
	if err != nil {
		return err
	}

	result, err := r.Run(ctx)
	if err != nil {
		return err
	}

	if opts.save {
		if err := saveRun(ctx, st, m, crp.Version(), result, r.Details()); err != nil {
			return err
		}
	}

	switch output {
	case "json":
		return printJSON(cmd, result, r.Details())
	default:
		printTable(cmd, m.Name(), crp.Version(), result)
		return nil
	}
}

func progressPrinter(verbose bool) runner.Progress {
	if !verbose {
		return nil
	}
	return func(done, total int) {
		fmt.Fprintf(os.Stderr, "\r[%d/%d] prompts evaluated", done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func saveRun(ctx context.Context, st *cliState, m model.Model, corpusVersion string, result *baptest.EvaluationResult, details []runner.PromptDetail) error {
	s, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.SaveRun(ctx, &store.RunRecord{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Provider:      m.Name(),
		Model:         model.ID(m),
		CorpusVersion: corpusVersion,
		Result:        *result,
		Details:       details,
	})
}

func printJSON(cmd *cobra.Command, result *baptest.EvaluationResult, details []runner.PromptDetail) error {
	out := struct {
		Result  baptest.EvaluationResult `json:"result"`
		Details []runner.PromptDetail    `json:"details"`
	}{Result: *result, Details: details}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printTable(cmd *cobra.Command, provider, corpusVersion string, result *baptest.EvaluationResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Provider:  %s\n", provider)
	fmt.Fprintf(w, "Corpus:    %s\n", corpusVersion)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  bias        %.4f\n", result.Bias)
	fmt.Fprintf(w, "  accuracy    %.4f\n", result.Accuracy)
	fmt.Fprintf(w, "  politeness  %.4f\n", result.Politeness)
	fmt.Fprintf(w, "  PEI         %.4f\n", result.PEI)
}
