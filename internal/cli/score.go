package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"seo-content-go/pkg/keyword"
	"seo-content-go/pkg/logger"
	"seo-content-go/pkg/metrics"
)

type scoreOptions struct {
	output   string
	quota    int
	capacity int
	backfill string
}

func newScoreCommand(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score FILE...",
		Short: "Select the strongest keywords from keyword-research exports",
		Long: "Reads one or more keyword exports (Keyword, Volume, Keyword Difficulty, CPC (GBP)),\n" +
			"drops low-value rows, ranks the rest and writes the selection as a one-column CSV.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger.SetLogger(logger.New(cfg.Logger))

			policy := cfg.Scoring.Policy
			if cmd.Flags().Changed("quota") {
				policy.SourceQuota = opts.quota
			}
			if cmd.Flags().Changed("capacity") {
				policy.Capacity = opts.capacity
			}
			if opts.backfill != "" {
				policy.Backfill = keyword.BackfillMode(opts.backfill)
			}

			engine, err := keyword.NewEngine(policy, keyword.WithMetrics(metrics.New()))
			if err != nil {
				return err
			}

			datasets := make([]keyword.Dataset, len(args))
			for i, path := range args {
				ds, err := keyword.ReadDatasetFile(path, keyword.SourceLabel(i), cfg.Scoring.Columns)
				if err != nil {
					return err
				}
				datasets[i] = ds
			}

			res, err := engine.Run(datasets)
			if err != nil {
				return err
			}
			if err := writeSelection(cmd.OutOrStdout(), opts.output, res.Keywords()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "loaded %d, retained %d, selected %d\n",
				res.Loaded, res.Retained, len(res.Records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the CSV here instead of stdout")
	cmd.Flags().IntVar(&opts.quota, "quota", 0, "records taken from each source before backfill")
	cmd.Flags().IntVar(&opts.capacity, "capacity", 0, "maximum number of selected keywords")
	cmd.Flags().StringVar(&opts.backfill, "backfill", "", "backfill mode: shortfall or always")
	return cmd
}

func writeSelection(stdout io.Writer, path string, keywords []string) error {
	if path == "" {
		return keyword.WriteKeywords(stdout, keywords)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := keyword.WriteKeywords(w, keywords); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
