package cmd

import (
	"cardscan/internal/evalcmd"

	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var opts evalcmd.RunOptions

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Measure identification accuracy against a labeled dataset",
		Long: `Runs the cleaning and lookup cascade over recorded band text with known
answers and reports how often the right card is resolved.

Datasets are JSONL or Parquet files of labeled captures.`,
		Example: `  # Evaluate the full dataset
  cardscan eval --dataset scans.jsonl

  # Quick run over 50 records with Portuguese localization
  cardscan eval --dataset scans.parquet --sample 50 --lang pt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return evalcmd.ExecuteRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "Path to a JSONL or Parquet dataset of labeled scans")
	cmd.Flags().IntVar(&opts.SampleSize, "sample", 0, "Evaluate only the first N records (0 = all)")
	cmd.Flags().StringVar(&opts.TargetLang, "lang", "en", "Target language for localization")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 2, "Concurrent lookups")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}
