// Package evalcmd runs the identification pipeline against labeled scan
// recordings and measures how often the cascade lands on the right card.
package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"cardscan/internal/eval/dataset"
	"cardscan/internal/eval/results"
	"cardscan/internal/scan"
	"cardscan/internal/scryfall"
	"cardscan/internal/translate"
)

// RunOptions configures an evaluation run.
type RunOptions struct {
	DatasetPath string
	SampleSize  int
	TargetLang  string
	Concurrency int
}

// ExecuteRun loads the dataset, identifies each recording, and saves a YAML
// report under evals/.
func ExecuteRun(ctx context.Context, opts RunOptions) error {
	slog.Info("Starting evaluation run", "dataset", opts.DatasetPath, "lang", opts.TargetLang)

	loader := dataset.NewLoader(opts.DatasetPath)

	var records []dataset.CardScanRecord
	var err error
	if opts.SampleSize > 0 {
		records, err = loader.LoadSample(opts.SampleSize)
	} else {
		records, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Dataset loaded", "items", len(records))

	cfg := scan.DefaultConfig()
	cfg.TargetLang = opts.TargetLang

	// Text-only runs need no OCR engine or preprocessor.
	pipeline := scan.New(nil, scryfall.NewClient(), translate.NewGoogleClient(), nil, cfg)

	if opts.Concurrency < 1 {
		opts.Concurrency = 2
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, opts.Concurrency)
	resultsChan := make(chan results.EvalResult, len(records))

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.CardScanRecord) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing item", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))
			resultsChan <- processRecord(ctx, pipeline, cfg, record)
		}(i, record)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var evalResults []results.EvalResult
	for result := range resultsChan {
		evalResults = append(evalResults, result)
	}

	summary := summarize(evalResults)
	printSummary(summary)

	path, err := results.SaveToYAML(opts.TargetLang, opts.DatasetPath, opts.SampleSize, summary, evalResults)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Printf("\nResults saved to: %s\n", path)
	return nil
}

func processRecord(ctx context.Context, pipeline *scan.Pipeline, cfg scan.Config, record dataset.CardScanRecord) results.EvalResult {
	result := results.EvalResult{
		Identifier:   record.ID,
		ExpectedName: record.ExpectedName,
	}

	attempt := scan.AttemptFromText(record.TitleText, record.CollectorText, record.FullText, cfg)

	card, err := pipeline.Identify(ctx, attempt)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Identified = true
	result.ResolvedName = card.CanonicalName
	result.ResolvedSet = card.SetCode
	result.NameCorrect = strings.EqualFold(card.CanonicalName, record.ExpectedName)
	return result
}

func summarize(evalResults []results.EvalResult) results.EvalSummary {
	summary := results.EvalSummary{TotalRecords: len(evalResults)}
	for _, r := range evalResults {
		if r.Identified {
			summary.Identified++
		}
		if r.NameCorrect {
			summary.NameCorrect++
		}
	}
	if summary.TotalRecords > 0 {
		summary.Accuracy = float64(summary.NameCorrect) / float64(summary.TotalRecords)
	}
	return summary
}

func printSummary(summary results.EvalSummary) {
	fmt.Println("\n========================================")
	fmt.Println("Scan Evaluation Summary")
	fmt.Println("========================================")
	fmt.Printf("Total Records:      %d\n", summary.TotalRecords)
	fmt.Printf("Identified:         %d\n", summary.Identified)
	fmt.Printf("Name Correct:       %d\n", summary.NameCorrect)
	fmt.Printf("Accuracy:           %.2f%%\n", summary.Accuracy*100)
	fmt.Println("========================================")
}
