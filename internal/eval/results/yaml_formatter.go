package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	TargetLang  string `yaml:"targetlang"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier    string `yaml:"identifier"`
	ExpectedName  string `yaml:"expectedname"`
	ResolvedName  string `yaml:"resolvedname,omitempty"`
	ResolvedSet   string `yaml:"resolvedset,omitempty"`
	Identified    bool   `yaml:"identified"`
	NameCorrect   bool   `yaml:"namecorrect"`
	Error         string `yaml:"error,omitempty"`
}

// EvalSummary aggregates a run
type EvalSummary struct {
	TotalRecords int     `yaml:"totalrecords"`
	Identified   int     `yaml:"identified"`
	NameCorrect  int     `yaml:"namecorrect"`
	Accuracy     float64 `yaml:"accuracy"`
}

// EvalSpec is the full YAML document for one evaluation run
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML saves evaluation results to a YAML file in the evals/ directory
func SaveToYAML(targetLang, datasetPath string, sampleSize int, summary EvalSummary, results []EvalResult) (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	spec := EvalSpec{
		Config: EvalConfig{
			TargetLang:  targetLang,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Summary: summary,
		Results: results,
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join("evals", fmt.Sprintf("scan_eval_%s.yaml", timestamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}

	return path, nil
}
