package scan

import (
	"fmt"
	"os"

	"cardscan/internal/imaging"

	"gopkg.in/yaml.v3"
)

// Config externalizes the tuning knobs that used to vary between captures:
// binarization threshold, zone geometry, number of recognition passes, and
// the minimum length for a name candidate.
type Config struct {
	// SourceLang is the card's base language for OCR and oracle text.
	SourceLang string `yaml:"source_lang"`
	// TargetLang is the session's display and translation locale.
	TargetLang string `yaml:"target_lang"`

	NameBand      imaging.Band `yaml:"name_band"`
	CollectorBand imaging.Band `yaml:"collector_band"`

	// Passes selects recognition strategy: 1 reads the two card bands,
	// 2 additionally falls back to a full-frame pass when the bands give
	// no usable candidates.
	Passes int `yaml:"passes"`

	// MinCandidateLen is the minimum cleaned length for a name candidate;
	// shorter lines never reach the lookup service.
	MinCandidateLen int `yaml:"min_candidate_len"`
}

// DefaultConfig returns the tuning that worked best across captures.
func DefaultConfig() Config {
	return Config{
		SourceLang:      "en",
		TargetLang:      "en",
		NameBand:        imaging.DefaultNameBand,
		CollectorBand:   imaging.DefaultCollectorBand,
		Passes:          2,
		MinCandidateLen: 4,
	}
}

// LoadConfig reads a YAML config file, filling unset fields from the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Passes < 1 {
		cfg.Passes = 1
	}
	if cfg.MinCandidateLen < 1 {
		cfg.MinCandidateLen = 1
	}
	return cfg, nil
}
