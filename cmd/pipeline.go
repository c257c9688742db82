package cmd

import (
	"context"
	"fmt"

	"cardscan/internal/imaging"
	"cardscan/internal/ocr"
	"cardscan/internal/scan"
	"cardscan/internal/scryfall"
	"cardscan/internal/translate"
)

// pipelineOptions are the flags shared by the scan and serve commands.
type pipelineOptions struct {
	engine     string
	configPath string
	lang       string
	rectify    bool
}

// buildPipeline assembles the pipeline from flags. The returned engine must
// be closed exactly once when the session ends.
func buildPipeline(ctx context.Context, opts pipelineOptions) (*scan.Pipeline, ocr.Engine, error) {
	cfg := scan.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = scan.LoadConfig(opts.configPath)
		if err != nil {
			return nil, nil, err
		}
	}
	if opts.lang != "" {
		cfg.TargetLang = opts.lang
	}

	var engine ocr.Engine
	var err error
	switch opts.engine {
	case "", "tesseract":
		engine, err = ocr.NewTesseract(ocrLanguage(cfg.SourceLang))
	case "gemini":
		engine, err = ocr.NewGemini(ctx, "")
	default:
		return nil, nil, fmt.Errorf("unsupported OCR engine: %s", opts.engine)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", scan.ErrScannerUnavailable, err)
	}

	var pre imaging.Preprocessor
	if opts.rectify {
		pre = imaging.NewRectifier()
	}

	pipeline := scan.New(engine, scryfall.NewClient(), translate.NewGoogleClient(), pre, cfg)
	return pipeline, engine, nil
}

// ocrLanguage maps an ISO 639-1 code to the Tesseract traineddata name for
// the languages cards are printed in.
func ocrLanguage(lang string) string {
	switch lang {
	case "en", "":
		return "eng"
	case "pt":
		return "por"
	case "es":
		return "spa"
	case "fr":
		return "fra"
	case "de":
		return "deu"
	case "it":
		return "ita"
	case "ja":
		return "jpn"
	default:
		return "eng"
	}
}
