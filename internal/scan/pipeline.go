// Package scan orchestrates one capture-to-result cycle: pre-processing,
// text extraction, field cleaning, the lookup cascade, localization, and
// on-demand translation.
package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"cardscan/internal/imaging"
	"cardscan/internal/models"
	"cardscan/internal/ocr"
	"cardscan/internal/scryfall"
	"cardscan/internal/textproc"
	"cardscan/internal/translate"
)

// Lookup is the slice of the catalog client the cascade needs.
type Lookup interface {
	CardByCollector(ctx context.Context, set, number string) (*models.Card, error)
	CardByFuzzyName(ctx context.Context, name string) (*models.Card, error)
	Autocomplete(ctx context.Context, q string) ([]string, error)
	LocalizedPrinting(ctx context.Context, name, lang string) (*models.Card, error)
}

// Attempt bundles the cleaned text candidates extracted from one capture.
// It is transient: recomputed per scan, never persisted.
type Attempt struct {
	SetCode         string
	CollectorNumber string
	HasCollector    bool

	// Candidates are cleaned name candidates in priority order. The first
	// entry comes from the title band; later entries come from a
	// full-frame pass, top to bottom.
	Candidates []string

	// RawTitle is the uncleaned title-band text, kept for diagnostics.
	RawTitle string
}

// Pipeline runs scans against a fixed set of collaborators. It is built
// once per session; the OCR engine it holds must be closed by the caller
// when the session ends.
type Pipeline struct {
	engine     ocr.Engine
	lookup     Lookup
	translator translate.Translator
	pre        imaging.Preprocessor
	cfg        Config
}

// New creates a pipeline. pre may be nil, in which case frames are used
// as captured.
func New(engine ocr.Engine, lookup Lookup, translator translate.Translator, pre imaging.Preprocessor, cfg Config) *Pipeline {
	if pre == nil {
		pre = imaging.NopPreprocessor{}
	}
	return &Pipeline{
		engine:     engine,
		lookup:     lookup,
		translator: translator,
		pre:        pre,
		cfg:        cfg,
	}
}

// Scan runs the whole pipeline over raw capture bytes and returns the final
// card record.
func (p *Pipeline) Scan(ctx context.Context, imageData []byte) (*models.Card, error) {
	frame, err := imaging.Decode(imageData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	attempt, err := p.Extract(ctx, frame)
	if err != nil {
		return nil, err
	}

	return p.Identify(ctx, attempt)
}

// Extract recognizes the card's two printed bands (and optionally the full
// frame) and cleans the results into an Attempt.
func (p *Pipeline) Extract(ctx context.Context, frame image.Image) (Attempt, error) {
	rectified, err := p.pre.Process(frame)
	if err != nil {
		// The perspective stage is a refinement; fall back to the raw frame.
		slog.Warn("pre-processing failed, using raw frame", "err", err)
		rectified = frame
	}

	var attempt Attempt

	titleZone := p.cfg.NameBand.ZoneFor(rectified.Bounds())
	if !titleZone.Empty() {
		res, err := p.engine.Recognize(ctx, imaging.PrepareZone(rectified, titleZone))
		if err != nil {
			return attempt, fmt.Errorf("title band recognition: %w", err)
		}
		attempt.RawTitle = res.Text
		if name := textproc.CleanName(res.Text); len(name) > p.cfg.MinCandidateLen {
			attempt.Candidates = append(attempt.Candidates, name)
		}
	}

	collectorZone := p.cfg.CollectorBand.ZoneFor(rectified.Bounds())
	if !collectorZone.Empty() {
		res, err := p.engine.Recognize(ctx, imaging.PrepareZone(rectified, collectorZone))
		if err != nil {
			return attempt, fmt.Errorf("collector band recognition: %w", err)
		}
		attempt.SetCode, attempt.CollectorNumber, attempt.HasCollector = textproc.ExtractCollectorInfo(res.Text)
	}

	// Full-frame pass only when the bands gave nothing to search with.
	if p.cfg.Passes > 1 && len(attempt.Candidates) == 0 && !attempt.HasCollector {
		res, err := p.engine.Recognize(ctx, rectified)
		if err != nil {
			return attempt, fmt.Errorf("full-frame recognition: %w", err)
		}
		attempt.Candidates = append(attempt.Candidates,
			textproc.CandidateLines(res.Text, p.cfg.MinCandidateLen)...)
	}

	return attempt, nil
}

// Identify runs the disambiguation cascade over an attempt. States are
// tried in order and the earliest success wins; there is no backtracking
// and no scoring across candidates.
func (p *Pipeline) Identify(ctx context.Context, attempt Attempt) (*models.Card, error) {
	// Set+Number state: exact lookup when the collector band was readable.
	// Any failure falls through to name search with the raw textual input;
	// the key is never retried in altered form.
	if attempt.HasCollector {
		card, err := p.lookup.CardByCollector(ctx, attempt.SetCode, attempt.CollectorNumber)
		if err == nil {
			slog.Debug("resolved by set and number", "set", attempt.SetCode, "number", attempt.CollectorNumber)
			return p.localize(ctx, card), nil
		}
		slog.Debug("collector lookup missed, falling back to name search",
			"set", attempt.SetCode, "number", attempt.CollectorNumber, "err", err)
	}

	if len(attempt.Candidates) == 0 {
		return nil, ErrNoUsableText
	}

	// Name state: each candidate in priority order, refined through
	// autocomplete, then fuzzy-matched.
	for _, candidate := range attempt.Candidates {
		query := candidate
		if suggestions, err := p.lookup.Autocomplete(ctx, candidate); err == nil && len(suggestions) > 0 {
			query = suggestions[0]
		}

		card, err := p.lookup.CardByFuzzyName(ctx, query)
		if err == nil {
			slog.Debug("resolved by name", "candidate", candidate, "query", query)
			return p.localize(ctx, card), nil
		}
		if !errors.Is(err, scryfall.ErrNotFound) {
			slog.Debug("fuzzy lookup failed", "query", query, "err", err)
		}
	}

	return nil, ErrCardNotFound
}

// localize swaps the resolved card for its printing in the target language.
// The first hit replaces the record wholesale; a miss silently keeps the
// original-language record.
func (p *Pipeline) localize(ctx context.Context, card *models.Card) *models.Card {
	if card.Language == p.cfg.TargetLang {
		return card
	}

	localized, err := p.lookup.LocalizedPrinting(ctx, card.CanonicalName, p.cfg.TargetLang)
	if err != nil {
		slog.Debug("no localized printing", "name", card.CanonicalName, "lang", p.cfg.TargetLang, "err", err)
		return card
	}
	return localized
}

// Translate sends the card's rules text to the translation service and
// attaches the result. Original-language text is preferred as the source
// when both it and an untranslated localized text exist. The call is
// idempotent; each invocation overwrites any prior translation, and failure
// leaves the card unchanged.
func (p *Pipeline) Translate(ctx context.Context, card *models.Card) error {
	text := card.RulesText
	if text == "" {
		text = card.LocalizedRulesText
	}
	if text == "" {
		return ErrNoRulesText
	}

	translated, err := p.translator.Translate(ctx, text, p.cfg.SourceLang, p.cfg.TargetLang)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	card.TranslatedText = translated
	return nil
}
