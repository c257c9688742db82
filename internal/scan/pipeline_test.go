package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"cardscan/internal/models"
	"cardscan/internal/ocr"
	"cardscan/internal/scryfall"
)

// fakeLookup is a scripted catalog: exact cards by "set/number", fuzzy cards
// by query string, suggestions by query, localized printings by language.
// Every call is recorded so tests can assert which strategies ran.
type fakeLookup struct {
	collector map[string]*models.Card
	fuzzy     map[string]*models.Card
	suggest   map[string][]string
	localized map[string]*models.Card

	calls []string
}

func (f *fakeLookup) CardByCollector(_ context.Context, set, number string) (*models.Card, error) {
	f.calls = append(f.calls, "collector:"+set+"/"+number)
	if card, ok := f.collector[set+"/"+number]; ok {
		return card, nil
	}
	return nil, scryfall.ErrNotFound
}

func (f *fakeLookup) CardByFuzzyName(_ context.Context, name string) (*models.Card, error) {
	f.calls = append(f.calls, "fuzzy:"+name)
	if card, ok := f.fuzzy[name]; ok {
		return card, nil
	}
	return nil, scryfall.ErrNotFound
}

func (f *fakeLookup) Autocomplete(_ context.Context, q string) ([]string, error) {
	f.calls = append(f.calls, "autocomplete:"+q)
	return f.suggest[q], nil
}

func (f *fakeLookup) LocalizedPrinting(_ context.Context, name, lang string) (*models.Card, error) {
	f.calls = append(f.calls, "localized:"+name+"/"+lang)
	if card, ok := f.localized[lang]; ok {
		return card, nil
	}
	return nil, scryfall.ErrNotFound
}

// fakeEngine replays scripted recognition results in call order.
type fakeEngine struct {
	results []ocr.Result
	idx     int
}

func (f *fakeEngine) Recognize(_ context.Context, _ image.Image) (ocr.Result, error) {
	if f.idx >= len(f.results) {
		return ocr.Result{}, fmt.Errorf("unexpected recognize call %d", f.idx)
	}
	r := f.results[f.idx]
	f.idx++
	return r, nil
}

func (f *fakeEngine) Close() error { return nil }

// fakeTranslator prefixes the input so tests can see what was sent.
type fakeTranslator struct {
	fail  bool
	calls []string
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	f.calls = append(f.calls, text)
	if f.fail {
		return "", errors.New("backend down")
	}
	return "translated: " + text, nil
}

func enCard(name string) *models.Card {
	return &models.Card{CanonicalName: name, Language: "en", TypeLine: "Instant", RulesText: name + " rules"}
}

func newTestPipeline(lookup Lookup, translator *fakeTranslator, targetLang string) *Pipeline {
	cfg := DefaultConfig()
	cfg.TargetLang = targetLang
	return New(nil, lookup, translator, nil, cfg)
}

func TestIdentifyCollectorBeatsName(t *testing.T) {
	collectorHit := enCard("Moonveil Regent")
	nameHit := enCard("Lightning Bolt")
	lookup := &fakeLookup{
		collector: map[string]*models.Card{"MID/245": collectorHit},
		fuzzy:     map[string]*models.Card{"Lightning Bolt": nameHit},
	}

	p := newTestPipeline(lookup, nil, "en")
	attempt := Attempt{
		SetCode:         "MID",
		CollectorNumber: "245",
		HasCollector:    true,
		Candidates:      []string{"Lightning Bolt"},
	}

	card, err := p.Identify(context.Background(), attempt)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if card != collectorHit {
		t.Errorf("Expected the set+number result to win, got %q", card.CanonicalName)
	}
	for _, call := range lookup.calls {
		if call == "fuzzy:Lightning Bolt" {
			t.Error("Name state ran even though set+number succeeded")
		}
	}
}

func TestIdentifyFallsBackToNameOnCollectorMiss(t *testing.T) {
	nameHit := enCard("Lightning Bolt")
	lookup := &fakeLookup{
		fuzzy: map[string]*models.Card{"Lightning Bolt": nameHit},
	}

	p := newTestPipeline(lookup, nil, "en")
	attempt := Attempt{
		SetCode:         "ZZZ",
		CollectorNumber: "999",
		HasCollector:    true,
		Candidates:      []string{"Lightning Bolt"},
	}

	card, err := p.Identify(context.Background(), attempt)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if card != nameHit {
		t.Errorf("Expected name fallback result, got %q", card.CanonicalName)
	}
	if lookup.calls[0] != "collector:ZZZ/999" {
		t.Errorf("Set+number state should run first, calls: %v", lookup.calls)
	}
}

func TestIdentifyAutocompleteRefinesQuery(t *testing.T) {
	nameHit := enCard("Lightning Bolt")
	lookup := &fakeLookup{
		suggest: map[string][]string{"Lightnng Bot": {"Lightning Bolt", "Lightning Blast"}},
		fuzzy:   map[string]*models.Card{"Lightning Bolt": nameHit},
	}

	p := newTestPipeline(lookup, nil, "en")
	attempt := Attempt{Candidates: []string{"Lightnng Bot"}}

	card, err := p.Identify(context.Background(), attempt)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if card != nameHit {
		t.Errorf("Expected refined query to resolve, got %q", card.CanonicalName)
	}
}

func TestIdentifyFirstCandidateWins(t *testing.T) {
	first := enCard("Serra Angel")
	second := enCard("Shivan Dragon")
	lookup := &fakeLookup{
		fuzzy: map[string]*models.Card{"Serra Angel": first, "Shivan Dragon": second},
	}

	p := newTestPipeline(lookup, nil, "en")
	attempt := Attempt{Candidates: []string{"Serra Angel", "Shivan Dragon"}}

	card, err := p.Identify(context.Background(), attempt)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if card != first {
		t.Errorf("Expected earliest successful candidate, got %q", card.CanonicalName)
	}
}

func TestIdentifyNoCandidatesNeverCallsLookup(t *testing.T) {
	lookup := &fakeLookup{}

	p := newTestPipeline(lookup, nil, "en")

	_, err := p.Identify(context.Background(), Attempt{})
	if !errors.Is(err, ErrNoUsableText) {
		t.Fatalf("Expected ErrNoUsableText, got %v", err)
	}
	if len(lookup.calls) != 0 {
		t.Errorf("Lookup service was called: %v", lookup.calls)
	}
}

func TestIdentifyExhaustedCandidates(t *testing.T) {
	lookup := &fakeLookup{}

	p := newTestPipeline(lookup, nil, "en")
	attempt := Attempt{Candidates: []string{"Nonexistent Card", "Another Miss"}}

	_, err := p.Identify(context.Background(), attempt)
	if !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("Expected ErrCardNotFound, got %v", err)
	}
}

func TestLocalizeReplacesRecordWholesale(t *testing.T) {
	localized := &models.Card{
		CanonicalName: "Lightning Bolt",
		LocalizedName: "Raio",
		Language:      "pt",
	}
	lookup := &fakeLookup{
		fuzzy:     map[string]*models.Card{"Lightning Bolt": enCard("Lightning Bolt")},
		localized: map[string]*models.Card{"pt": localized},
	}

	p := newTestPipeline(lookup, nil, "pt")
	attempt := Attempt{Candidates: []string{"Lightning Bolt"}}

	card, err := p.Identify(context.Background(), attempt)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if card != localized {
		t.Errorf("Expected the localized printing to replace the record, got %+v", card)
	}
}

func TestLocalizeMissKeepsOriginal(t *testing.T) {
	original := enCard("Lightning Bolt")
	lookup := &fakeLookup{
		fuzzy: map[string]*models.Card{"Lightning Bolt": original},
	}

	p := newTestPipeline(lookup, nil, "pt")
	attempt := Attempt{Candidates: []string{"Lightning Bolt"}}

	card, err := p.Identify(context.Background(), attempt)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if card != original {
		t.Errorf("Expected the original record on localization miss, got %+v", card)
	}
}

func TestLocalizeSkippedWhenLanguageMatches(t *testing.T) {
	original := enCard("Lightning Bolt")
	lookup := &fakeLookup{
		fuzzy: map[string]*models.Card{"Lightning Bolt": original},
	}

	p := newTestPipeline(lookup, nil, "en")
	if _, err := p.Identify(context.Background(), Attempt{Candidates: []string{"Lightning Bolt"}}); err != nil {
		t.Fatalf("Identify failed: %v", err)
	}

	for _, call := range lookup.calls {
		if call == "localized:Lightning Bolt/en" {
			t.Error("Localized-printing search ran for a record already in the target language")
		}
	}
}

func TestTranslateIdempotent(t *testing.T) {
	translator := &fakeTranslator{}
	p := newTestPipeline(&fakeLookup{}, translator, "pt")

	card := enCard("Lightning Bolt")
	if err := p.Translate(context.Background(), card); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	first := card.TranslatedText

	if err := p.Translate(context.Background(), card); err != nil {
		t.Fatalf("Second Translate failed: %v", err)
	}

	if card.TranslatedText != first {
		t.Errorf("Repeated translation changed the result: %q vs %q", first, card.TranslatedText)
	}
}

func TestTranslatePrefersOriginalRulesText(t *testing.T) {
	translator := &fakeTranslator{}
	p := newTestPipeline(&fakeLookup{}, translator, "pt")

	card := &models.Card{
		RulesText:          "original text",
		LocalizedRulesText: "texto localizado",
		Language:           "pt",
	}
	if err := p.Translate(context.Background(), card); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(translator.calls) != 1 || translator.calls[0] != "original text" {
		t.Errorf("Expected the original-language text to be translated, sent %v", translator.calls)
	}
}

func TestTranslateFailureLeavesCardUnchanged(t *testing.T) {
	translator := &fakeTranslator{fail: true}
	p := newTestPipeline(&fakeLookup{}, translator, "pt")

	card := enCard("Lightning Bolt")
	card.TranslatedText = "previous translation"

	if err := p.Translate(context.Background(), card); err == nil {
		t.Fatal("Expected an error from a failing backend")
	}
	if card.TranslatedText != "previous translation" {
		t.Errorf("Failed translation mutated the card: %q", card.TranslatedText)
	}
}

func TestTranslateNoRulesText(t *testing.T) {
	p := newTestPipeline(&fakeLookup{}, &fakeTranslator{}, "pt")

	err := p.Translate(context.Background(), &models.Card{CanonicalName: "Vanilla"})
	if !errors.Is(err, ErrNoRulesText) {
		t.Fatalf("Expected ErrNoRulesText, got %v", err)
	}
}

func TestExtractReadsBothBands(t *testing.T) {
	engine := &fakeEngine{results: []ocr.Result{
		{Text: "Lightning Bolt", Confidence: 90}, // title band
		{Text: "MID 245", Confidence: 85},        // collector band
	}}

	p := New(engine, &fakeLookup{}, nil, nil, DefaultConfig())
	frame := image.NewRGBA(image.Rect(0, 0, 400, 560))

	attempt, err := p.Extract(context.Background(), frame)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !attempt.HasCollector || attempt.SetCode != "MID" || attempt.CollectorNumber != "245" {
		t.Errorf("Expected collector info MID/245, got %+v", attempt)
	}
	if len(attempt.Candidates) != 1 || attempt.Candidates[0] != "Lightning Bolt" {
		t.Errorf("Expected one title candidate, got %v", attempt.Candidates)
	}
}

func TestExtractFullFrameFallback(t *testing.T) {
	engine := &fakeEngine{results: []ocr.Result{
		{Text: "xq"},                                // title band: too short
		{Text: "~~~"},                               // collector band: no match
		{Text: "noise\nSerra Angel\nmore gibberish"}, // full frame
	}}

	p := New(engine, &fakeLookup{}, nil, nil, DefaultConfig())
	frame := image.NewRGBA(image.Rect(0, 0, 400, 560))

	attempt, err := p.Extract(context.Background(), frame)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{"noise", "Serra Angel", "more gibberish"}
	if len(attempt.Candidates) != len(want) {
		t.Fatalf("Expected %d candidates, got %v", len(want), attempt.Candidates)
	}
	for i, c := range want {
		if attempt.Candidates[i] != c {
			t.Errorf("Candidate %d: expected %q, got %q", i, c, attempt.Candidates[i])
		}
	}
}

func TestScanTotalFailureScenario(t *testing.T) {
	// Title cleans to 3 characters, collector band unreadable, full frame
	// empty: the lookup service must never be contacted.
	engine := &fakeEngine{results: []ocr.Result{
		{Text: "xqz"},
		{Text: "..."},
		{Text: ""},
	}}
	lookup := &fakeLookup{}

	p := New(engine, lookup, nil, nil, DefaultConfig())
	frame := image.NewRGBA(image.Rect(0, 0, 400, 560))

	attempt, err := p.Extract(context.Background(), frame)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	_, err = p.Identify(context.Background(), attempt)
	if !errors.Is(err, ErrNoUsableText) {
		t.Fatalf("Expected ErrNoUsableText, got %v", err)
	}
	if len(lookup.calls) != 0 {
		t.Errorf("Lookup service was called: %v", lookup.calls)
	}
}

func TestAttemptFromText(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name          string
		title         string
		collector     string
		full          string
		wantCollector bool
		wantSet       string
		wantNumber    string
		wantFirst     string
		wantCount     int
	}{
		{
			name:          "direct hit fields",
			title:         "Moonveil Regent",
			collector:     "MID 245",
			wantCollector: true,
			wantSet:       "MID",
			wantNumber:    "245",
			wantFirst:     "Moonveil Regent",
			wantCount:     1,
		},
		{
			name:      "short title dropped, full frame used",
			title:     "xqz",
			collector: "???",
			full:      "Serra Angel\nab",
			wantFirst: "Serra Angel",
			wantCount: 1,
		},
		{
			name:      "nothing usable",
			title:     "xy",
			collector: "",
			full:      "ab\ncd",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := AttemptFromText(tt.title, tt.collector, tt.full, cfg)

			if attempt.HasCollector != tt.wantCollector {
				t.Errorf("HasCollector: expected %v, got %v", tt.wantCollector, attempt.HasCollector)
			}
			if tt.wantCollector && (attempt.SetCode != tt.wantSet || attempt.CollectorNumber != tt.wantNumber) {
				t.Errorf("Expected %s/%s, got %s/%s", tt.wantSet, tt.wantNumber, attempt.SetCode, attempt.CollectorNumber)
			}
			if len(attempt.Candidates) != tt.wantCount {
				t.Fatalf("Expected %d candidates, got %v", tt.wantCount, attempt.Candidates)
			}
			if tt.wantCount > 0 && attempt.Candidates[0] != tt.wantFirst {
				t.Errorf("Expected first candidate %q, got %q", tt.wantFirst, attempt.Candidates[0])
			}
		})
	}
}
