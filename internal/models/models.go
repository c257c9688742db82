package models

import "time"

// Card represents a resolved card record from the lookup service.
//
// A Card is replaced wholesale when the localized-printing lookup succeeds;
// the only field ever attached after resolution is TranslatedText, which is
// cleared only by starting a new scan.
type Card struct {
	CanonicalName      string `json:"canonical_name"`
	LocalizedName      string `json:"localized_name,omitempty"`
	TypeLine           string `json:"type_line"`
	LocalizedTypeLine  string `json:"localized_type_line,omitempty"`
	RulesText          string `json:"rules_text,omitempty"`
	LocalizedRulesText string `json:"localized_rules_text,omitempty"`
	TranslatedText     string `json:"translated_text,omitempty"`
	Language           string `json:"language"` // e.g. "en", "pt"
	ImageURI           string `json:"image_uri,omitempty"`
	SetCode            string `json:"set_code,omitempty"`
	CollectorNumber    string `json:"collector_number,omitempty"`
}

// DisplayName returns the localized name when one exists, otherwise the
// canonical name.
func (c *Card) DisplayName() string {
	if c.LocalizedName != "" {
		return c.LocalizedName
	}
	return c.CanonicalName
}

// ScanSession represents one scan-to-result cycle
type ScanSession struct {
	ID        string    `json:"id"`
	Busy      bool      `json:"busy"`
	Card      *Card     `json:"card,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the session, so callers can read or encode
// it without synchronizing against writers of the original.
func (s *ScanSession) Clone() *ScanSession {
	clone := *s
	if s.Card != nil {
		card := *s.Card
		clone.Card = &card
	}
	return &clone
}
