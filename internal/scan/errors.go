package scan

import "errors"

var (
	// ErrScannerUnavailable means the text extractor could not be
	// initialized; no recognition is possible until that is resolved.
	ErrScannerUnavailable = errors.New("scanner unavailable")

	// ErrBadImage means the capture could not be decoded.
	ErrBadImage = errors.New("image could not be read")

	// ErrNoUsableText means recognition produced no candidates worth
	// querying. The user should improve lighting, focus, or framing and
	// try again.
	ErrNoUsableText = errors.New("no usable text recognized")

	// ErrCardNotFound means every lookup strategy was exhausted without a
	// match.
	ErrCardNotFound = errors.New("card not recognized")

	// ErrBusy means another action is already in flight for the session.
	ErrBusy = errors.New("another action is already in progress")

	// ErrNoRulesText means the resolved card has nothing to translate.
	ErrNoRulesText = errors.New("card has no rules text")
)
