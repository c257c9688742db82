package scan

import "cardscan/internal/textproc"

// AttemptFromText builds an Attempt from pre-captured band text, bypassing
// image capture and OCR. The eval harness uses this to exercise the
// cleaning and cascade stages against labeled recordings.
func AttemptFromText(titleText, collectorText, fullText string, cfg Config) Attempt {
	var attempt Attempt

	attempt.RawTitle = titleText
	if name := textproc.CleanName(titleText); len(name) > cfg.MinCandidateLen {
		attempt.Candidates = append(attempt.Candidates, name)
	}

	attempt.SetCode, attempt.CollectorNumber, attempt.HasCollector = textproc.ExtractCollectorInfo(collectorText)

	if cfg.Passes > 1 && len(attempt.Candidates) == 0 && !attempt.HasCollector && fullText != "" {
		attempt.Candidates = append(attempt.Candidates,
			textproc.CandidateLines(fullText, cfg.MinCandidateLen)...)
	}

	return attempt
}
