package service

import (
	"strings"

	"reviewflow/internal/core/profanity"
	"reviewflow/internal/core/textnorm"
	"reviewflow/internal/services/moderate/domain"
)

// DefaultDetector builds the classification capability on the built-in
// lexicon, text and summary are scanned together
func DefaultDetector() domain.DetectFunc {
	d := profanity.Default()
	norm := textnorm.New()
	return func(text, summary string) (float64, bool) {
		joined := text
		if summary != "" {
			joined = strings.TrimSpace(text + " " + summary)
		}
		res := d.Scan(norm.Tokens(joined))
		return float64(res.Score), res.Flagged
	}
}
