// Package sentiment scores review text with a valence lexicon
// scores run over prepared tokens from textnorm, entries are stored in the
// same lemma form so inflected words still hit
package sentiment

import (
	"math"

	"reviewflow/internal/core/textnorm"
)

// Label classifies a compound score
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// classification thresholds on the compound score
const (
	positiveCutoff = 0.05
	negativeCutoff = -0.05
)

// negationDampen flips and shrinks valence after a negator, "not great" is
// mildly negative rather than the full inverse of "great"
const negationDampen = -0.74

// boosterScale amplifies valence after an intensifier like "very"
const boosterScale = 1.293

// normalizeAlpha flattens the raw sum into [-1, 1]
const normalizeAlpha = 15.0

// Result is the outcome of scoring one piece of text
type Result struct {
	// Compound is the normalized overall score in [-1, 1]
	Compound float64 `json:"compound"`
	// Label buckets Compound at the +-0.05 cutoffs
	Label Label `json:"label"`
	// Hits counts lexicon tokens that contributed
	Hits int `json:"hits"`
}

// Analyzer holds the loaded valence lexicon
type Analyzer struct {
	valence  map[string]float64
	negators map[string]struct{}
	boosters map[string]struct{}
}

// New returns an analyzer loaded with the built-in lexicon
func New() *Analyzer {
	a := &Analyzer{
		valence:  make(map[string]float64, len(defaultValence)),
		negators: make(map[string]struct{}, len(negatorWords)),
		boosters: make(map[string]struct{}, len(boosterWords)),
	}
	// key every table the same way scan input is prepared
	for w, v := range defaultValence {
		a.valence[textnorm.Lemma(w)] = v
	}
	for _, w := range negatorWords {
		a.negators[w] = struct{}{}
	}
	for _, w := range boosterWords {
		a.boosters[textnorm.Lemma(w)] = struct{}{}
	}
	return a
}

// Score rates prepared tokens and returns the compound score with its label
// empty input is Neutral with Compound 0
func (a *Analyzer) Score(tokens []string) Result {
	var sum float64
	hits := 0
	for i, tok := range tokens {
		v, ok := a.valence[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if _, boost := a.boosters[tokens[i-1]]; boost {
				v *= boosterScale
			}
		}
		if a.negated(tokens, i) {
			v *= negationDampen
		}
		sum += v
		hits++
	}

	res := Result{Hits: hits, Label: Neutral}
	if hits == 0 {
		return res
	}
	res.Compound = clamp(sum / math.Sqrt(sum*sum+normalizeAlpha))
	switch {
	case res.Compound >= positiveCutoff:
		res.Label = Positive
	case res.Compound <= negativeCutoff:
		res.Label = Negative
	}
	return res
}

// ScoreText is a convenience wrapper that prepares raw text itself
func (a *Analyzer) ScoreText(norm *textnorm.Normalizer, text string) Result {
	return a.Score(norm.Tokens(text))
}

// negated reports whether token i sits in the two-token shadow of a negator
func (a *Analyzer) negated(tokens []string, i int) bool {
	for back := 1; back <= 2; back++ {
		j := i - back
		if j < 0 {
			break
		}
		if _, ok := a.negators[tokens[j]]; ok {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
