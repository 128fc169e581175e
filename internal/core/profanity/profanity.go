// Package profanity flags review text containing lexicon terms
// matching runs over prepared tokens from textnorm, so entries are stored
// in lemma form and hits are exact token lookups
package profanity

import (
	"sort"
	"strings"

	"reviewflow/internal/core/textnorm"
)

// Result is the outcome of scanning one piece of text
type Result struct {
	// Flagged is true when at least one lexicon term matched
	Flagged bool `json:"flagged"`
	// Matches lists the distinct matched terms in sorted order
	Matches []string `json:"matches,omitempty"`
	// Score counts total hits including repeats
	Score int `json:"score"`
}

// Detector holds the active lexicon
// zero value matches nothing, build one with New or Default
type Detector struct {
	terms map[string]struct{}
}

// New builds a detector from explicit terms
// each term is normalized and lemmatized the same way scan input is, so
// callers can pass surface forms like "sucks" and still match "sucking"
func New(terms ...string) *Detector {
	d := &Detector{terms: make(map[string]struct{}, len(terms))}
	norm := textnorm.New()
	for _, t := range terms {
		for _, tok := range norm.Tokens(t) {
			d.terms[tok] = struct{}{}
		}
	}
	return d
}

// Default returns a detector loaded with the built-in lexicon
func Default() *Detector { return New(defaultTerms...) }

// Len reports the number of loaded terms
func (d *Detector) Len() int { return len(d.terms) }

// Scan checks prepared tokens against the lexicon
func (d *Detector) Scan(tokens []string) Result {
	var res Result
	if len(d.terms) == 0 || len(tokens) == 0 {
		return res
	}
	seen := map[string]struct{}{}
	for _, tok := range tokens {
		if _, hit := d.terms[tok]; !hit {
			continue
		}
		res.Score++
		if _, dup := seen[tok]; !dup {
			seen[tok] = struct{}{}
			res.Matches = append(res.Matches, tok)
		}
	}
	res.Flagged = res.Score > 0
	sort.Strings(res.Matches)
	return res
}

// ScanText is a convenience wrapper that prepares raw text itself
func (d *Detector) ScanText(norm *textnorm.Normalizer, text string) Result {
	return d.Scan(norm.Tokens(text))
}

// defaultTerms is the built-in moderation lexicon, mild by intent
// stored one per line for easy diffing
var defaultTerms = strings.Fields(`
	damn damned hell crap crappy
	stupid idiot idiotic moron moronic
	sucks garbage trash junk
	scam scammer ripoff fraud
	worthless useless pathetic
`)
