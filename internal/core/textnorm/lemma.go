package textnorm

import "strings"

// stopwords is the short English function-word list dropped before lemmatizing
// keep it small, dropping too much hurts the sentiment lexicon hit rate
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an the and or but if then else for of at by to in on from with " +
			"as is are was were be been being am do does did has have had " +
			"he she it they them his her its their this that these those " +
			"i me my we us our you your who whom which what there here " +
			"will would shall should can could may might must " +
			"so than too s t don st ll re ve d m o y",
	) {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether w is dropped during token preparation
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Lemma reduces a lowercase token to a crude dictionary form by stripping
// common inflectional suffixes
// it is intentionally conservative, short tokens pass through unchanged so
// that lexicon entries like "bus" or "was" are never mangled
func Lemma(w string) string {
	if len(w) <= 3 {
		return w
	}

	switch {
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-2] // classes -> class
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y" // ponies -> pony
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return w[:len(w)-1] // cats -> cat
	}

	if strings.HasSuffix(w, "ing") && len(w) > 5 {
		stem := w[:len(w)-3]
		return undouble(stem)
	}
	if strings.HasSuffix(w, "ed") && len(w) > 4 {
		stem := w[:len(w)-2]
		return undouble(stem)
	}
	return w
}

// undouble trims a doubled final consonant left by -ing and -ed stripping
// stopping -> stop, but falling keeps the double l via the keep list
func undouble(stem string) string {
	n := len(stem)
	if n < 3 || stem[n-1] != stem[n-2] {
		return stem
	}
	switch stem[n-1] {
	case 'l', 's', 'z':
		return stem
	}
	return stem[:n-1]
}
