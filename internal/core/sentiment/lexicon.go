package sentiment

// defaultValence maps surface words to valence in roughly [-4, 4]
// entries are re-keyed through the lemmatizer at load time, list surface
// forms freely and let New collapse them
var defaultValence = map[string]float64{
	// positive
	"good":        1.9,
	"great":       3.1,
	"excellent":   2.7,
	"amazing":     2.8,
	"awesome":     3.1,
	"fantastic":   2.6,
	"wonderful":   2.7,
	"perfect":     2.7,
	"love":        3.2,
	"loved":       2.9,
	"like":        1.5,
	"best":        3.2,
	"better":      1.9,
	"nice":        1.8,
	"happy":       2.7,
	"pleased":     2.3,
	"recommend":   1.8,
	"comfortable": 1.7,
	"fast":        1.3,
	"quick":       1.3,
	"sturdy":      1.4,
	"reliable":    1.9,
	"works":       1.1,
	"worth":       1.4,
	"fine":        0.8,
	"okay":        0.9,

	// negative
	"bad":          -2.5,
	"terrible":     -2.1,
	"horrible":     -2.5,
	"awful":        -2.0,
	"worst":        -3.1,
	"worse":        -2.1,
	"poor":         -2.3,
	"hate":         -2.7,
	"hated":        -2.6,
	"disappointed": -2.2,
	"disappointing": -2.2,
	"broken":       -2.1,
	"broke":        -1.9,
	"useless":      -1.8,
	"worthless":    -2.3,
	"cheap":        -1.2,
	"flimsy":       -1.6,
	"slow":         -1.2,
	"late":         -1.1,
	"defective":    -2.2,
	"refund":       -1.3,
	"return":       -0.9,
	"garbage":      -2.5,
	"damn":         -1.6,
	"crap":         -2.4,
	"sucks":        -1.5,
	"scam":         -2.9,
	"waste":        -2.0,
}

// negatorWords flip the valence of the next couple of tokens
var negatorWords = []string{
	"not", "no", "never", "nothing", "neither", "nor", "without",
	"don't", "doesn't", "didn't", "can't", "cannot", "won't",
	"isn't", "wasn't", "aren't", "weren't", "couldn't", "wouldn't",
}

// boosterWords amplify the valence of the next token
var boosterWords = []string{
	"very", "really", "extremely", "incredibly", "absolutely",
	"totally", "super", "truly", "highly", "completely",
}
