package sentiment

import (
	"testing"

	"reviewflow/internal/core/textnorm"
)

func TestScore_Positive(t *testing.T) {
	t.Parallel()

	a := New()
	norm := textnorm.New()
	res := a.Score(norm.Tokens("Great shoes, I love them"))
	if res.Label != Positive {
		t.Fatalf("label: got %s (%+v)", res.Label, res)
	}
	if res.Compound < 0.05 {
		t.Fatalf("compound: got %v", res.Compound)
	}
	if res.Hits != 2 {
		t.Fatalf("hits: got %d want 2", res.Hits)
	}
}

func TestScore_Negative(t *testing.T) {
	t.Parallel()

	a := New()
	norm := textnorm.New()
	res := a.Score(norm.Tokens("Terrible quality, totally broken"))
	if res.Label != Negative {
		t.Fatalf("label: got %s (%+v)", res.Label, res)
	}
	if res.Compound > -0.05 {
		t.Fatalf("compound: got %v", res.Compound)
	}
}

func TestScore_NeutralWhenNoHits(t *testing.T) {
	t.Parallel()

	a := New()
	norm := textnorm.New()
	res := a.Score(norm.Tokens("The package arrived on Tuesday"))
	if res.Label != Neutral || res.Compound != 0 || res.Hits != 0 {
		t.Fatalf("neutral: got %+v", res)
	}
}

func TestScore_EmptyInput(t *testing.T) {
	t.Parallel()

	a := New()
	if res := a.Score(nil); res.Label != Neutral || res.Compound != 0 {
		t.Fatalf("empty: got %+v", res)
	}
}

func TestScore_NegationFlips(t *testing.T) {
	t.Parallel()

	a := New()
	norm := textnorm.New()
	res := a.Score(norm.Tokens("not good"))
	if res.Label != Negative {
		t.Fatalf("negation: got %+v", res)
	}

	// negator two tokens back still applies
	res = a.Score(norm.Tokens("not very good"))
	if res.Label != Negative {
		t.Fatalf("negation window: got %+v", res)
	}
}

func TestScore_BoosterAmplifies(t *testing.T) {
	t.Parallel()

	a := New()
	norm := textnorm.New()
	plain := a.Score(norm.Tokens("good"))
	boosted := a.Score(norm.Tokens("very good"))
	if boosted.Compound <= plain.Compound {
		t.Fatalf("booster: plain %v boosted %v", plain.Compound, boosted.Compound)
	}
}

func TestScore_InflectedForms(t *testing.T) {
	t.Parallel()

	a := New()
	norm := textnorm.New()
	if res := a.ScoreText(norm, "It just works"); res.Hits != 1 || res.Label != Positive {
		t.Fatalf("inflected: got %+v", res)
	}
}

func TestScore_CompoundInRange(t *testing.T) {
	t.Parallel()

	a := New()
	norm := textnorm.New()
	res := a.Score(norm.Tokens("best best best best love love love amazing perfect excellent"))
	if res.Compound > 1 || res.Compound < -1 {
		t.Fatalf("compound out of range: %v", res.Compound)
	}
	if res.Label != Positive {
		t.Fatalf("label: got %+v", res)
	}
}
