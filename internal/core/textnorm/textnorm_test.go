package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize_FoldsCaseAndWidth(t *testing.T) {
	t.Parallel()

	n := New()
	got := n.Normalize("ＧＲＥＡＴ  Coffee‍!!")
	if got != "great coffee!!" {
		t.Fatalf("Normalize: got %q", got)
	}
}

func TestNormalize_StripsCombiningMarks(t *testing.T) {
	t.Parallel()

	n := New()
	// combining acute over a digit has no composed form and gets stripped
	if got := n.Normalize("v1́"); got != "v1" {
		t.Fatalf("combining mark survived: %q", got)
	}
}

func TestNormalize_EmptyAndWhitespace(t *testing.T) {
	t.Parallel()

	n := New()
	if got := n.Normalize(""); got != "" {
		t.Fatalf("empty: got %q", got)
	}
	if got := n.Normalize(" \t\n "); got != "" {
		t.Fatalf("whitespace only: got %q", got)
	}
	if got := n.Normalize("a \t b\n\nc"); got != "a b c" {
		t.Fatalf("collapse: got %q", got)
	}
}

func TestNormalize_RepairsInvalidUTF8(t *testing.T) {
	t.Parallel()

	n := New()
	if got := n.Normalize("ok\xffok"); got != "okok" {
		t.Fatalf("invalid byte survived: %q", got)
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := Tokenize("don't panic, it's fine 42!")
	want := []string{"don't", "panic", "it's", "fine", "42"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize: got %v want %v", got, want)
	}

	if got := Tokenize(""); got != nil {
		t.Fatalf("empty input: got %v", got)
	}
	if got := Tokenize("''' ..."); len(got) != 0 {
		t.Fatalf("punctuation only: got %v", got)
	}
}

func TestLemma(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"cats", "cat"},
		{"classes", "class"},
		{"ponies", "pony"},
		{"class", "class"},
		{"bus", "bus"},
		{"stopping", "stop"},
		{"falling", "fall"},
		{"shipped", "ship"},
		{"walked", "walk"},
		{"red", "red"},
		{"it", "it"},
	}
	for _, c := range cases {
		if got := Lemma(c.in); got != c.want {
			t.Fatalf("Lemma(%q): got %q want %q", c.in, got, c.want)
		}
	}
}

func TestTokens_DropsStopwordsAndLemmatizes(t *testing.T) {
	t.Parallel()

	n := New()
	got := n.Tokens("The shoes were GREAT and the laces lasted")
	want := []string{"shoe", "great", "lace", "last"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokens: got %v want %v", got, want)
	}
}

func TestTokens_Deterministic(t *testing.T) {
	t.Parallel()

	n := New()
	a := n.Tokens("Fast delivery, fast shipping!")
	b := n.Tokens("Fast delivery, fast shipping!")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("not deterministic: %v vs %v", a, b)
	}
}
