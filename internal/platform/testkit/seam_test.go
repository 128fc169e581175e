package testkit

import "testing"

var probe = func() string { return "original" }

func TestSwapRestores(t *testing.T) {
	Serial(t)

	t.Run("inner", func(t *testing.T) {
		Swap(t, &probe, func() string { return "swapped" })
		if probe() != "swapped" {
			t.Fatalf("swap did not take effect")
		}
	})

	if probe() != "original" {
		t.Fatalf("swap was not restored after subtest")
	}
}
