package status

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  Band
	}{
		{100, BandOptimal},
		{80, BandOptimal},
		{79, BandGood}, // граница без off-by-one
		{60, BandGood},
		{59, BandFair},
		{40, BandFair},
		{39, BandDeclining},
		{20, BandDeclining},
		{19, BandNeedsAttention},
		{0, BandNeedsAttention},
	}
	for _, tc := range cases {
		if got := Classify(tc.score); got != tc.want {
			t.Errorf("score %d: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestClassifyClampsOutOfRange(t *testing.T) {
	if got := Classify(-5); got != BandNeedsAttention {
		t.Errorf("expected needs_attention for -5, got %s", got)
	}
	if got := Classify(140); got != BandOptimal {
		t.Errorf("expected optimal for 140, got %s", got)
	}
}

func TestClassifyTotal(t *testing.T) {
	for score := 0; score <= 100; score++ {
		if Classify(score) == "" {
			t.Fatalf("no band for score %d", score)
		}
	}
}
