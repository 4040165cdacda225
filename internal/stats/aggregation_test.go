package stats

import "testing"

func TestMeanInts(t *testing.T) {
	if got := MeanInts([]int{}); got != nil {
		t.Fatalf("expected nil for empty input")
	}
	if got := MeanInts([]int{2, 1}); got == nil || *got != 1.5 {
		t.Fatalf("mean mismatch: got %v want 1.5", got)
	}
	if got := SumInts([]int{0, 2, 0, 1}); got != 3 {
		t.Fatalf("sum mismatch: got %d want 3", got)
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		in     float64
		places int32
		want   float64
	}{
		{0.4456, 2, 0.45},
		{391.666666, 2, 391.67},
		{1234.5, 0, 1235},
		{-2.345, 2, -2.35},
		{0, 2, 0},
	}
	for _, c := range cases {
		if got := Round(c.in, c.places); got != c.want {
			t.Fatalf("Round(%v, %d): got %v want %v", c.in, c.places, got, c.want)
		}
	}
}
