package mathutil

import "testing"

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0}, {0.49, 0}, {0.5, 1}, {1.5, 2}, {2.4999, 2},
		{-0.5, 0}, {-0.51, -1}, {-1.5, -1}, {-2.7, -3},
	}
	for _, tc := range cases {
		if got := RoundHalfUp(tc.in); got != tc.want {
			t.Errorf("RoundHalfUp(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestIntMax(t *testing.T) {
	if IntMax(3, -1) != 3 || IntMax(-1, 3) != 3 || IntMax(2, 2) != 2 {
		t.Error("IntMax returned wrong operand")
	}
}
