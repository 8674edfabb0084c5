package engine

import "testing"

func TestRoundHalfEven(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.5, 2},
		{3.5, 4},
		{0.5, 0},
		{1.5, 2},
		{2.4, 2},
		{2.6, 3},
		{-2.5, -2},
	}
	for _, c := range cases {
		if got := RoundHalfEven(c.in); got != c.want {
			t.Errorf("RoundHalfEven(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestStopTraversalReachesRest(t *testing.T) {
	res := StopTraversal(16.67, 16.67, 1.0, 1.0, 1000)
	if res.ExitSpeed != 0 {
		t.Errorf("stop traversal exit speed = %v, want 0", res.ExitSpeed)
	}
	if res.Seconds <= 0 {
		t.Errorf("stop traversal seconds = %v, want positive", res.Seconds)
	}
}

func TestPassthroughTraversalReachesPassSpeed(t *testing.T) {
	res := PassthroughTraversal(16.67, 16.67, 5.56, 1.0, 1.0, 1000, 130)
	if res.ExitSpeed != 5.56 {
		t.Errorf("passthrough exit speed = %v, want 5.56", res.ExitSpeed)
	}
	if res.Seconds <= 0 {
		t.Errorf("passthrough seconds = %v, want positive", res.Seconds)
	}
}

func TestStopTraversalMatchesHandComputation(t *testing.T) {
	// v0=v_c=16.67 m/s, a=d=1.0, L=1000m: decel and reaccel each take
	// 16.67s covering ~138.9m, leaving ~43.3s of cruise.
	res := StopTraversal(16.67, 16.67, 1.0, 1.0, 1000)
	if res.Seconds < 75 || res.Seconds > 78 {
		t.Errorf("stop traversal seconds = %v, want ~76-77", res.Seconds)
	}
}
