package solver

import (
	"errors"
	"testing"
)

func TestRoundVarValueSnapsSmallNegativeNoiseToZero(t *testing.T) {
	got, err := RoundVarValue(-1e-9)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestRoundVarValueRejectsRealNegative(t *testing.T) {
	_, err := RoundVarValue(-0.5)
	if !errors.Is(err, ErrInvalidSolverValue) {
		t.Fatalf("got %v, want ErrInvalidSolverValue", err)
	}
}

func TestRoundVarValueRoundsToNearestInt(t *testing.T) {
	cases := []struct {
		raw  float64
		want int64
	}{
		{3.0000001, 3},
		{2.9999999, 3},
		{0, 0},
		{7.5, 8},
	}
	for _, c := range cases {
		got, err := RoundVarValue(c.raw)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("RoundVarValue(%v) = %d, want %d", c.raw, got, c.want)
		}
	}
}
