package types

import (
	"testing"
)

func TestRound2_HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"285.555", "285.56"},
		{"285.554", "285.55"},
		{"0.005", "0.01"},
		{"100", "100"},
		{"21.784", "21.78"},
		{"21.785", "21.79"},
	}

	for _, tc := range cases {
		got := Round2(MustMoney(tc.in))
		if !got.Equal(MustMoney(tc.want)) {
			t.Errorf("Round2(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestNewMoneyFromString_Invalid(t *testing.T) {
	if _, err := NewMoneyFromString("not a number"); err == nil {
		t.Error("expected error for invalid input")
	}
}
