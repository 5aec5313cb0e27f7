package users

import "testing"

func TestLevelFormula(t *testing.T) {
	cases := []struct {
		exp  int
		want int
	}{
		{0, 1},
		{4, 1},
		{5, 2},
		{7, 2},
		{9, 2},
		{10, 3},
		{24, 5},
		{25, 6},
		{-3, 1},
	}
	for _, tc := range cases {
		if got := Level(tc.exp); got != tc.want {
			t.Errorf("Level(%d) = %d, want %d", tc.exp, got, tc.want)
		}
	}
}

func TestLevelNames(t *testing.T) {
	if LevelName(1) != "Pemula" {
		t.Fatalf("unexpected level 1 name %q", LevelName(1))
	}
	if LevelName(5) != "Penakluk Rimba" {
		t.Fatalf("unexpected level 5 name %q", LevelName(5))
	}
	if LevelName(6) != "Legenda Alam" || LevelName(42) != "Legenda Alam" {
		t.Fatal("levels past the table must share the catch-all name")
	}
	if LevelName(0) != "Pemula" {
		t.Fatal("below-range levels fall back to the first title")
	}
}
