package geometry

import "testing"

func TestDivPModPIdentity(t *testing.T) {
	for _, s := range []int{1, 2, 3, 4, 7} {
		for x := -20; x <= 20; x++ {
			got := DivP(x, s)*s + ModP(x, s)
			if got != x {
				t.Fatalf("div_p(%d,%d)*%d + mod_p(%d,%d) = %d, want %d", x, s, s, x, s, got, x)
			}
		}
	}
}

func TestNumSamplesMatchesCardinality(t *testing.T) {
	for _, s := range []int{1, 2, 3, 5} {
		for a := -10; a <= 10; a++ {
			for b := a; b <= a+20; b++ {
				want := 0
				for k := a; k <= b; k++ {
					if ModP(k, s) == 0 {
						want++
					}
				}
				got := NumSamples(s, a, b)
				if got != want {
					t.Fatalf("num_samples(%d,%d,%d) = %d, want %d", s, a, b, got, want)
				}
			}
		}
	}
}

func TestLevelCountReachesOne(t *testing.T) {
	cases := []struct {
		size int
		up   int
		down int
	}{
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 2},
		{8, 4, 4},
	}
	for _, c := range cases {
		if got := LevelCount(1, c.size); got != c.up {
			t.Errorf("LevelCount(up, %d) = %d, want %d", c.size, got, c.up)
		}
		if got := LevelCount(0, c.size); got != c.down {
			t.Errorf("LevelCount(down, %d) = %d, want %d", c.size, got, c.down)
		}
	}
}
