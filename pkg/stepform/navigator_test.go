package stepform

import "testing"

func TestNavigatorClamps(t *testing.T) {
	nav := NewNavigator(3)
	if nav.Back() || nav.Current() != 1 {
		t.Fatalf("Back on step 1 should be a no-op")
	}
	for i := 0; i < 5; i++ {
		nav.Advance()
	}
	if nav.Current() != 3 || !nav.IsLast() {
		t.Fatalf("Advance should clamp at total, got %d", nav.Current())
	}
	if nav.Advance() {
		t.Fatalf("Advance on last step reported movement")
	}
	if !nav.Back() || nav.Current() != 2 {
		t.Fatalf("Back from 3 should land on 2, got %d", nav.Current())
	}
	nav.Reset()
	if !nav.IsFirst() {
		t.Fatalf("Reset should return to step 1")
	}
}

func TestNavigatorProgress(t *testing.T) {
	cases := []struct {
		total, step, want int
	}{
		{5, 1, 20},
		{5, 3, 60},
		{4, 1, 25},
		{3, 1, 33},
		{3, 2, 67},
		{1, 1, 100},
	}
	for _, tc := range cases {
		nav := NewNavigator(tc.total)
		for nav.Current() < tc.step {
			nav.Advance()
		}
		if got := nav.Progress(); got != tc.want {
			t.Fatalf("Progress(%d/%d) = %d, want %d", tc.step, tc.total, got, tc.want)
		}
	}
}
