package deck

import "testing"

func TestNewClampsTotal(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		wantTotal int
	}{
		{"normal", 10, 10},
		{"zero clamps to one", 0, 1},
		{"negative clamps to one", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.total)
			if d.Total() != tt.wantTotal {
				t.Errorf("Total() = %d, want %d", d.Total(), tt.wantTotal)
			}
			if d.Current() != 0 {
				t.Errorf("Current() = %d, want 0", d.Current())
			}
		})
	}
}

func TestNextSaturatesAtLastSlide(t *testing.T) {
	d := New(3)

	if !d.Next() {
		t.Error("Next() from slide 0 should change the index")
	}
	if !d.Next() {
		t.Error("Next() from slide 1 should change the index")
	}
	if !d.IsLast() {
		t.Errorf("expected last slide, got index %d", d.Current())
	}

	// Further Next calls are no-ops.
	for i := 0; i < 5; i++ {
		if d.Next() {
			t.Error("Next() at last slide should not change the index")
		}
	}
	if d.Current() != 2 {
		t.Errorf("Current() = %d, want 2", d.Current())
	}
}

func TestPreviousSaturatesAtFirstSlide(t *testing.T) {
	d := New(3)

	if d.Previous() {
		t.Error("Previous() at first slide should not change the index")
	}
	if d.Current() != 0 {
		t.Errorf("Current() = %d, want 0", d.Current())
	}

	d.Next()
	if !d.Previous() {
		t.Error("Previous() from slide 1 should change the index")
	}
	if !d.IsFirst() {
		t.Errorf("expected first slide, got index %d", d.Current())
	}
}

func TestSingleSlideDeck(t *testing.T) {
	d := New(1)

	if !d.IsFirst() || !d.IsLast() {
		t.Error("a one-slide deck is both first and last")
	}
	if d.Next() {
		t.Error("Next() on a one-slide deck should not change the index")
	}
	if d.Previous() {
		t.Error("Previous() on a one-slide deck should not change the index")
	}
	if d.Progress() != 0 {
		t.Errorf("Progress() = %d, want 0 for a one-slide deck", d.Progress())
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		current int
		want    int
	}{
		{"first slide", 5, 0, 0},
		{"last slide", 5, 4, 100},
		{"midpoint", 5, 2, 50},
		{"rounds to nearest", 3, 1, 50},
		{"two slides second", 2, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.total)
			for i := 0; i < tt.current; i++ {
				d.Next()
			}
			if got := d.Progress(); got != tt.want {
				t.Errorf("Progress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProgressMonotoneOverFullTraversal(t *testing.T) {
	d := New(7)
	prev := d.Progress()
	for d.Next() {
		p := d.Progress()
		if p < prev {
			t.Fatalf("progress went backwards: %d after %d", p, prev)
		}
		prev = p
	}
	if prev != 100 {
		t.Errorf("final progress = %d, want 100", prev)
	}
}

func TestFragmentsRevealBeforeSlideChange(t *testing.T) {
	// Slide 0 has 2 fragments, slide 1 has none, slide 2 has 1.
	d := NewWithFragments([]int{2, 0, 1})

	if d.Next() {
		t.Error("first Next should reveal a fragment, not change the index")
	}
	if d.RevealedFragments() != 1 {
		t.Errorf("RevealedFragments() = %d, want 1", d.RevealedFragments())
	}
	if d.Next() {
		t.Error("second Next should reveal the last fragment")
	}

	if !d.Next() {
		t.Error("all fragments revealed, Next should change the index")
	}
	if d.Current() != 1 {
		t.Errorf("Current() = %d, want 1", d.Current())
	}

	// Slide 1 has no fragments, so Next moves straight on.
	if !d.Next() {
		t.Error("Next on a fragment-free slide should change the index")
	}
	if d.Current() != 2 {
		t.Errorf("Current() = %d, want 2", d.Current())
	}
}

func TestFragmentsUnrevealBeforeSlideChange(t *testing.T) {
	d := NewWithFragments([]int{2, 0})

	d.Next() // reveal fragment 1
	d.Next() // reveal fragment 2
	d.Next() // move to slide 1

	if !d.Previous() {
		t.Error("Previous from a fragment-free slide should change the index")
	}
	if d.RevealedFragments() != 2 {
		t.Errorf("RevealedFragments() = %d, want 2 after returning", d.RevealedFragments())
	}

	if d.Previous() {
		t.Error("Previous should hide a fragment, not change the index")
	}
	if d.RevealedFragments() != 1 {
		t.Errorf("RevealedFragments() = %d, want 1", d.RevealedFragments())
	}
}

func TestNewWithFragmentsEmpty(t *testing.T) {
	d := NewWithFragments(nil)
	if d.Total() != 1 {
		t.Errorf("Total() = %d, want 1", d.Total())
	}
}

func TestSetTotalClampsCurrent(t *testing.T) {
	d := New(10)
	for i := 0; i < 9; i++ {
		d.Next()
	}
	if d.Current() != 9 {
		t.Fatalf("Current() = %d, want 9", d.Current())
	}

	d.SetTotal(4)
	if d.Current() != 3 {
		t.Errorf("Current() = %d, want 3 after shrink", d.Current())
	}
	if !d.IsLast() {
		t.Error("expected clamped position to be the last slide")
	}

	d.SetTotal(0)
	if d.Total() != 1 || d.Current() != 0 {
		t.Errorf("after SetTotal(0): total=%d current=%d, want 1/0", d.Total(), d.Current())
	}
}

func TestSetTotalDiscardsFragments(t *testing.T) {
	d := NewWithFragments([]int{3, 3})
	d.Next()

	d.SetTotal(2)
	if d.RevealedFragments() != 0 {
		t.Errorf("RevealedFragments() = %d, want 0 after reload", d.RevealedFragments())
	}
	// Without fragments, Next changes the slide directly.
	if !d.Next() {
		t.Error("Next after SetTotal should change the index")
	}
}

func TestResolveKey(t *testing.T) {
	tests := []struct {
		key  string
		want Action
	}{
		{KeyArrowRight, ActionNext},
		{KeyArrowDown, ActionNext},
		{KeySpace, ActionNext},
		{KeyArrowLeft, ActionPrevious},
		{KeyArrowUp, ActionPrevious},
		{"Enter", ActionNone},
		{"a", ActionNone},
		{"", ActionNone},
	}

	for _, tt := range tests {
		if got := ResolveKey(tt.key); got != tt.want {
			t.Errorf("ResolveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
