// Package deck implements the slide navigation state machine: a current
// index bounded by a fixed total, saturating next/previous transitions,
// incremental fragment reveal, and derived progress.
package deck

// Deck tracks the viewer's position within an ordered sequence of slides.
// The invariant 0 <= current <= total-1 holds across every transition;
// boundary transitions saturate, they never wrap or error.
type Deck struct {
	current   int
	total     int
	fragments []int // fragment count per slide; nil when the deck has none
	revealed  []int // fragments currently revealed per slide
}

// New creates a deck positioned on the first slide. A total below 1 is
// clamped to 1.
func New(total int) *Deck {
	if total < 1 {
		total = 1
	}
	return &Deck{total: total}
}

// NewWithFragments creates a deck where fragments[i] is the number of
// incrementally revealed elements on slide i. len(fragments) fixes total.
func NewWithFragments(fragments []int) *Deck {
	total := len(fragments)
	if total < 1 {
		return New(1)
	}
	d := &Deck{
		total:     total,
		fragments: make([]int, total),
		revealed:  make([]int, total),
	}
	copy(d.fragments, fragments)
	return d
}

// Current returns the current slide index.
func (d *Deck) Current() int { return d.current }

// Total returns the slide count.
func (d *Deck) Total() int { return d.total }

// IsFirst reports whether the deck is on the first slide.
func (d *Deck) IsFirst() bool { return d.current == 0 }

// IsLast reports whether the deck is on the last slide.
func (d *Deck) IsLast() bool { return d.current == d.total-1 }

// Next advances the deck. If the current slide still has unrevealed
// fragments, the next fragment is revealed instead of changing slides.
// At the last slide with everything revealed, Next is a no-op. It returns
// true when the slide index changed.
func (d *Deck) Next() bool {
	if d.fragments != nil && d.revealed[d.current] < d.fragments[d.current] {
		d.revealed[d.current]++
		return false
	}
	if d.current < d.total-1 {
		d.current++
		return true
	}
	return false
}

// Previous steps the deck back. If the current slide has revealed fragments,
// the most recent one is hidden instead of changing slides. At the first
// slide with nothing revealed, Previous is a no-op. It returns true when the
// slide index changed.
func (d *Deck) Previous() bool {
	if d.fragments != nil && d.revealed[d.current] > 0 {
		d.revealed[d.current]--
		return false
	}
	if d.current > 0 {
		d.current--
		return true
	}
	return false
}

// RevealedFragments returns how many fragments are revealed on the current
// slide.
func (d *Deck) RevealedFragments() int {
	if d.revealed == nil {
		return 0
	}
	return d.revealed[d.current]
}

// Progress returns the completion percentage, rounded to the nearest whole
// number. It is 0 when total <= 1, 0 at the first slide, and 100 at the
// last.
func (d *Deck) Progress() int {
	if d.total <= 1 {
		return 0
	}
	return int((float64(d.current)/float64(d.total-1))*100 + 0.5)
}

// SetTotal changes the slide count (content reload) and clamps the current
// index into the new valid range. A total below 1 is clamped to 1. Fragment
// state is discarded; the reloaded content defines its own fragments.
func (d *Deck) SetTotal(total int) {
	if total < 1 {
		total = 1
	}
	d.total = total
	d.fragments = nil
	d.revealed = nil
	if d.current > total-1 {
		d.current = total - 1
	}
}
