package stepform

import "math"

// Navigator tracks the displayed step, clamped to [1, total].
type Navigator struct {
	current int
	total   int
}

// NewNavigator starts on step 1. A total below 1 is treated as 1.
func NewNavigator(total int) *Navigator {
	if total < 1 {
		total = 1
	}
	return &Navigator{current: 1, total: total}
}

func (n *Navigator) Current() int { return n.current }

func (n *Navigator) Total() int { return n.total }

func (n *Navigator) IsFirst() bool { return n.current == 1 }

func (n *Navigator) IsLast() bool { return n.current == n.total }

// Advance moves forward one step and reports whether the index changed. On
// the last step it is a no-op.
func (n *Navigator) Advance() bool {
	if n.current >= n.total {
		return false
	}
	n.current++
	return true
}

// Back moves back one step and reports whether the index changed. On step 1
// it is a no-op.
func (n *Navigator) Back() bool {
	if n.current <= 1 {
		return false
	}
	n.current--
	return true
}

// Progress reports the completion percentage shown in the step header.
func (n *Navigator) Progress() int {
	return int(math.Round(float64(n.current) / float64(n.total) * 100))
}

// Reset returns to step 1.
func (n *Navigator) Reset() {
	n.current = 1
}
