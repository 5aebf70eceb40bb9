// Package nav keeps the active page index and decides how transitions
// between pages play out.
//
// Two input sources move the index. Direct selection (a tab tap or an
// external request) animates only when it lands on an adjacent page; jumps
// of zero or several pages are instant. A swipe release moves at most one
// page and always animates, including the snap back after a short drag.
package nav

import "math"

const (
	// DefaultSwipeFraction is the share of the page width a drag has to
	// cover to turn the page.
	DefaultSwipeFraction = 0.2
	// DefaultFlingVelocity is the release speed, in the same unit as the
	// page width per second, that turns the page regardless of distance.
	DefaultFlingVelocity = 800
)

// Gesture describes a horizontal drag at the moment it is released.
// Negative values point left, which advances to the next page.
type Gesture struct {
	Displacement float64
	Velocity     float64
	PageWidth    float64
}

// Transition is the outcome of one navigation input.
type Transition struct {
	From     int
	To       int
	Animated bool
	Swipe    bool
}

// Changed reports whether the active page moved.
func (t Transition) Changed() bool { return t.From != t.To }

// Adjacent reports whether the move was exactly one page.
func (t Transition) Adjacent() bool { return abs(t.To-t.From) == 1 }

// Controller owns the active and previous page indices. Both always lie in
// [0, count-1].
type Controller struct {
	count    int
	active   int
	previous int

	swipeFraction float64
	flingVelocity float64
}

// Option customizes a Controller.
type Option func(*Controller)

// WithSwipeFraction sets the distance threshold as a share of page width.
func WithSwipeFraction(f float64) Option {
	return func(c *Controller) { c.swipeFraction = f }
}

// WithFlingVelocity sets the speed threshold.
func WithFlingVelocity(v float64) Option {
	return func(c *Controller) { c.flingVelocity = v }
}

// WithStart sets the initial page.
func WithStart(index int) Option {
	return func(c *Controller) {
		c.active = index
		c.previous = index
	}
}

// New creates a Controller over count pages starting on the first one.
func New(count int, opts ...Option) *Controller {
	if count < 1 {
		count = 1
	}
	c := &Controller{
		count:         count,
		swipeFraction: DefaultSwipeFraction,
		flingVelocity: DefaultFlingVelocity,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.active = c.clamp(c.active)
	c.previous = c.clamp(c.previous)
	return c
}

// Active returns the current page.
func (c *Controller) Active() int { return c.active }

// Previous returns the page that was active before the last transition.
func (c *Controller) Previous() int { return c.previous }

// Count returns the number of pages.
func (c *Controller) Count() int { return c.count }

// FlingVelocity returns the release speed above which a swipe turns the
// page regardless of distance.
func (c *Controller) FlingVelocity() float64 { return c.flingVelocity }

// Select moves straight to index. The move animates only when it is
// adjacent to the current page.
func (c *Controller) Select(index int) Transition {
	c.previous = c.active
	c.active = c.clamp(index)
	t := Transition{From: c.previous, To: c.active}
	t.Animated = t.Adjacent()
	return t
}

// Release applies a finished drag: at most one page in the drag direction,
// clamped at both ends, always animated.
func (c *Controller) Release(g Gesture) Transition {
	dir := Direction(g, c.swipeFraction, c.flingVelocity)
	c.previous = c.active
	c.active = c.clamp(c.active + dir)
	return Transition{
		From:     c.previous,
		To:       c.active,
		Animated: true,
		Swipe:    true,
	}
}

// Offset is the horizontal position of the page strip: -active * pageWidth.
func (c *Controller) Offset(pageWidth float64) float64 {
	return -float64(c.active) * pageWidth
}

// OffsetAnimated reports whether the move from the previous to the active
// page should slide rather than jump.
func (c *Controller) OffsetAnimated() bool {
	return Transition{From: c.previous, To: c.active}.Adjacent()
}

// Direction classifies a gesture: +1 for the next page, -1 for the previous
// one, 0 to stay.
func Direction(g Gesture, fraction, velocity float64) int {
	if math.Abs(g.Displacement) > g.PageWidth*fraction || math.Abs(g.Velocity) > velocity {
		// The sign of the displacement decides; a pure fling with no
		// distance falls back to the velocity's sign.
		d := g.Displacement
		if d == 0 {
			d = g.Velocity
		}
		if d < 0 {
			return 1
		}
		return -1
	}
	return 0
}

func (c *Controller) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > c.count-1 {
		return c.count - 1
	}
	return i
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
