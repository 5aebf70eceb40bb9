package nav

import "time"

// velocityWindow is how far back the release velocity looks.
const velocityWindow = 100 * time.Millisecond

type sample struct {
	x float64
	t time.Time
}

// Tracker turns pointer samples of a horizontal drag into a Gesture.
type Tracker struct {
	active  bool
	start   sample
	samples []sample
}

// Begin starts a drag at x.
func (tr *Tracker) Begin(x float64, t time.Time) {
	tr.active = true
	tr.start = sample{x, t}
	tr.samples = append(tr.samples[:0], tr.start)
}

// Active reports whether a drag is in progress.
func (tr *Tracker) Active() bool { return tr.active }

// Move records a pointer position and returns the displacement so far.
func (tr *Tracker) Move(x float64, t time.Time) float64 {
	if !tr.active {
		return 0
	}
	tr.samples = append(tr.samples, sample{x, t})
	tr.trim(t)
	return x - tr.start.x
}

// Displacement returns the current drag distance.
func (tr *Tracker) Displacement() float64 {
	if !tr.active || len(tr.samples) == 0 {
		return 0
	}
	return tr.samples[len(tr.samples)-1].x - tr.start.x
}

// End finishes the drag at x and returns the gesture for a page of width
// pageWidth. Velocity is measured over the trailing window, falling back to
// the whole drag when it holds a single sample.
func (tr *Tracker) End(x float64, t time.Time, pageWidth float64) Gesture {
	if !tr.active {
		return Gesture{PageWidth: pageWidth}
	}
	tr.samples = append(tr.samples, sample{x, t})
	tr.trim(t)
	tr.active = false

	first := tr.samples[0]
	if len(tr.samples) < 2 || !t.After(first.t) {
		first = tr.start
	}
	var velocity float64
	if dt := t.Sub(first.t).Seconds(); dt > 0 {
		velocity = (x - first.x) / dt
	}
	return Gesture{
		Displacement: x - tr.start.x,
		Velocity:     velocity,
		PageWidth:    pageWidth,
	}
}

// Cancel drops the drag in progress.
func (tr *Tracker) Cancel() {
	tr.active = false
	tr.samples = tr.samples[:0]
}

// trim keeps the samples inside the velocity window, plus the one just
// before it as the baseline.
func (tr *Tracker) trim(now time.Time) {
	cut := 0
	for i, s := range tr.samples {
		if now.Sub(s.t) <= velocityWindow {
			break
		}
		cut = i
	}
	if cut > 0 {
		tr.samples = append(tr.samples[:0], tr.samples[cut:]...)
	}
}
