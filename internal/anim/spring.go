// Package anim drives scalar positions toward targets with a damped spring.
package anim

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// settleEpsilon is the distance and speed below which a spring snaps onto
// its target.
const settleEpsilon = 0.01

// Params describe a spring the way UI toolkits do: the response is the
// period of the undamped oscillation, damping is the damping ratio.
type Params struct {
	Response time.Duration
	Damping  float64
	FPS      int
}

// DefaultParams match an interactive spring with moderate damping.
var DefaultParams = Params{Response: 350 * time.Millisecond, Damping: 0.8, FPS: 60}

// Frame returns the time between two animation frames.
func (p Params) Frame() time.Duration {
	if p.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(p.FPS)
}

// Spring is a position moving toward a target.
type Spring struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// NewSpring creates a settled spring at position 0.
func NewSpring(p Params) Spring {
	fps := p.FPS
	if fps <= 0 {
		fps = 60
	}
	response := p.Response.Seconds()
	if response <= 0 {
		response = DefaultParams.Response.Seconds()
	}
	return Spring{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 2*math.Pi/response, p.Damping),
	}
}

// Position returns the current position.
func (s *Spring) Position() float64 { return s.pos }

// AnimateTo sets a new target and keeps the current momentum.
func (s *Spring) AnimateTo(target float64) {
	s.target = target
}

// JumpTo moves straight to target and stops.
func (s *Spring) JumpTo(target float64) {
	s.target = target
	s.pos = target
	s.vel = 0
}

// Nudge displaces the spring by d from its target without momentum, as when
// content follows a pointer.
func (s *Spring) Nudge(d float64) {
	s.pos = s.target + d
	s.vel = 0
}

// Settled reports whether the spring rests on its target.
func (s *Spring) Settled() bool {
	return s.pos == s.target && s.vel == 0
}

// Step advances one frame and reports whether the spring is still moving.
func (s *Spring) Step() bool {
	if s.Settled() {
		return false
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.pos-s.target) < settleEpsilon && math.Abs(s.vel) < settleEpsilon {
		s.pos = s.target
		s.vel = 0
		return false
	}
	return true
}
