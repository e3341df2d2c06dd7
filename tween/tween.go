// Package tween animates a displayed number towards a target value with an
// ease-out cubic curve.
package tween

import (
	"math"
	"sync"
	"time"
)

// settleEpsilon is the smallest change worth animating.
const settleEpsilon = 0.0001

func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Tween is safe for concurrent use. All methods take the current time so the
// curve can be sampled deterministically.
type Tween struct {
	mu       sync.Mutex
	duration time.Duration
	from     float64
	to       float64
	start    time.Time
	active   bool
}

// New returns a settled tween displaying initial.
func New(initial float64, duration time.Duration) *Tween {
	return &Tween{
		duration: duration,
		from:     initial,
		to:       initial,
	}
}

// SetTarget restarts the animation from the value displayed at now, not from
// the previous target.
func (tw *Tween) SetTarget(to float64, now time.Time) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	from := tw.valueAt(now)
	tw.from = from
	tw.to = to
	tw.start = now
	tw.active = math.Abs(to-from) >= settleEpsilon && tw.duration > 0
	if !tw.active {
		tw.from = to
	}
}

// Value is the displayed value at now.
func (tw *Tween) Value(now time.Time) float64 {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.valueAt(now)
}

func (tw *Tween) Target() float64 {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.to
}

// Animating reports whether the value at now still differs from the target.
func (tw *Tween) Animating(now time.Time) bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.active && tw.progress(now) < 1
}

// caller holds mu
func (tw *Tween) valueAt(now time.Time) float64 {
	if !tw.active {
		return tw.to
	}
	t := tw.progress(now)
	if t >= 1 {
		return tw.to
	}
	return tw.from + (tw.to-tw.from)*EaseOutCubic(t)
}

// caller holds mu
func (tw *Tween) progress(now time.Time) float64 {
	elapsed := now.Sub(tw.start)
	t := float64(elapsed) / float64(tw.duration)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
