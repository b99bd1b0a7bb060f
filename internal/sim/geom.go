package sim

import (
	"math/rand"
)

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Intersects reports strict overlap; touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return o.X < r.X+r.W && o.X+o.W > r.X && o.Y < r.Y+r.H && o.Y+o.H > r.Y
}

// Inset shrinks the box by m on every side.
func (r Rect) Inset(m float64) Rect {
	return Rect{X: r.X + m, Y: r.Y + m, W: r.W - 2*m, H: r.H - 2*m}
}

// Contains reports whether the box lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Heading is a cardinal direction stored as compass degrees
// (0 = up, 90 = right, 180 = down, 270 = left).
type Heading int

const (
	HeadingUp    Heading = 0
	HeadingRight Heading = 90
	HeadingDown  Heading = 180
	HeadingLeft  Heading = 270
)

// cardinalHeadings is the order used for uniform random picks.
var cardinalHeadings = [4]Heading{HeadingUp, HeadingRight, HeadingDown, HeadingLeft}

// Vector returns the exact unit step for the heading. Screen Y grows downward.
func (h Heading) Vector() (dx, dy float64) {
	switch h {
	case HeadingRight:
		return 1, 0
	case HeadingDown:
		return 0, 1
	case HeadingLeft:
		return -1, 0
	default:
		return 0, -1
	}
}

// Vertical reports whether the heading moves along the Y axis.
func (h Heading) Vertical() bool {
	return h == HeadingUp || h == HeadingDown
}

func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingRight:
		return "right"
	case HeadingDown:
		return "down"
	case HeadingLeft:
		return "left"
	default:
		return "invalid"
	}
}

// Rand is the randomness the simulation consumes. Injecting it keeps AI
// re-rolls, heading retimes and terrain generation reproducible.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded math/rand source.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay randomness
}
