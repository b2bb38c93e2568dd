package murmur

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Lerp returns the componentwise interpolation from c toward other by t.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Rect is an axis-aligned rectangle. Used for the sampler's display-area
// budget and the demo viewport. The coordinate system matches the world
// plane: origin at the center, Y increasing upward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Phase is an agent's position in the forward-only lifecycle.
// Transitions go Forming to Flocking to Revealing and never backward.
type Phase uint8

const (
	PhaseForming   Phase = iota // fading in, waiting for the leader gate
	PhaseFlocking               // flying under the boids solver
	PhaseRevealing              // morphing into a particle
)

// String returns the phase name for logs and test failures.
func (p Phase) String() string {
	switch p {
	case PhaseForming:
		return "Forming"
	case PhaseFlocking:
		return "Flocking"
	case PhaseRevealing:
		return "Revealing"
	default:
		return "Unknown"
	}
}

// Milestone identifies one of the four run-level progress events.
type Milestone uint8

const (
	MilestoneFlightBegins    Milestone = iota // most agents have left Forming
	MilestoneOutputReady                      // the reveal has been underway long enough
	MilestoneRevealComplete                   // a majority of revealing agents arrived
	MilestoneParticlesFormed                  // the image may be treated as assembled
)

// String returns the milestone name for logs and test failures.
func (m Milestone) String() string {
	switch m {
	case MilestoneFlightBegins:
		return "FlightBegins"
	case MilestoneOutputReady:
		return "OutputReady"
	case MilestoneRevealComplete:
		return "RevealComplete"
	case MilestoneParticlesFormed:
		return "ParticlesFormed"
	default:
		return "Unknown"
	}
}

// Callbacks holds optional milestone handlers supplied by the host.
// Each is invoked at most once per run, always from within Sim.Update.
// Nil fields are skipped.
type Callbacks struct {
	OnFlightBegins    func()
	OnOutputReady     func()
	OnRevealComplete  func()
	OnParticlesFormed func()
}

// indexNoise returns a deterministic pseudo-random value in [0, 1) derived
// from an index and a salt. Used everywhere organic variation must be
// reproducible across runs: reveal stagger, lateral avoidance, swoop phase,
// ambient reveal order.
func indexNoise(i int, salt float64) float64 {
	v := math.Sin(float64(i)*12.9898+salt*78.233) * 43758.5453
	return v - math.Floor(v)
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
