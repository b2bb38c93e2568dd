package murmur

import "math"

// Seed is the host-supplied spawn record for one agent, in host screen
// space. The sim converts positions to its own world plane through the
// projection.
type Seed struct {
	ScreenX, ScreenY float64
	// CharIndex is the source character slot, used to stagger formation.
	CharIndex int
	// Leader marks the distinguished lead bird. At most one seed per run
	// should set it; extras are demoted during construction.
	Leader bool
	// Velocity is an optional preset world-space velocity. A seed placed
	// outside the world bounds with a nonzero velocity skips Forming and
	// enters Flocking immediately (the "swoops in from off screen" entrance).
	Velocity Vec3
}

// Agent is one simulated bird. Its fields are written only by the sim's
// update pass; the renderer reads them.
type Agent struct {
	Position Vec3
	Velocity Vec3
	Phase    Phase
	// CharIndex is the source character slot this agent formed from.
	CharIndex int
	// IsLeader is true for at most one agent per run.
	IsLeader bool
	// TargetIndex is the claimed particle slot, -1 until Revealing.
	TargetIndex int
	// MorphProgress runs 0 to 1 across the bird-to-particle morph.
	MorphProgress float64
	// AtTarget latches true once this agent's particle reached its
	// destination. Never cleared for the remainder of the run.
	AtTarget bool

	// Visual state, driven by tweens and read by the renderer.
	Scale float64
	Alpha float64
	Color Color

	index          int // position in the sim's agent slice, for index noise
	formingElapsed float64
	formingDelay   float64
	formingReady   bool // forming duration served, waiting on the leader gate
	morphStart     float64
	ownsSlot       bool // false when a wrapped assignment shares a slot
	tween          *morphTween
	flapPhase      float64
	hidden         bool // bird mesh no longer drawn
}

// flockable reports whether other agents should treat this one as a
// neighbor. Hidden (post-morph) agents no longer influence the flock.
func (a *Agent) flockable() bool {
	return !a.hidden && a.Phase != PhaseForming
}

// visible reports whether the renderer should draw this agent's mesh.
func (a *Agent) visible() bool {
	return !a.hidden && a.Alpha > 0
}

// formingDrift is the fraction of velocity applied while still forming.
const formingDrift = 0.25

// updateForming fades the agent in and grows its scale while it drifts
// gently. Returns true when the agent is ready to enter Flocking: its tween
// has finished and, for followers, the leader gate is open.
func (a *Agent) updateForming(dt float64, gateOpen bool, cfg *Config) bool {
	a.formingElapsed += dt
	if a.formingElapsed < a.formingDelay {
		return false
	}
	if a.tween == nil {
		a.tween = newFormingTween(a, cfg.FormingDuration)
	}
	a.tween.Update(float32(dt))
	a.Position = a.Position.Add(a.Velocity.Scale(dt * formingDrift))

	if a.tween.Done {
		a.formingReady = true
	}
	return a.formingReady && (a.IsLeader || gateOpen)
}

// enterFlocking is the single Forming to Flocking transition point.
func (a *Agent) enterFlocking(cfg *Config) {
	a.Phase = PhaseFlocking
	a.tween = nil
	a.Alpha = 1
	a.Scale = 1
	if a.Velocity == (Vec3{}) {
		// Deterministic initial heading so two runs spread identically.
		ang := indexNoise(a.index, 3.7) * 2 * math.Pi
		a.Velocity = Vec3{X: math.Cos(ang), Y: math.Sin(ang)}.Scale(cfg.MinSpeed)
	}
}

// beginReveal is the single Flocking to Revealing transition point: the
// agent claims target slot, starts the bird-to-particle morph, and never
// goes back.
func (a *Agent) beginReveal(slot int, target TargetSample, now float64, cfg *Config) {
	a.Phase = PhaseRevealing
	a.TargetIndex = slot
	a.morphStart = now
	a.MorphProgress = 0
	a.tween = newBirdMorph(a, target.Color, cfg)
}

// updateMorph advances the bird-to-particle stage. Alpha fades over the back
// half; scale and color are tween-driven. Returns true once the morph has
// completed and the bird mesh should be hidden.
func (a *Agent) updateMorph(now float64, dt float64, cfg *Config) bool {
	progress := clamp01((now - a.morphStart) / cfg.MorphDuration)
	if progress > a.MorphProgress {
		a.MorphProgress = progress
	}
	a.tween.Update(float32(dt))
	if a.MorphProgress > 0.5 {
		a.Alpha = clamp01(1 - (a.MorphProgress-0.5)*2)
	}
	if a.MorphProgress >= 1 {
		a.hidden = true
		a.Alpha = 0
		a.tween = nil
		return true
	}
	return false
}

// advanceFlap accumulates the wing phase as a function of distance flown,
// so faster birds flap faster.
func (a *Agent) advanceFlap(dt float64, cfg *Config) {
	a.flapPhase += a.Velocity.Length() * dt * cfg.WingFlapRate
	if a.flapPhase > 2*math.Pi {
		a.flapPhase -= 2 * math.Pi
	}
}

// TextSeeds lays out one seed cluster per character of text, centered on
// (cx, cy) in host screen space. A convenience for hosts that do not have
// real glyph geometry; the first character carries the leader. Empty text
// returns no seeds.
func TextSeeds(text string, cx, cy float64) []Seed {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	const perChar = 6
	const spacing = 26.0
	width := float64(len(runes)-1) * spacing

	seeds := make([]Seed, 0, len(runes)*perChar)
	for ci := range runes {
		baseX := cx - width/2 + float64(ci)*spacing
		for k := 0; k < perChar; k++ {
			n := ci*perChar + k
			seeds = append(seeds, Seed{
				ScreenX:   baseX + (indexNoise(n, 1.7)-0.5)*spacing,
				ScreenY:   cy + (indexNoise(n, 9.2)-0.5)*spacing*1.5,
				CharIndex: ci,
				Leader:    ci == 0 && k == 0,
			})
		}
	}
	return seeds
}
