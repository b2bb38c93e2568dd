// Package murmur animates a text-to-image transition for [Ebitengine].
//
// A short text string explodes into a flock of autonomous birds that fly
// under a zone-based boids algorithm, then one by one morph into colored
// point particles that assemble into a target raster image.
//
// # Quick start
//
// Create a [Sim] from a set of agent seeds, hand it a target image, and
// advance it once per frame:
//
//	seeds := murmur.TextSeeds("hello", 640, 360)
//	sim := murmur.New(murmur.DefaultConfig(), seeds, 1280, 720)
//	sim.LoadTargetImage(img) // nil falls back to a procedural pattern
//
//	// in your ebiten.Game:
//	func (g *Game) Update() error        { g.sim.Update(1.0 / float64(ebiten.TPS())); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.renderer.Draw(s, g.sim) }
//
// # Phases
//
// Every agent moves forward through three phases and never backward:
//
//   - Forming: the agent fades in and grows while drifting. When a leader
//     is present, followers hold here until the leader has entered the
//     visible area.
//   - Flocking: the agent flies under separation, alignment, and cohesion
//     forces plus soft containment and pointer avoidance.
//   - Revealing: the agent claims a target sample, shrinks into a particle,
//     and the particle flies to its destination pixel.
//
// Target samples the flock cannot claim fade in on their own schedule once
// most agents have arrived, rippling outward from recent motion.
//
// # Milestones
//
// The host observes progress through [Callbacks]: flight begins, output
// ready, reveal complete, and particles formed, each fired exactly once
// per run. The ecs subpackage bridges these into a [Donburi] world.
//
// # Determinism
//
// All organic variation (reveal stagger, flight swoops, ambient reveal
// order) derives from the configured seed and per-index hashes, never from
// per-frame entropy. Two runs with the same seeds, config, and tick
// sequence produce the same animation.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package murmur
