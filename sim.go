package murmur

import (
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"os"
)

// Sim owns the whole transition: the agents, the particle buffer, the
// interaction field, and the clock. It is single-threaded and frame-driven:
// the host calls Update once per display frame, then hands the Sim to a
// Renderer. All simulation writes complete inside Update, before the
// renderer's single read, so no locking exists anywhere.
type Sim struct {
	cfg    Config
	proj   Projection
	bounds Bounds

	agents []Agent
	leader int // index into agents, -1 when the run has no leader

	targets   []TargetSample
	particles *ParticleBuffer
	lastImage image.Image // kept to re-sample on resize

	field *InteractionField

	rng *rand.Rand

	callbacks Callbacks
	fired     [4]bool

	now           float64
	frame         int
	pointer       Vec3
	pointerActive bool

	gateOpen      bool
	firstFlockAt  float64
	anyFlocking   bool
	revealStarted bool
	revealAt      float64

	accels   []Vec3 // per-agent steering scratch
	disposed bool
	debug    bool
}

// New creates a Sim from host seeds and viewport dimensions. Seed positions
// are converted from host screen space onto the world plane through the
// configured projection. At most one seed keeps its leader flag; extras are
// demoted.
func New(cfg Config, seeds []Seed, viewW, viewH float64) *Sim {
	s := &Sim{
		cfg: cfg,
		proj: Projection{
			Width: viewW, Height: viewH,
			FOV: cfg.FOV, Distance: cfg.CameraDistance,
		},
		leader: -1,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		field:  newInteractionField(cfg.FieldResolution, cfg.FieldDecay),
	}
	s.bounds = s.proj.worldBounds()
	s.spawn(seeds)
	return s
}

// spawn builds the agent slice from seeds.
func (s *Sim) spawn(seeds []Seed) {
	s.agents = make([]Agent, len(seeds))
	s.accels = make([]Vec3, len(seeds))
	s.leader = -1
	for i, seed := range seeds {
		a := &s.agents[i]
		a.index = i
		a.Position = s.proj.ScreenToWorld(seed.ScreenX, seed.ScreenY)
		a.Velocity = seed.Velocity
		a.Phase = PhaseForming
		a.CharIndex = seed.CharIndex
		a.TargetIndex = -1
		a.formingDelay = float64(seed.CharIndex) * s.cfg.FormingStagger
		a.Color = s.cfg.BirdColor
		if seed.Leader && s.leader < 0 {
			a.IsLeader = true
			a.Color = s.cfg.LeaderColor
			s.leader = i
		}
		// Seeds placed off-bounds with a preset velocity swoop straight in.
		if !s.bounds.Contains(a.Position) && a.Velocity != (Vec3{}) {
			a.enterFlocking(&s.cfg)
		}
	}
	if s.leader < 0 {
		// No leader concept this run; followers are never gated.
		s.gateOpen = true
	}
}

// SetCallbacks installs the host's milestone handlers. Call before the
// first Update; handlers fire from within Update.
func (s *Sim) SetCallbacks(cb Callbacks) {
	s.callbacks = cb
}

// SetDebugMode enables per-second phase stats on stderr.
func (s *Sim) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Config returns a pointer to the sim's config for live tuning. Durations
// and thresholds already in flight keep their captured values.
func (s *Sim) Config() *Config {
	return &s.cfg
}

// Agents returns the agent slice for rendering and inspection. The
// returned slice MUST NOT be mutated.
func (s *Sim) Agents() []Agent {
	return s.agents
}

// Particles returns the particle buffer, or nil before targets are set.
func (s *Sim) Particles() *ParticleBuffer {
	return s.particles
}

// Field returns the interaction field.
func (s *Sim) Field() *InteractionField {
	return s.field
}

// Projection returns the current screen/world mapping.
func (s *Sim) Projection() Projection {
	return s.proj
}

// WorldBounds returns the current flight box.
func (s *Sim) WorldBounds() Bounds {
	return s.bounds
}

// Elapsed returns the simulation time advanced so far.
func (s *Sim) Elapsed() float64 {
	return s.now
}

// DisplayArea returns the world rectangle the target image occupies.
func (s *Sim) DisplayArea() Rect {
	return s.proj.displayArea(s.cfg.DisplayAreaFraction)
}

// SetTargets installs the morph destinations. Ignored once the reveal has
// started: agents already morphing must keep their claimed slots. An empty
// set is replaced by the procedural fallback so downstream phases never
// stall on an all-or-nothing dependency.
func (s *Sim) SetTargets(samples []TargetSample) {
	if s.disposed || s.revealStarted {
		return
	}
	if len(samples) == 0 {
		samples = FallbackSamples(s.DisplayArea(), s.cfg.FallbackSamples, s.cfg.Seed)
	}
	s.targets = samples
	s.particles = newParticleBuffer(samples, &s.cfg)
}

// LoadTargetImage samples a decoded image into targets. A nil image or one
// with no usable pixels degrades to the procedural fallback.
func (s *Sim) LoadTargetImage(img image.Image) {
	s.lastImage = img
	s.SetTargets(SampleImage(img, s.DisplayArea(), &s.cfg))
}

// LoadTargetReader decodes an image stream and samples it. Decode failures
// degrade to the procedural fallback and are logged, never fatal.
func (s *Sim) LoadTargetReader(r io.Reader) {
	samples, err := LoadTargetSamples(r, s.DisplayArea(), &s.cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[murmur] %v; using procedural fallback\n", err)
	}
	s.SetTargets(samples)
}

// SetPointer updates the pointer position from host screen space. Agents
// within the avoidance radius flee it and the interaction field records a
// decaying trail at its mapped position.
func (s *Sim) SetPointer(sx, sy float64) {
	if s.disposed {
		return
	}
	s.pointer = s.proj.ScreenToWorld(sx, sy)
	s.pointerActive = true

	area := s.DisplayArea()
	u := (s.pointer.X - area.X) / area.Width
	v := (s.pointer.Y - area.Y) / area.Height
	s.field.Deposit(u, v, s.cfg.FieldStrength)
}

// ClearPointer removes the pointer from the simulation (pointer left the
// viewport).
func (s *Sim) ClearPointer() {
	s.pointerActive = false
}

// Resize re-derives the world bounds and display area from new viewport
// dimensions, and re-samples the target image into the new area when one
// was provided and the reveal has not begun.
func (s *Sim) Resize(viewW, viewH float64) {
	if s.disposed || viewW <= 0 || viewH <= 0 {
		return
	}
	s.proj.Width = viewW
	s.proj.Height = viewH
	s.bounds = s.proj.worldBounds()
	if s.particles != nil && !s.revealStarted {
		if s.lastImage != nil {
			s.SetTargets(SampleImage(s.lastImage, s.DisplayArea(), &s.cfg))
		} else {
			s.SetTargets(nil)
		}
	}
}

// Dispose stops the simulation and releases the particle buffer and any
// decoded image data. Update becomes a no-op; no milestone fires after
// disposal.
func (s *Sim) Dispose() {
	s.disposed = true
	s.agents = nil
	s.accels = nil
	s.targets = nil
	s.particles = nil
	s.lastImage = nil
	s.field = nil
}

// Reset starts a fresh run with new seeds, keeping config and viewport.
func (s *Sim) Reset(seeds []Seed) {
	cfg := s.cfg
	proj := s.proj
	debug := s.debug
	cb := s.callbacks
	*s = Sim{
		cfg:    cfg,
		proj:   proj,
		leader: -1,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		field:  newInteractionField(cfg.FieldResolution, cfg.FieldDecay),
		debug:  debug,
	}
	s.callbacks = cb
	s.bounds = s.proj.worldBounds()
	s.spawn(seeds)
}

// Update advances the whole system one tick. Write order is fixed: phases,
// then particle flights, then field decay, then milestones. The renderer's
// read happens strictly after, in the same frame.
func (s *Sim) Update(dt float64) {
	if s.disposed || dt <= 0 {
		return
	}
	s.now += dt
	s.frame++

	s.updateGate()
	s.updatePhases(dt)
	s.updateMovement(dt)
	s.updateReveal(dt)
	if s.particles != nil {
		s.particles.update(dt, s.now)
	}
	s.latchArrivals()
	s.updateAmbientTrigger()
	s.field.Step(dt)
	s.checkMilestones()

	if s.debug && s.frame%60 == 0 {
		s.debugLog()
	}
}

// updateGate latches the leader gate open once the leader has left Forming
// and crossed into the visible area. Latched: followers released once stay
// released.
func (s *Sim) updateGate() {
	if s.gateOpen || s.leader < 0 {
		return
	}
	l := &s.agents[s.leader]
	if l.Phase != PhaseForming && s.bounds.Inset(s.cfg.LeaderGateInset).Contains(l.Position) {
		s.gateOpen = true
	}
}

// updatePhases advances Forming agents and handles their transition into
// Flocking.
func (s *Sim) updatePhases(dt float64) {
	for i := range s.agents {
		a := &s.agents[i]
		if a.Phase != PhaseForming {
			continue
		}
		if a.updateForming(dt, s.gateOpen, &s.cfg) {
			a.enterFlocking(&s.cfg)
		}
	}
	if !s.anyFlocking {
		for i := range s.agents {
			if s.agents[i].Phase == PhaseFlocking {
				s.anyFlocking = true
				s.firstFlockAt = s.now
				break
			}
		}
	}
}

// updateMovement runs the flocking solver for every airborne agent.
// Steering is computed for all agents first, then integrated, so the force
// pass sees a consistent snapshot regardless of agent order.
func (s *Sim) updateMovement(dt float64) {
	env := s.buildEnv()
	for i := range s.agents {
		a := &s.agents[i]
		if a.hidden || a.Phase == PhaseForming {
			s.accels[i] = Vec3{}
			continue
		}
		accel := flockSteer(s.agents, i, env, &s.cfg)
		if a.Phase == PhaseRevealing {
			// Morphing birds drift toward their destination; the flock's
			// grip loosens as the morph advances.
			accel = accel.Scale(1 - 0.5*a.MorphProgress)
			target := s.targets[a.TargetIndex].Position
			accel = accel.Add(target.Sub(a.Position).Normalize().Scale(s.cfg.MorphSeek))
		}
		s.accels[i] = accel
	}
	for i := range s.agents {
		a := &s.agents[i]
		if a.hidden || a.Phase == PhaseForming {
			continue
		}
		integrate(a, s.accels[i], s.bounds, dt, &s.cfg)
		a.advanceFlap(dt, &s.cfg)
	}
}

// buildEnv snapshots the per-tick solver context.
func (s *Sim) buildEnv() flockEnv {
	env := flockEnv{
		bounds:        s.bounds,
		pointer:       s.pointer,
		pointerActive: s.pointerActive,
	}
	var sum Vec3
	for i := range s.agents {
		a := &s.agents[i]
		if a.IsLeader || !a.flockable() {
			continue
		}
		sum = sum.Add(a.Position)
		env.flockCount++
	}
	if env.flockCount > 0 {
		env.centroid = sum.Scale(1 / float64(env.flockCount))
	}
	return env
}

// updateReveal triggers the global Flocking to Revealing transition and
// advances every morphing bird.
func (s *Sim) updateReveal(dt float64) {
	cfg := &s.cfg

	// The global trigger waits for both the minimum flocking duration and
	// the sampler's output. A missing sampler defers the transition; it
	// never errors.
	ready := s.anyFlocking && s.particles != nil &&
		s.now-s.firstFlockAt >= cfg.MinFlockingDuration
	if ready {
		s.convertSubset()
	}

	for i := range s.agents {
		a := &s.agents[i]
		if a.Phase != PhaseRevealing || a.hidden {
			continue
		}
		done := a.updateMorph(s.now, dt, cfg)
		if a.ownsSlot {
			s.particles.track(a.TargetIndex, a.Position, a.Color)
		}
		if done && a.ownsSlot {
			s.particles.beginFlight(a.TargetIndex, s.now)
		}
	}
}

// convertSubset moves a bounded random fraction of eligible Flocking agents
// into Revealing this tick, so the transition staggers across a second or
// more instead of popping the whole flock at once.
func (s *Sim) convertSubset() {
	maxPerTick := int(s.cfg.RevealPerTickFraction*float64(len(s.agents))) + 1
	converted := 0
	for i := range s.agents {
		if converted >= maxPerTick {
			break
		}
		a := &s.agents[i]
		if a.Phase != PhaseFlocking {
			continue
		}
		if s.rng.Float64() > s.cfg.RevealPerTickFraction {
			continue
		}
		s.assignAndReveal(a)
		converted++
	}
}

// assignAndReveal claims a target slot for the agent and starts its morph.
// The starting slot is index-proportional so assignment spreads across the
// image instead of clustering; from there the first idle slot wins, and
// when the ambient pass has eaten the idle pool the first unclaimed slot of
// any state is reclaimed instead. Only with more agents than samples does
// the mapping wrap onto an already-held slot, shared without driving it.
func (s *Sim) assignAndReveal(a *Agent) {
	n := s.particles.Len()
	start := a.index * n / max(len(s.agents), 1)
	slot := -1
	for k := 0; k < n; k++ {
		c := (start + k) % n
		if !s.particles.claimed[c] && s.particles.state[c] == slotIdle {
			slot = c
			break
		}
	}
	if slot < 0 {
		for k := 0; k < n; k++ {
			c := (start + k) % n
			if !s.particles.claimed[c] {
				slot = c
				break
			}
		}
	}
	owns := slot >= 0
	if !owns {
		slot = start % n
	}
	target := s.particles.Target(slot)
	a.beginReveal(slot, target, s.now, &s.cfg)
	a.ownsSlot = owns
	if owns {
		s.particles.claim(slot, a.Color)
	}
	if !s.revealStarted {
		s.revealStarted = true
		s.revealAt = s.now
	}
}

// latchArrivals sets AtTarget on agents whose slot has locked. Terminal:
// never cleared.
func (s *Sim) latchArrivals() {
	if s.particles == nil {
		return
	}
	for i := range s.agents {
		a := &s.agents[i]
		if a.AtTarget || !a.hidden || a.TargetIndex < 0 {
			continue
		}
		if s.particles.atTarget(a.TargetIndex) {
			a.AtTarget = true
		}
	}
}

// updateAmbientTrigger starts the unassigned-slot fade-in once enough
// agents have arrived.
func (s *Sim) updateAmbientTrigger() {
	if s.particles == nil || len(s.agents) == 0 {
		return
	}
	arrived := 0
	for i := range s.agents {
		if s.agents[i].AtTarget {
			arrived++
		}
	}
	if float64(arrived)/float64(len(s.agents)) >= s.cfg.AmbientThreshold {
		s.particles.beginAmbient(s.now)
	}
}

// checkMilestones fires each milestone at most once, in order. A later
// milestone never fires before an earlier one. With zero agents no
// milestone ever fires.
func (s *Sim) checkMilestones() {
	if len(s.agents) == 0 {
		return
	}
	cfg := &s.cfg

	if !s.fired[MilestoneFlightBegins] {
		left := 0
		for i := range s.agents {
			if s.agents[i].Phase != PhaseForming {
				left++
			}
		}
		if float64(left)/float64(len(s.agents)) >= cfg.FlightBeginsFraction {
			s.fire(MilestoneFlightBegins, s.callbacks.OnFlightBegins)
		}
	}

	if s.fired[MilestoneFlightBegins] && !s.fired[MilestoneOutputReady] {
		if s.revealStarted && s.now-s.revealAt >= cfg.OutputReadyDelay {
			s.fire(MilestoneOutputReady, s.callbacks.OnOutputReady)
		}
	}

	if s.fired[MilestoneOutputReady] && !s.fired[MilestoneRevealComplete] {
		arrived := 0
		for i := range s.agents {
			if s.agents[i].AtTarget {
				arrived++
			}
		}
		if float64(arrived)/float64(len(s.agents)) >= cfg.RevealCompleteFraction {
			s.fire(MilestoneRevealComplete, s.callbacks.OnRevealComplete)
		}
	}

	if s.fired[MilestoneRevealComplete] && !s.fired[MilestoneParticlesFormed] {
		ratioDone := s.particles != nil &&
			float64(s.particles.ArrivedCount())/float64(max(s.particles.Len(), 1)) >= cfg.ParticlesFormedFraction
		// Time-based fallback so a stalled ratio still terminates the run.
		timeDone := s.revealStarted && s.now-s.revealAt >= cfg.ParticlesFormedTimeout
		if ratioDone || timeDone {
			s.fire(MilestoneParticlesFormed, s.callbacks.OnParticlesFormed)
		}
	}
}

// fire marks a milestone fired and invokes its handler if present.
func (s *Sim) fire(m Milestone, fn func()) {
	s.fired[m] = true
	if fn != nil {
		fn()
	}
}

// Fired reports whether the given milestone has fired this run.
func (s *Sim) Fired(m Milestone) bool {
	return s.fired[m]
}
